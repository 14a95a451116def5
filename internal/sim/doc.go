// Package sim owns the simulation core of the cane.
//
// Ownership boundary:
// - operator modes and the button mapping
// - per-mode generators
// - the fall sequence sub-machine
// - the controller that bundles mode, fall phase, sensor state and battery behind one lock
//
// Lifecycle per tick:
// - Tick -> generator for the current mode -> snapshot
// - DrainBattery after the snapshot has been transmitted
//
// HandleButton may be called from any goroutine; the runtime funnels presses through the
// cane service queue so they never interleave with a tick.
package sim
