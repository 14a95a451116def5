// Package cane owns the simulator runtime.
//
// Ownership boundary:
// - the periodic tick loop
// - the single-consumer button queue
// - wiring controller, transmitter and monitor together
//
// Tick order:
// - drain queued presses -> controller tick -> transmit snapshot -> battery drain
//
// A tick whose mode has no generator emits no frames and does not drain the battery.
// No per-tick error stops the loop.
package cane
