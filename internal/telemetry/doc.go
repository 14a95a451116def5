// Package telemetry holds the simulated sensor channels of the cane.
//
// Ownership boundary:
// - sensor value containers and their fixed initial values
// - battery drain model
// - the random source contract generators draw from
//
// Nothing here is safe for concurrent use; the sim controller serializes access.
package telemetry
