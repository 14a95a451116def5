// Package transport moves encoded frames to notification sinks.
//
// Ownership boundary:
// - the Notifier contract every sink implements
// - per-tick transmission of all channels in wire order
// - fanout to several sinks
//
// Sinks live in subpackages: stub (in-memory loopback) and ble (GATT notify).
package transport
