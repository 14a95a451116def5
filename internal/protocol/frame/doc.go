// Package frame owns the cane notification wire contract.
//
// Ownership boundary:
// - channel ids and their fixed payload sizes
// - frame encode/decode (ChannelID | float32 LE payload | ModeTag)
// - receiving-side reassembly of one tick from its five frames
package frame
