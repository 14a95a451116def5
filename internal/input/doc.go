// Package input owns the operator-facing inputs and outputs of the dev kit.
//
// Ownership boundary:
// - button id parsing
// - console button source (one id per line on stdin)
// - the LED indicator toggled by button 1
package input
