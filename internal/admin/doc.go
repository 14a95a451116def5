// Package admin serves the operator HTTP surface of a running simulator.
//
// Routes:
// - GET  /health, /ready, /metrics
// - GET  /status
// - POST /buttons/:id (second input source next to the console)
package admin
