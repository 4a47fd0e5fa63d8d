// Package runtime implements the grab lifecycle controller: the draw state
// machine, the raycast resolver, the camera sequencer and the input mode
// controller that routes device events to them.
//
// Everything in this package runs on the goroutine that delivers input events
// and fires scheduler callbacks. Callers that share an Engine between
// goroutines must serialize access themselves.
package runtime
