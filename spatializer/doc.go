// Package spatializer attaches a fixed spatial-audio chain to media
// elements:
//
//	source -> panner -> compressor -> high-shelf -> gain -> destination
//
// A Builder applies the chain at most once per element. It tracks every
// element it has seen by key, so repeated discovery of the same element is
// a logged no-op and the element itself is never annotated. A chain that
// fails to build is logged and the element is not retried.
//
// Builders are not safe for concurrent use. In the browser all calls arrive
// on the JavaScript event loop; native callers must use one goroutine.
package spatializer
