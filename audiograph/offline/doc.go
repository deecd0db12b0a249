// Package offline renders an audiograph natively, without a browser.
//
// A Context is pulled one render quantum at a time from its destination.
// Every node caches its output for the quantum being rendered, so a node
// feeding several others is processed once, and the inputs of a node are
// summed before it runs. Parameters are sampled at the start of each quantum
// (k-rate) except for gain, which is evaluated per frame (a-rate).
//
// Channels are always stereo. A media element source duplicates its mono
// stream to both channels and the panner downmixes its input back to mono.
package offline
