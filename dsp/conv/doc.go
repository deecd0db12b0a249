// Package conv provides block-streaming FFT convolution.
//
// [StreamingConvolver] filters an unbounded signal one block at a time with a
// fixed FIR kernel using the overlap-add method, carrying the convolution
// tail across blocks. It is the convolution engine behind HRTF panning.
package conv
