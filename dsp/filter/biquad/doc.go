// Package biquad provides the second-order IIR runtime used by the
// equalization stage of a processing chain.
//
// A [Section] implements Direct Form II Transposed processing for one channel.
// Coefficient design lives in dsp/filter/design.
package biquad
