// Package design provides RBJ audio-EQ-cookbook coefficient designers.
//
// The functions produce biquad coefficients consumable by dsp/filter/biquad.
// Shelving designs use the cookbook slope parameterization with S = 1, which
// is what browser audio engines implement for their shelf filters.
package design
