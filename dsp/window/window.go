// Package window generates the analysis windows used by the segment meters.
package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

var (
	errZeroCoherentGain = errors.New("window coherent gain is zero")
	errMismatchedLength = errors.New("samples and coefficients must have same length")
)

// Hann returns a periodic Hann window of the given size. Periodic windows
// overlap-add to a constant at 50% hop, which is what Welch averaging wants.
func Hann(size int) ([]float64, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be > 0: %d", size)
	}
	w := make([]float64, size)
	if size == 1 {
		w[0] = 1
		return w, nil
	}
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(size))
	}
	return w, nil
}

// CoherentGain returns the mean of the coefficients: the amplitude a
// full-scale bin-centred sinusoid keeps after windowing.
func CoherentGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errZeroCoherentGain
	}
	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	if sum == 0 {
		return 0, errZeroCoherentGain
	}
	return sum / float64(len(coeffs)), nil
}

// ApplyInPlace multiplies samples with coefficients in place.
func ApplyInPlace(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return errMismatchedLength
	}
	vecmath.MulBlockInPlace(samples, coeffs)
	return nil
}
