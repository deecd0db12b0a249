package conv

import "errors"

var (
	ErrEmptyKernel      = errors.New("conv: empty kernel")
	ErrLengthMismatch   = errors.New("conv: buffer length mismatch")
	ErrInvalidBlockSize = errors.New("conv: invalid block size")
)

// Direct computes the full linear convolution of signal and kernel in the
// time domain. It is the reference the FFT path is tested against.
func Direct(signal, kernel []float64) []float64 {
	if len(signal) == 0 || len(kernel) == 0 {
		return nil
	}

	out := make([]float64, len(signal)+len(kernel)-1)
	for i, x := range signal {
		for j, h := range kernel {
			out[i+j] += x * h
		}
	}
	return out
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
