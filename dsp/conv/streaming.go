package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// StreamingConvolver convolves consecutive blocks of a signal with a fixed
// kernel. Blocks may be shorter than the configured block size but never
// longer.
type StreamingConvolver struct {
	kernelLen int
	blockSize int
	fftSize   int

	plan      *algofft.Plan[complex128]
	kernelFFT []complex128
	work      []complex128

	// tail holds the kernelLen-1 samples that spill past the current block.
	tail []float64
}

// NewStreamingConvolver prepares the kernel spectrum for blocks of up to
// blockSize samples.
func NewStreamingConvolver(kernel []float64, blockSize int) (*StreamingConvolver, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}

	fftSize := nextPowerOf2(blockSize + len(kernel) - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	sc := &StreamingConvolver{
		kernelLen: len(kernel),
		blockSize: blockSize,
		fftSize:   fftSize,
		plan:      plan,
		kernelFFT: make([]complex128, fftSize),
		work:      make([]complex128, fftSize),
		tail:      make([]float64, len(kernel)-1),
	}

	padded := make([]complex128, fftSize)
	for i, v := range kernel {
		padded[i] = complex(v, 0)
	}

	if err := plan.Forward(sc.kernelFFT, padded); err != nil {
		return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}

	return sc, nil
}

// BlockSize returns the maximum block length.
func (sc *StreamingConvolver) BlockSize() int { return sc.blockSize }

// KernelLen returns the kernel length.
func (sc *StreamingConvolver) KernelLen() int { return sc.kernelLen }

// ProcessBlock writes the next len(src) output samples into dst. dst and src
// may alias.
func (sc *StreamingConvolver) ProcessBlock(dst, src []float64) error {
	n := len(src)
	if len(dst) != n {
		return fmt.Errorf("%w: dst %d, src %d", ErrLengthMismatch, len(dst), n)
	}
	if n > sc.blockSize {
		return fmt.Errorf("%w: block of %d exceeds %d", ErrInvalidBlockSize, n, sc.blockSize)
	}
	if n == 0 {
		return nil
	}

	for i := range sc.work {
		sc.work[i] = 0
	}
	for i, x := range src {
		sc.work[i] = complex(x, 0)
	}

	if err := sc.plan.Forward(sc.work, sc.work); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}
	for i := range sc.work {
		sc.work[i] *= sc.kernelFFT[i]
	}
	if err := sc.plan.Inverse(sc.work, sc.work); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	overlap := len(sc.tail)
	for i := 0; i < n; i++ {
		y := real(sc.work[i])
		if i < overlap {
			y += sc.tail[i]
		}
		dst[i] = y
	}

	// Reads of tail[n+j] always run ahead of the write to tail[j].
	for j := 0; j < overlap; j++ {
		v := real(sc.work[n+j])
		if n+j < overlap {
			v += sc.tail[n+j]
		}
		sc.tail[j] = v
	}

	return nil
}

// Reset clears the carried convolution tail.
func (sc *StreamingConvolver) Reset() {
	for i := range sc.tail {
		sc.tail[i] = 0
	}
}
