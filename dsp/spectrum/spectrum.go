package spectrum

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spatial/dsp/window"
)

// ErrInvalidSize is returned for frame sizes that are not a power of two of
// at least 4.
var ErrInvalidSize = errors.New("spectrum: frame size must be a power of two >= 4")

// Analyzer accumulates a Welch-averaged magnitude spectrum.
type Analyzer struct {
	size int
	hop  int

	plan   *algofft.Plan[complex128]
	coeffs []float64
	scale  float64

	pending []float64
	frame   []float64
	work    []complex128
	re, im  []float64
	mag     []float64
	acc     []float64
	frames  int
}

// NewAnalyzer prepares an analyzer for frames of size samples.
func NewAnalyzer(size int) (*Analyzer, error) {
	if size < 4 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: failed to create FFT plan: %w", err)
	}
	coeffs, err := window.Hann(size)
	if err != nil {
		return nil, err
	}
	gain, err := window.CoherentGain(coeffs)
	if err != nil {
		return nil, err
	}

	bins := size/2 + 1
	return &Analyzer{
		size:    size,
		hop:     size / 2,
		plan:    plan,
		coeffs:  coeffs,
		scale:   2 / (float64(size) * gain),
		pending: make([]float64, 0, 2*size),
		frame:   make([]float64, size),
		work:    make([]complex128, size),
		re:      make([]float64, bins),
		im:      make([]float64, bins),
		mag:     make([]float64, bins),
		acc:     make([]float64, bins),
	}, nil
}

// Size returns the frame size.
func (a *Analyzer) Size() int { return a.size }

// Bins returns the number of one-sided bins, Size()/2+1.
func (a *Analyzer) Bins() int { return len(a.acc) }

// Frames returns how many frames have been averaged so far.
func (a *Analyzer) Frames() int { return a.frames }

// Write feeds samples. Every complete frame is analyzed immediately; a
// trailing partial frame waits for the next call.
func (a *Analyzer) Write(samples []float64) error {
	for len(samples) > 0 {
		n := min(a.size-len(a.pending), len(samples))
		a.pending = append(a.pending, samples[:n]...)
		samples = samples[n:]
		if len(a.pending) < a.size {
			return nil
		}
		if err := a.analyze(); err != nil {
			return err
		}
		a.pending = append(a.pending[:0], a.pending[a.hop:]...)
	}
	return nil
}

func (a *Analyzer) analyze() error {
	copy(a.frame, a.pending)
	if err := window.ApplyInPlace(a.frame, a.coeffs); err != nil {
		return err
	}
	for i, x := range a.frame {
		a.work[i] = complex(x, 0)
	}
	if err := a.plan.Forward(a.work, a.work); err != nil {
		return fmt.Errorf("spectrum: forward FFT failed: %w", err)
	}
	for k := range a.re {
		a.re[k] = real(a.work[k])
		a.im[k] = imag(a.work[k])
	}
	vecmath.Magnitude(a.mag, a.re, a.im)
	for k, m := range a.mag {
		a.acc[k] += m
	}
	a.frames++
	return nil
}

// Magnitude returns the averaged one-sided magnitude spectrum, or nil before
// the first complete frame.
func (a *Analyzer) Magnitude() []float64 {
	if a.frames == 0 {
		return nil
	}
	out := make([]float64, len(a.acc))
	norm := a.scale / float64(a.frames)
	for k, v := range a.acc {
		out[k] = v * norm
	}
	// DC and Nyquist have no mirrored negative-frequency partner.
	out[0] /= 2
	out[len(out)-1] /= 2
	return out
}

// BinFrequency returns the centre frequency of bin k in Hz.
func (a *Analyzer) BinFrequency(k int, sampleRate float64) float64 {
	return float64(k) * sampleRate / float64(a.size)
}

// Reset drops pending samples and the accumulated average.
func (a *Analyzer) Reset() {
	a.pending = a.pending[:0]
	for k := range a.acc {
		a.acc[k] = 0
	}
	a.frames = 0
}
