package spectrum

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-spatial/internal/testutil"
)

func TestNewAnalyzerRejectsBadSizes(t *testing.T) {
	for _, size := range []int{0, 2, 3, 100, -8} {
		if _, err := NewAnalyzer(size); !errors.Is(err, ErrInvalidSize) {
			t.Fatalf("size %d: err=%v, want ErrInvalidSize", size, err)
		}
	}
}

func TestMagnitudeOfBinCentredSine(t *testing.T) {
	const (
		size       = 256
		sampleRate = 8000.0
		bin        = 32
		amplitude  = 0.5
	)
	a, err := NewAnalyzer(size)
	if err != nil {
		t.Fatal(err)
	}
	freq := a.BinFrequency(bin, sampleRate)
	if freq != 1000 {
		t.Fatalf("bin frequency=%v, want 1000", freq)
	}

	if err := a.Write(testutil.DeterministicSine(freq, sampleRate, amplitude, 4*size)); err != nil {
		t.Fatal(err)
	}
	// 4 frames of input at 50% overlap.
	if a.Frames() != 7 {
		t.Fatalf("frames=%d, want 7", a.Frames())
	}

	mag := a.Magnitude()
	if len(mag) != a.Bins() || a.Bins() != size/2+1 {
		t.Fatalf("len=%d bins=%d", len(mag), a.Bins())
	}
	if math.Abs(mag[bin]-amplitude) > 1e-6 {
		t.Fatalf("peak=%v, want %v", mag[bin], amplitude)
	}
	for k, m := range mag {
		if k >= bin-1 && k <= bin+1 {
			continue
		}
		if m > 1e-6 {
			t.Fatalf("leakage at bin %d: %v", k, m)
		}
	}
}

func TestWriteSplitAcrossCalls(t *testing.T) {
	const size = 64
	sig := testutil.DeterministicNoise(7, 1, 5*size)

	whole, _ := NewAnalyzer(size)
	if err := whole.Write(sig); err != nil {
		t.Fatal(err)
	}
	split, _ := NewAnalyzer(size)
	for i := 0; i < len(sig); i += 13 {
		if err := split.Write(sig[i:min(i+13, len(sig))]); err != nil {
			t.Fatal(err)
		}
	}

	if whole.Frames() != split.Frames() {
		t.Fatalf("frames %d vs %d", whole.Frames(), split.Frames())
	}
	testutil.RequireSliceNearlyEqual(t, split.Magnitude(), whole.Magnitude(), 1e-12)
}

func TestMagnitudeBeforeFirstFrameAndReset(t *testing.T) {
	a, _ := NewAnalyzer(16)
	if err := a.Write(make([]float64, 15)); err != nil {
		t.Fatal(err)
	}
	if a.Magnitude() != nil {
		t.Fatal("expected nil magnitude before first frame")
	}
	if err := a.Write([]float64{1}); err != nil {
		t.Fatal(err)
	}
	if a.Frames() != 1 {
		t.Fatalf("frames=%d, want 1", a.Frames())
	}
	a.Reset()
	if a.Frames() != 0 || a.Magnitude() != nil {
		t.Fatal("reset did not clear state")
	}
}
