package conv

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-spatial/internal/testutil"
)

func TestStreamingMatchesDirect(t *testing.T) {
	t.Parallel()

	kernel := testutil.DeterministicNoise(7, 1, 37)
	signal := testutil.DeterministicNoise(11, 1, 1000)
	want := Direct(signal, kernel)[:len(signal)]

	for _, blockSize := range []int{1, 16, 128, 333} {
		sc, err := NewStreamingConvolver(kernel, blockSize)
		if err != nil {
			t.Fatalf("NewStreamingConvolver(%d): %v", blockSize, err)
		}

		got := make([]float64, len(signal))
		for start := 0; start < len(signal); start += blockSize {
			end := min(start+blockSize, len(signal))
			if err := sc.ProcessBlock(got[start:end], signal[start:end]); err != nil {
				t.Fatalf("ProcessBlock: %v", err)
			}
		}

		testutil.RequireSliceNearlyEqual(t, got, want, 1e-9)
	}
}

func TestStreamingInPlaceWithShortBlocks(t *testing.T) {
	t.Parallel()

	kernel := []float64{0.5, 0.25, 0.125}
	signal := testutil.Impulse(10, 0)

	sc, err := NewStreamingConvolver(kernel, 4)
	if err != nil {
		t.Fatalf("NewStreamingConvolver: %v", err)
	}

	buf := append([]float64(nil), signal...)
	for _, span := range [][2]int{{0, 1}, {1, 4}, {4, 6}, {6, 10}} {
		blk := buf[span[0]:span[1]]
		if err := sc.ProcessBlock(blk, blk); err != nil {
			t.Fatalf("ProcessBlock: %v", err)
		}
	}

	want := []float64{0.5, 0.25, 0.125, 0, 0, 0, 0, 0, 0, 0}
	testutil.RequireSliceNearlyEqual(t, buf, want, 1e-12)
}

func TestStreamingResetDropsTail(t *testing.T) {
	t.Parallel()

	sc, err := NewStreamingConvolver([]float64{1, 1, 1, 1}, 2)
	if err != nil {
		t.Fatalf("NewStreamingConvolver: %v", err)
	}

	out := make([]float64, 2)
	if err := sc.ProcessBlock(out, []float64{1, 0}); err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}
	sc.Reset()
	if err := sc.ProcessBlock(out, []float64{0, 0}); err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out, []float64{0, 0}, 1e-12)
}

func TestStreamingErrors(t *testing.T) {
	t.Parallel()

	if _, err := NewStreamingConvolver(nil, 8); !errors.Is(err, ErrEmptyKernel) {
		t.Fatalf("empty kernel error = %v", err)
	}
	if _, err := NewStreamingConvolver([]float64{1}, 0); !errors.Is(err, ErrInvalidBlockSize) {
		t.Fatalf("zero block size error = %v", err)
	}

	sc, err := NewStreamingConvolver([]float64{1}, 4)
	if err != nil {
		t.Fatalf("NewStreamingConvolver: %v", err)
	}
	if err := sc.ProcessBlock(make([]float64, 3), make([]float64, 4)); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("mismatch error = %v", err)
	}
	if err := sc.ProcessBlock(make([]float64, 5), make([]float64, 5)); !errors.Is(err, ErrInvalidBlockSize) {
		t.Fatalf("oversized block error = %v", err)
	}
}
