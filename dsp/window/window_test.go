package window

import (
	"math"
	"testing"
)

func TestHannShape(t *testing.T) {
	w, err := Hann(8)
	if err != nil {
		t.Fatal(err)
	}
	if w[0] != 0 {
		t.Fatalf("w[0]=%v, want 0", w[0])
	}
	if math.Abs(w[4]-1) > 1e-12 {
		t.Fatalf("w[4]=%v, want 1", w[4])
	}
	for i := 1; i < 4; i++ {
		if math.Abs(w[i]-w[8-i]) > 1e-12 {
			t.Fatalf("not symmetric at %d: %v vs %v", i, w[i], w[8-i])
		}
	}
}

func TestHannOverlapAddIsConstant(t *testing.T) {
	const n = 64
	w, err := Hann(n)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n/2; i++ {
		if sum := w[i] + w[i+n/2]; math.Abs(sum-1) > 1e-12 {
			t.Fatalf("sum at %d = %v, want 1", i, sum)
		}
	}
}

func TestHannInvalidSize(t *testing.T) {
	if _, err := Hann(0); err == nil {
		t.Fatal("expected error for size 0")
	}
	w, err := Hann(1)
	if err != nil || len(w) != 1 || w[0] != 1 {
		t.Fatalf("Hann(1) = %v, %v", w, err)
	}
}

func TestCoherentGain(t *testing.T) {
	w, _ := Hann(1024)
	g, err := CoherentGain(w)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(g-0.5) > 1e-9 {
		t.Fatalf("gain=%v, want 0.5", g)
	}
	if _, err := CoherentGain(nil); err == nil {
		t.Fatal("expected error for empty coefficients")
	}
	if _, err := CoherentGain([]float64{0, 0}); err == nil {
		t.Fatal("expected error for zero coefficients")
	}
}

func TestApplyInPlace(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	if err := ApplyInPlace(samples, []float64{0, 0.5, 1, 2}); err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 1, 3, 8}
	for i := range want {
		if samples[i] != want[i] {
			t.Fatalf("samples[%d]=%v, want %v", i, samples[i], want[i])
		}
	}
	if err := ApplyInPlace(samples, []float64{1}); err == nil {
		t.Fatal("expected length mismatch error")
	}
}
