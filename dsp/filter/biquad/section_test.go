package biquad

import (
	"math"
	"testing"
)

const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNewSection(t *testing.T) {
	t.Parallel()

	c := Coefficients{B0: 1, B1: 2, B2: 3, A1: 4, A2: 5}
	s := NewSection(c)
	if s.Coefficients != c {
		t.Fatalf("coefficients mismatch: got %v, want %v", s.Coefficients, c)
	}
	if st := s.State(); st != [2]float64{0, 0} {
		t.Fatalf("initial state not zero: %v", st)
	}
}

func TestProcessSample_DFIIT(t *testing.T) {
	t.Parallel()

	// Hand-traced with x = [1, 0, 0, 0]:
	// n=0: y=0.25, d0=0.55, d1=0.24
	// n=1: y=0.55, d0=0.35, d1=-0.022
	// n=2: y=0.35, d0=0.048, d1=-0.014
	// n=3: y=0.048
	c := Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}
	s := NewSection(c)

	want := []float64{0.25, 0.55, 0.35, 0.048}
	for i, w := range want {
		var x float64
		if i == 0 {
			x = 1
		}
		if y := s.ProcessSample(x); !almostEqual(y, w, eps) {
			t.Fatalf("sample %d: got %v, want %v", i, y, w)
		}
	}
}

func TestProcessBlockMatchesProcessSample(t *testing.T) {
	t.Parallel()

	c := Coefficients{B0: 0.3, B1: -0.1, B2: 0.05, A1: -0.5, A2: 0.2}
	for _, n := range []int{0, 1, 2, 7, 128} {
		ref := NewSection(c)
		blk := NewSection(c)

		want := make([]float64, n)
		got := make([]float64, n)
		for i := range want {
			x := math.Sin(float64(i) * 0.37)
			want[i] = ref.ProcessSample(x)
			got[i] = x
		}
		blk.ProcessBlock(got)

		for i := range want {
			if !almostEqual(got[i], want[i], 1e-12) {
				t.Fatalf("n=%d index %d: got %v, want %v", n, i, got[i], want[i])
			}
		}
	}
}

func TestSetCoefficientsKeepsState(t *testing.T) {
	t.Parallel()

	s := NewSection(Coefficients{B0: 0.5, B1: 0.5})
	s.ProcessSample(1)
	before := s.State()
	s.SetCoefficients(Identity())
	if s.State() != before {
		t.Fatalf("state changed: got %v, want %v", s.State(), before)
	}

	s.Reset()
	if s.State() != [2]float64{} {
		t.Fatalf("Reset left state %v", s.State())
	}
}

func TestIdentityResponse(t *testing.T) {
	t.Parallel()

	c := Identity()
	for _, f := range []float64{20, 1000, 20000} {
		if db := c.MagnitudeDB(f, 48000); !almostEqual(db, 0, 1e-12) {
			t.Fatalf("MagnitudeDB(%v) = %v, want 0", f, db)
		}
		if ph := c.Phase(f, 48000); !almostEqual(ph, 0, 1e-12) {
			t.Fatalf("Phase(%v) = %v, want 0", f, ph)
		}
	}
}
