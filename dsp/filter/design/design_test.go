package design

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-spatial/dsp/filter/biquad"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func mag(c biquad.Coefficients, f, sr float64) float64 {
	return math.Pow(10, c.MagnitudeDB(f, sr)/20)
}

func TestBiquadDesigners_BasicResponseShape(t *testing.T) {
	t.Parallel()

	sr := 48000.0
	f := 1000.0
	q := 1 / math.Sqrt2

	lp := Lowpass(f, q, sr)
	if !(mag(lp, 100, sr) > mag(lp, 10000, sr)) {
		t.Fatal("lowpass shape check failed")
	}

	hp := Highpass(f, q, sr)
	if !(mag(hp, 10000, sr) > mag(hp, 100, sr)) {
		t.Fatal("highpass shape check failed")
	}

	bp := Bandpass(f, q, sr)
	if !(mag(bp, f, sr) > mag(bp, 100, sr) && mag(bp, f, sr) > mag(bp, 10000, sr)) {
		t.Fatal("bandpass shape check failed")
	}

	n := Notch(f, q, sr)
	if !(mag(n, f, sr) < mag(n, 100, sr) && mag(n, f, sr) < mag(n, 10000, sr)) {
		t.Fatal("notch shape check failed")
	}

	ap := Allpass(f, q, sr)
	for _, hz := range []float64{100, 500, 1000, 5000, 10000} {
		if !almostEqual(mag(ap, hz, sr), 1, 1e-6) {
			t.Fatalf("allpass magnitude at %v Hz = %v, want ~1", hz, mag(ap, hz, sr))
		}
	}

	pk := Peak(f, 6, 1, sr)
	if !almostEqual(pk.MagnitudeDB(f, sr), 6, 1e-6) {
		t.Fatalf("peak gain at center = %v dB, want 6", pk.MagnitudeDB(f, sr))
	}
}

func TestHighShelfBoostsAboveCorner(t *testing.T) {
	t.Parallel()

	sr := 48000.0
	c := HighShelf(2000, 10, ShelfQ, sr)

	if db := c.MagnitudeDB(20, sr); !almostEqual(db, 0, 0.05) {
		t.Fatalf("low-frequency gain = %v dB, want ~0", db)
	}
	if db := c.MagnitudeDB(20000, sr); !almostEqual(db, 10, 0.3) {
		t.Fatalf("high-frequency gain = %v dB, want ~10", db)
	}
	if db := c.MagnitudeDB(2000, sr); !almostEqual(db, 5, 0.05) {
		t.Fatalf("corner gain = %v dB, want ~5 (half the shelf)", db)
	}
}

func TestLowShelfMirrorsHighShelf(t *testing.T) {
	t.Parallel()

	sr := 48000.0
	c := LowShelf(200, -6, ShelfQ, sr)
	if db := c.MagnitudeDB(20, sr); !almostEqual(db, -6, 0.2) {
		t.Fatalf("low-frequency gain = %v dB, want ~-6", db)
	}
	if db := c.MagnitudeDB(15000, sr); !almostEqual(db, 0, 0.05) {
		t.Fatalf("high-frequency gain = %v dB, want ~0", db)
	}
}

func TestInvalidInputsYieldZeroCoefficients(t *testing.T) {
	t.Parallel()

	for _, c := range []biquad.Coefficients{
		HighShelf(0, 10, ShelfQ, 48000),
		HighShelf(30000, 10, ShelfQ, 48000),
		Lowpass(1000, 1, 0),
		Peak(math.NaN(), 3, 1, 48000),
	} {
		if c != (biquad.Coefficients{}) {
			t.Fatalf("expected zero coefficients, got %+v", c)
		}
	}
}

func TestNonPositiveQFallsBackToButterworth(t *testing.T) {
	t.Parallel()

	if Lowpass(1000, 0, 48000) != Lowpass(1000, defaultQ, 48000) {
		t.Fatal("q <= 0 did not fall back to the default")
	}
}
