// Package frequency derives scalar descriptors from one-sided magnitude
// spectra.
//
// The magnitude slice holds bins from 0 (DC) to Nyquist, so the frequency of
// bin i is
//
//	f_i = i * sampleRate / (2 * (len(magnitude) - 1))
package frequency

// binFreq returns the frequency in Hz of a given bin index.
func binFreq(i int, sampleRate float64, binCount int) float64 {
	return float64(i) * sampleRate / float64(2*(binCount-1))
}

// Centroid returns the magnitude-weighted mean frequency in Hz. Spectra with
// fewer than two bins or no energy have no centroid and return 0.
func Centroid(magnitude []float64, sampleRate float64) float64 {
	n := len(magnitude)
	if n < 2 {
		return 0
	}
	var sum, weighted float64
	for i, m := range magnitude {
		sum += m
		weighted += m * binFreq(i, sampleRate, n)
	}
	if sum <= 0 {
		return 0
	}
	return weighted / sum
}

// Peak returns the frequency in Hz of the largest bin, refined by parabolic
// interpolation over its neighbours, together with the bin's magnitude.
func Peak(magnitude []float64, sampleRate float64) (freq, mag float64) {
	n := len(magnitude)
	if n < 2 {
		return 0, 0
	}
	best := 0
	for i, m := range magnitude {
		if m > magnitude[best] {
			best = i
		}
	}
	mag = magnitude[best]
	offset := 0.0
	if best > 0 && best < n-1 {
		l, c, r := magnitude[best-1], magnitude[best], magnitude[best+1]
		if d := l - 2*c + r; d != 0 {
			offset = 0.5 * (l - r) / d
		}
	}
	return (float64(best) + offset) * sampleRate / float64(2*(n-1)), mag
}
