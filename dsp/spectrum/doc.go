// Package spectrum estimates averaged magnitude spectra of streamed audio.
//
// An [Analyzer] splits its input into Hann-windowed frames overlapping by
// half a frame, transforms each with a precomputed FFT plan and averages the
// one-sided magnitudes (Welch's method). Magnitudes are scaled so a
// bin-centred sinusoid of amplitude A reads A in its bin.
package spectrum
