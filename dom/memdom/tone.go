package memdom

import "math"

// Tone is a sine AudioStream, standing in for a decoded media file.
type Tone struct {
	Freq       float64
	Amplitude  float64
	SampleRate float64
	// Frames limits the stream length; zero plays forever.
	Frames int

	pos int
}

// NewTone returns a tone of the given frequency and peak amplitude.
func NewTone(freq, amplitude, sampleRate float64, frames int) *Tone {
	return &Tone{Freq: freq, Amplitude: amplitude, SampleRate: sampleRate, Frames: frames}
}

// ReadAudio implements dom.AudioStream.
func (t *Tone) ReadAudio(buf []float64) int {
	n := len(buf)
	if t.Frames > 0 {
		if left := t.Frames - t.pos; left < n {
			n = max(left, 0)
		}
	}
	if t.SampleRate <= 0 {
		return 0
	}

	w := 2 * math.Pi * t.Freq / t.SampleRate
	for i := 0; i < n; i++ {
		buf[i] = t.Amplitude * math.Sin(w*float64(t.pos+i))
	}
	t.pos += n
	return n
}

// Position returns the number of frames produced so far.
func (t *Tone) Position() int { return t.pos }
