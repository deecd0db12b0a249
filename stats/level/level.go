// Package level measures sample-domain loudness figures: peak, RMS and crest
// factor, in one shot or streamed block by block.
package level

import (
	"math"

	"github.com/cwbudde/algo-spatial/dsp/core"
)

// Stats holds level statistics of a signal.
type Stats struct {
	Length  int
	Peak    float64 // max |x|
	PeakDB  float64
	RMS     float64
	RMSDB   float64
	Crest   float64 // peak / RMS
	CrestDB float64
}

func emptyStats() Stats {
	return Stats{
		PeakDB:  math.Inf(-1),
		RMSDB:   math.Inf(-1),
		CrestDB: math.Inf(-1),
	}
}

// Calculate computes the statistics of signal.
func Calculate(signal []float64) Stats {
	var m Meter
	m.Write(signal)
	return m.Stats()
}

// Meter accumulates statistics across consecutive blocks. The zero value is
// ready to use.
type Meter struct {
	n      int
	peak   float64
	energy float64
}

// Write adds samples to the running statistics.
func (m *Meter) Write(samples []float64) {
	for _, x := range samples {
		if a := math.Abs(x); a > m.peak {
			m.peak = a
		}
		m.energy += x * x
	}
	m.n += len(samples)
}

// WriteStereo adds both channels of a stereo block. Each channel sample
// counts as one sample.
func (m *Meter) WriteStereo(block core.Stereo) {
	m.Write(block[0])
	m.Write(block[1])
}

// Stats returns the statistics of everything written since the last Reset.
func (m *Meter) Stats() Stats {
	if m.n == 0 {
		return emptyStats()
	}
	s := Stats{
		Length: m.n,
		Peak:   m.peak,
		PeakDB: core.LinearToDB(m.peak),
		RMS:    math.Sqrt(m.energy / float64(m.n)),
	}
	s.RMSDB = core.LinearToDB(s.RMS)
	if s.RMS > 0 {
		s.Crest = s.Peak / s.RMS
		s.CrestDB = core.LinearToDB(s.Crest)
	} else {
		s.CrestDB = math.Inf(-1)
	}
	return s
}

// Reset clears the meter.
func (m *Meter) Reset() { *m = Meter{} }
