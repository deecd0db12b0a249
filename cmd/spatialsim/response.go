package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-spatial/dsp/core"
	"github.com/cwbudde/algo-spatial/dsp/effects/dynamics"
	"github.com/cwbudde/algo-spatial/dsp/effects/spatial"
	"github.com/cwbudde/algo-spatial/dsp/filter/design"
	"github.com/cwbudde/algo-spatial/spatializer"
)

var (
	responseFreqs  = []float64{50, 100, 250, 500, 1000, 2000, 4000, 8000, 16000}
	responseLevels = []float64{-80, -70, -60, -50, -40, -30, -20, -10, 0}
)

// printResponse writes the static behaviour of the fixed chain: panner
// geometry, shelf magnitude and compressor transfer curve.
func printResponse(out io.Writer, sampleRate float64) error {
	p := spatializer.DefaultChainParams()

	pos := spatial.Vec3{X: p.Panner.X, Y: p.Panner.Y, Z: p.Panner.Z}
	az, el := spatial.AzimuthElevation(pos)
	gain := spatial.DistanceGain(spatial.DistanceExponential, pos.Norm(),
		p.Panner.RefDistance, p.Panner.MaxDistance, p.Panner.RolloffFactor)
	fmt.Fprintf(out, "panner: azimuth %.1f deg, elevation %.1f deg, distance %.2f, gain %.1f dB\n\n",
		az, el, pos.Norm(), core.LinearToDB(gain))

	shelf := design.HighShelf(p.Equalizer.Frequency, p.Equalizer.Gain, design.ShelfQ, sampleRate)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "FREQ (Hz)\tSHELF (dB)\n")
	for _, f := range responseFreqs {
		fmt.Fprintf(w, "%.0f\t%+.2f\n", f, shelf.MagnitudeDB(f, sampleRate))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	comp, err := dynamics.NewCompressor(sampleRate)
	if err != nil {
		return err
	}
	cp := p.Compressor
	for _, set := range []func() error{
		func() error { return comp.SetThreshold(cp.Threshold) },
		func() error { return comp.SetKnee(cp.Knee) },
		func() error { return comp.SetRatio(cp.Ratio) },
		func() error { return comp.SetAttack(cp.Attack) },
		func() error { return comp.SetRelease(cp.Release) },
	} {
		if err := set(); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "\ncompressor makeup: %+.1f dB, output gain: %+.1f dB\n", comp.MakeupGain(), core.LinearToDB(p.Gain))
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "IN (dBFS)\tOUT (dBFS)\n")
	for _, lvl := range responseLevels {
		o := comp.CalculateOutputLevel(core.DBToLinear(lvl))
		fmt.Fprintf(w, "%.0f\t%.1f\n", lvl, core.LinearToDB(o))
	}
	return w.Flush()
}
