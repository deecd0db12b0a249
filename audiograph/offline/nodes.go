package offline

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spatial/audiograph"
	"github.com/cwbudde/algo-spatial/dom"
	"github.com/cwbudde/algo-spatial/dsp/core"
	"github.com/cwbudde/algo-spatial/dsp/effects/dynamics"
	"github.com/cwbudde/algo-spatial/dsp/effects/spatial"
	"github.com/cwbudde/algo-spatial/dsp/filter/biquad"
	"github.com/cwbudde/algo-spatial/dsp/filter/design"
)

type destination struct {
	*node
}

func newDestination(ctx *Context) *destination {
	d := &destination{node: newNode(ctx, "destination", true)}
	d.impl = d
	return d
}

func (d *destination) process(in, out core.Stereo, _ float64) error {
	copy(out[0], in[0])
	copy(out[1], in[1])
	return nil
}

type source struct {
	*node
	el     dom.Element
	stream Stream
	mono   []float64
}

func newSource(ctx *Context, el dom.Element) *source {
	s := &source{node: newNode(ctx, "source", false), el: el}
	if ss, ok := el.(dom.StreamSource); ok {
		s.stream = ss.AudioStream()
	}
	s.impl = s
	return s
}

// Element returns the adapted media element.
func (s *source) Element() dom.Element { return s.el }

func (s *source) process(_, out core.Stereo, _ float64) error {
	if s.stream == nil {
		out.Zero()
		return nil
	}

	s.mono = core.EnsureLen(s.mono, out.Len())
	n := s.stream.ReadAudio(s.mono)
	if n < 0 {
		n = 0
	}
	core.Zero(s.mono[n:])
	copy(out[0], s.mono)
	copy(out[1], s.mono)
	return nil
}

type panner struct {
	*node
	p       *spatial.Panner
	x, y, z *Param
	mono    []float64
}

func newPanner(ctx *Context) (*panner, error) {
	sp, err := spatial.NewPanner(ctx.cfg.SampleRate, ctx.cfg.BlockSize)
	if err != nil {
		return nil, err
	}
	p := &panner{
		node: newNode(ctx, "panner", true),
		p:    sp,
		x:    newParam(ctx, "positionX", 0, -maxParam, maxParam),
		y:    newParam(ctx, "positionY", 0, -maxParam, maxParam),
		z:    newParam(ctx, "positionZ", 0, -maxParam, maxParam),
	}
	p.impl = p
	return p, nil
}

func (p *panner) PositionX() audiograph.Param { return p.x }
func (p *panner) PositionY() audiograph.Param { return p.y }
func (p *panner) PositionZ() audiograph.Param { return p.z }

// Spatial exposes the underlying panner for inspection.
func (p *panner) Spatial() *spatial.Panner { return p.p }

func (p *panner) SetPanningModel(m audiograph.PanningModel) error {
	switch m {
	case audiograph.PanningEqualPower:
		return p.p.SetPanningModel(spatial.PanningEqualPower)
	case audiograph.PanningHRTF:
		return p.p.SetPanningModel(spatial.PanningHRTF)
	}
	return fmt.Errorf("%w: panning model %q", audiograph.ErrInvalidParam, m)
}

func (p *panner) SetDistanceModel(m audiograph.DistanceModel) error {
	switch m {
	case audiograph.DistanceLinear:
		return p.p.SetDistanceModel(spatial.DistanceLinear)
	case audiograph.DistanceInverse:
		return p.p.SetDistanceModel(spatial.DistanceInverse)
	case audiograph.DistanceExponential:
		return p.p.SetDistanceModel(spatial.DistanceExponential)
	}
	return fmt.Errorf("%w: distance model %q", audiograph.ErrInvalidParam, m)
}

func (p *panner) SetRefDistance(d float64) error {
	return invalidParam(p.p.SetRefDistance(d))
}

func (p *panner) SetMaxDistance(d float64) error {
	return invalidParam(p.p.SetMaxDistance(d))
}

func (p *panner) SetRolloffFactor(r float64) error {
	return invalidParam(p.p.SetRolloffFactor(r))
}

func (p *panner) process(in, out core.Stereo, t float64) error {
	pos := spatial.Vec3{X: p.x.ValueAt(t), Y: p.y.ValueAt(t), Z: p.z.ValueAt(t)}
	if pos != p.p.Position() {
		p.p.SetPosition(pos)
	}

	p.mono = core.EnsureLen(p.mono, in.Len())
	for i := range p.mono {
		p.mono[i] = 0.5 * (in[0][i] + in[1][i])
	}
	return p.p.Process(p.mono, out[0], out[1])
}

type compressor struct {
	*node
	c                                   *dynamics.Compressor
	threshold, knee, ratio, attack, rel *Param
}

func newCompressor(ctx *Context) (*compressor, error) {
	dc, err := dynamics.NewCompressor(ctx.cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	c := &compressor{
		node:      newNode(ctx, "compressor", true),
		c:         dc,
		threshold: newParam(ctx, "threshold", dynamics.DefaultThresholdDB, -100, 0),
		knee:      newParam(ctx, "knee", dynamics.DefaultKneeDB, 0, 40),
		ratio:     newParam(ctx, "ratio", dynamics.DefaultRatio, 1, 20),
		attack:    newParam(ctx, "attack", dynamics.DefaultAttack, 0, 1),
		rel:       newParam(ctx, "release", dynamics.DefaultRelease, 0, 1),
	}
	c.impl = c
	return c, nil
}

func (c *compressor) Threshold() audiograph.Param { return c.threshold }
func (c *compressor) Knee() audiograph.Param      { return c.knee }
func (c *compressor) Ratio() audiograph.Param     { return c.ratio }
func (c *compressor) Attack() audiograph.Param    { return c.attack }
func (c *compressor) Release() audiograph.Param   { return c.rel }

// Reduction reports the gain reduction of the last rendered frame in dB.
func (c *compressor) Reduction() float64 { return c.c.Reduction() }

// Dynamics exposes the underlying compressor for inspection.
func (c *compressor) Dynamics() *dynamics.Compressor { return c.c }

func (c *compressor) process(in, out core.Stereo, t float64) error {
	if err := c.sync(t); err != nil {
		return err
	}
	copy(out[0], in[0])
	copy(out[1], in[1])
	c.c.ProcessStereo(out[0], out[1])
	return nil
}

func (c *compressor) sync(t float64) error {
	steps := []struct {
		p       *Param
		current float64
		set     func(float64) error
	}{
		{c.threshold, c.c.Threshold(), c.c.SetThreshold},
		{c.knee, c.c.Knee(), c.c.SetKnee},
		{c.ratio, c.c.Ratio(), c.c.SetRatio},
		{c.attack, c.c.Attack(), c.c.SetAttack},
		{c.rel, c.c.Release(), c.c.SetRelease},
	}
	for _, s := range steps {
		if v := s.p.ValueAt(t); v != s.current {
			if err := s.set(v); err != nil {
				return err
			}
		}
	}
	return nil
}

type filter struct {
	*node
	typ                   audiograph.FilterType
	freq, q, gain, detune *Param
	sections              [2]*biquad.Section
	applied               [4]float64
	appliedType           audiograph.FilterType
	designed              bool
}

func newBiquad(ctx *Context) *filter {
	nyquist := ctx.cfg.SampleRate / 2
	f := &filter{
		node:     newNode(ctx, "biquad", true),
		typ:      audiograph.FilterLowpass,
		freq:     newParam(ctx, "frequency", 350, 0, nyquist),
		q:        newParam(ctx, "Q", 1, -maxParam, maxParam),
		gain:     newParam(ctx, "gain", 0, -maxParam, 40*math.Log10(maxParam)),
		detune:   newParam(ctx, "detune", 0, -1200*math.Log2(maxParam), 1200*math.Log2(maxParam)),
		sections: [2]*biquad.Section{biquad.NewSection(biquad.Identity()), biquad.NewSection(biquad.Identity())},
	}
	f.impl = f
	return f
}

func (f *filter) Type() audiograph.FilterType { return f.typ }

func (f *filter) SetType(t audiograph.FilterType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: filter type %q", audiograph.ErrInvalidParam, t)
	}
	f.typ = t
	return nil
}

func (f *filter) Frequency() audiograph.Param { return f.freq }
func (f *filter) Q() audiograph.Param         { return f.q }
func (f *filter) Gain() audiograph.Param      { return f.gain }
func (f *filter) Detune() audiograph.Param    { return f.detune }

// Coefficients returns the transfer function in effect at time t.
func (f *filter) Coefficients(t float64) biquad.Coefficients {
	return filterCoefficients(f.typ, f.freq.ValueAt(t), f.q.ValueAt(t), f.gain.ValueAt(t),
		f.detune.ValueAt(t), f.ctx.cfg.SampleRate)
}

func (f *filter) process(in, out core.Stereo, t float64) error {
	values := [4]float64{f.freq.ValueAt(t), f.q.ValueAt(t), f.gain.ValueAt(t), f.detune.ValueAt(t)}
	if !f.designed || values != f.applied || f.typ != f.appliedType {
		c := filterCoefficients(f.typ, values[0], values[1], values[2], values[3], f.ctx.cfg.SampleRate)
		f.sections[0].SetCoefficients(c)
		f.sections[1].SetCoefficients(c)
		f.applied, f.appliedType, f.designed = values, f.typ, true
	}

	for ch := range out {
		copy(out[ch], in[ch])
		f.sections[ch].ProcessBlock(out[ch])
	}
	return nil
}

// filterCoefficients maps browser biquad parameters onto the RBJ designs.
// Lowpass and highpass read Q in dB; shelves ignore Q. Frequencies at or
// beyond the band edges collapse to the limiting response.
func filterCoefficients(typ audiograph.FilterType, freq, q, gainDB, detune, sampleRate float64) biquad.Coefficients {
	nyquist := sampleRate / 2
	f := core.Clamp(freq*math.Pow(2, detune/1200), 0, nyquist)

	if f <= 0 || f >= nyquist {
		return edgeCoefficients(typ, f >= nyquist, gainDB)
	}

	switch typ {
	case audiograph.FilterLowpass:
		return design.Lowpass(f, math.Pow(10, q/20), sampleRate)
	case audiograph.FilterHighpass:
		return design.Highpass(f, math.Pow(10, q/20), sampleRate)
	case audiograph.FilterBandpass:
		return design.Bandpass(f, q, sampleRate)
	case audiograph.FilterNotch:
		return design.Notch(f, q, sampleRate)
	case audiograph.FilterAllpass:
		return design.Allpass(f, q, sampleRate)
	case audiograph.FilterPeaking:
		return design.Peak(f, gainDB, q, sampleRate)
	case audiograph.FilterLowShelf:
		return design.LowShelf(f, gainDB, design.ShelfQ, sampleRate)
	case audiograph.FilterHighShelf:
		return design.HighShelf(f, gainDB, design.ShelfQ, sampleRate)
	}
	return biquad.Identity()
}

func edgeCoefficients(typ audiograph.FilterType, atNyquist bool, gainDB float64) biquad.Coefficients {
	shelf := biquad.Coefficients{B0: core.DBToLinear(gainDB)}
	switch typ {
	case audiograph.FilterLowpass:
		if atNyquist {
			return biquad.Identity()
		}
		return biquad.Coefficients{}
	case audiograph.FilterHighpass:
		if atNyquist {
			return biquad.Coefficients{}
		}
		return biquad.Identity()
	case audiograph.FilterBandpass:
		return biquad.Coefficients{}
	case audiograph.FilterLowShelf:
		if atNyquist {
			return shelf
		}
		return biquad.Identity()
	case audiograph.FilterHighShelf:
		if atNyquist {
			return biquad.Identity()
		}
		return shelf
	}
	return biquad.Identity()
}

type gain struct {
	*node
	g     *Param
	curve []float64
}

func newGain(ctx *Context) *gain {
	g := &gain{
		node: newNode(ctx, "gain", true),
		g:    newParam(ctx, "gain", 1, -maxParam, maxParam),
	}
	g.impl = g
	return g
}

func (g *gain) Gain() audiograph.Param { return g.g }

func (g *gain) process(in, out core.Stereo, t float64) error {
	g.curve = core.EnsureLen(g.curve, in.Len())
	g.g.fill(g.curve, t)
	vecmath.MulBlock(out[0], in[0], g.curve)
	vecmath.MulBlock(out[1], in[1], g.curve)
	return nil
}

func invalidParam(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", audiograph.ErrInvalidParam, err)
}
