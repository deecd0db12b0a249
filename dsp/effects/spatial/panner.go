package spatial

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-spatial/dsp/conv"
)

// PanningModel selects the spatialization algorithm.
type PanningModel int

const (
	// PanningEqualPower pans with a constant-power sine/cosine law.
	PanningEqualPower PanningModel = iota
	// PanningHRTF convolves with head-related impulse responses.
	PanningHRTF
)

func (m PanningModel) String() string {
	switch m {
	case PanningEqualPower:
		return "equalpower"
	case PanningHRTF:
		return "HRTF"
	default:
		return "unknown"
	}
}

// PannerOption mutates construction-time parameters.
type PannerOption func(*pannerConfig) error

type pannerConfig struct {
	model         PanningModel
	distanceModel DistanceModel
	refDistance   float64
	maxDistance   float64
	rolloff       float64
	provider      HRIRProvider
}

func defaultPannerConfig() pannerConfig {
	return pannerConfig{
		model:         PanningEqualPower,
		distanceModel: DistanceInverse,
		refDistance:   1,
		maxDistance:   10000,
		rolloff:       1,
		provider:      SphericalHead{},
	}
}

// WithPanningModel selects the panning model.
func WithPanningModel(model PanningModel) PannerOption {
	return func(cfg *pannerConfig) error {
		if model != PanningEqualPower && model != PanningHRTF {
			return fmt.Errorf("panner panning model is invalid: %d", model)
		}
		cfg.model = model
		return nil
	}
}

// WithDistanceModel selects the distance model.
func WithDistanceModel(model DistanceModel) PannerOption {
	return func(cfg *pannerConfig) error {
		if model < DistanceLinear || model > DistanceExponential {
			return fmt.Errorf("panner distance model is invalid: %d", model)
		}
		cfg.distanceModel = model
		return nil
	}
}

// WithHRIRProvider replaces the spherical-head HRIR synthesizer.
func WithHRIRProvider(provider HRIRProvider) PannerOption {
	return func(cfg *pannerConfig) error {
		if provider == nil {
			return fmt.Errorf("panner HRIR provider must not be nil")
		}
		cfg.provider = provider
		return nil
	}
}

// Panner renders a mono signal to stereo for a source at a fixed position.
type Panner struct {
	sampleRate float64
	blockSize  int

	model         PanningModel
	distanceModel DistanceModel
	refDistance   float64
	maxDistance   float64
	rolloff       float64
	provider      HRIRProvider

	position  Vec3
	azimuth   float64
	elevation float64
	gain      float64

	hrirDirty bool
	left      *conv.StreamingConvolver
	right     *conv.StreamingConvolver
}

// NewPanner creates a panner for blocks of up to blockSize frames. The
// source starts at the listener position.
func NewPanner(sampleRate float64, blockSize int, opts ...PannerOption) (*Panner, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("panner sample rate must be > 0 and finite: %f", sampleRate)
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("panner block size must be > 0: %d", blockSize)
	}

	cfg := defaultPannerConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	p := &Panner{
		sampleRate:    sampleRate,
		blockSize:     blockSize,
		model:         cfg.model,
		distanceModel: cfg.distanceModel,
		refDistance:   cfg.refDistance,
		maxDistance:   cfg.maxDistance,
		rolloff:       cfg.rolloff,
		provider:      cfg.provider,
		hrirDirty:     true,
	}
	p.updateGeometry()

	return p, nil
}

// SetPanningModel switches between equal-power and HRTF rendering.
func (p *Panner) SetPanningModel(model PanningModel) error {
	if err := WithPanningModel(model)(&pannerConfig{}); err != nil {
		return err
	}
	p.model = model
	p.hrirDirty = true
	return nil
}

// SetDistanceModel switches the distance attenuation curve.
func (p *Panner) SetDistanceModel(model DistanceModel) error {
	if err := WithDistanceModel(model)(&pannerConfig{}); err != nil {
		return err
	}
	p.distanceModel = model
	p.updateGeometry()
	return nil
}

// SetRefDistance sets the distance at which attenuation starts. Must be >= 0.
func (p *Panner) SetRefDistance(d float64) error {
	if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return fmt.Errorf("panner ref distance must be >= 0 and finite: %f", d)
	}
	p.refDistance = d
	p.updateGeometry()
	return nil
}

// SetMaxDistance sets the distance beyond which the linear model stops
// attenuating. Must be > 0.
func (p *Panner) SetMaxDistance(d float64) error {
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return fmt.Errorf("panner max distance must be > 0 and finite: %f", d)
	}
	p.maxDistance = d
	p.updateGeometry()
	return nil
}

// SetRolloffFactor sets how quickly gain falls off. Must be >= 0.
func (p *Panner) SetRolloffFactor(r float64) error {
	if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return fmt.Errorf("panner rolloff factor must be >= 0 and finite: %f", r)
	}
	p.rolloff = r
	p.updateGeometry()
	return nil
}

// SetPosition moves the source. HRIRs are only regenerated when the
// direction changes.
func (p *Panner) SetPosition(pos Vec3) {
	if pos == p.position {
		return
	}
	p.position = pos
	p.updateGeometry()
}

// Position returns the source position.
func (p *Panner) Position() Vec3 { return p.position }

// PanningModel returns the active panning model.
func (p *Panner) PanningModel() PanningModel { return p.model }

// DistanceModel returns the active distance model.
func (p *Panner) DistanceModel() DistanceModel { return p.distanceModel }

// RefDistance returns the reference distance.
func (p *Panner) RefDistance() float64 { return p.refDistance }

// MaxDistance returns the maximum distance.
func (p *Panner) MaxDistance() float64 { return p.maxDistance }

// RolloffFactor returns the rolloff factor.
func (p *Panner) RolloffFactor() float64 { return p.rolloff }

// Azimuth returns the source azimuth in degrees.
func (p *Panner) Azimuth() float64 { return p.azimuth }

// Elevation returns the source elevation in degrees.
func (p *Panner) Elevation() float64 { return p.elevation }

// Gain returns the current distance attenuation.
func (p *Panner) Gain() float64 { return p.gain }

// Process renders in to outL and outR. All three slices must have the same
// length, no longer than the configured block size.
func (p *Panner) Process(in, outL, outR []float64) error {
	n := len(in)
	if len(outL) != n || len(outR) != n {
		return fmt.Errorf("panner: buffer lengths differ: in %d, left %d, right %d", n, len(outL), len(outR))
	}
	if n > p.blockSize {
		return fmt.Errorf("panner: block of %d exceeds %d", n, p.blockSize)
	}

	if p.model == PanningHRTF {
		return p.processHRTF(in, outL, outR)
	}

	gl, gr := equalPowerGains(p.azimuth)
	gl *= p.gain
	gr *= p.gain
	for i, x := range in {
		outL[i] = x * gl
		outR[i] = x * gr
	}
	return nil
}

// Reset clears convolution history.
func (p *Panner) Reset() {
	if p.left != nil {
		p.left.Reset()
		p.right.Reset()
	}
}

func (p *Panner) processHRTF(in, outL, outR []float64) error {
	if p.hrirDirty || p.left == nil {
		if err := p.loadHRIR(); err != nil {
			return err
		}
	}

	if err := p.left.ProcessBlock(outL, in); err != nil {
		return err
	}
	if err := p.right.ProcessBlock(outR, in); err != nil {
		return err
	}

	for i := range outL {
		outL[i] *= p.gain
		outR[i] *= p.gain
	}
	return nil
}

func (p *Panner) loadHRIR() error {
	left, right, err := p.provider.ImpulseResponse(p.azimuth, p.elevation, p.sampleRate)
	if err != nil {
		return fmt.Errorf("panner HRIR load failed: %w", err)
	}

	lc, err := conv.NewStreamingConvolver(left, p.blockSize)
	if err != nil {
		return err
	}
	rc, err := conv.NewStreamingConvolver(right, p.blockSize)
	if err != nil {
		return err
	}

	p.left, p.right = lc, rc
	p.hrirDirty = false
	return nil
}

func (p *Panner) updateGeometry() {
	az, el := AzimuthElevation(p.position)
	if az != p.azimuth || el != p.elevation {
		p.hrirDirty = true
	}
	p.azimuth, p.elevation = az, el
	p.gain = DistanceGain(p.distanceModel, p.position.Norm(), p.refDistance, p.maxDistance, p.rolloff)
}

// equalPowerGains folds rear azimuths onto the frontal half-plane and applies
// the constant-power law.
func equalPowerGains(azimuth float64) (float64, float64) {
	switch {
	case azimuth < -90:
		azimuth = -180 - azimuth
	case azimuth > 90:
		azimuth = 180 - azimuth
	}

	x := (azimuth + 90) / 180
	return math.Cos(x * math.Pi / 2), math.Sin(x * math.Pi / 2)
}
