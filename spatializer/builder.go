package spatializer

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-spatial/audiograph"
	"github.com/cwbudde/algo-spatial/dom"
)

type state int

const (
	stateAttempting state = iota
	stateProcessed
	stateFailed
)

func (s state) String() string {
	switch s {
	case stateAttempting:
		return "attempting"
	case stateProcessed:
		return "processed"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stats counts Apply outcomes.
type Stats struct {
	Processed int
	Failed    int
	// Skipped counts calls for elements that were already attempted.
	Skipped int
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. The default is logrus.StandardLogger().
func WithLogger(l *logrus.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// Builder applies the chain to media elements against one shared context.
type Builder struct {
	ctx    audiograph.Context
	params ChainParams
	log    *logrus.Logger
	states map[dom.Key]state
	stats  Stats
}

// New returns a Builder that extends ctx. The context is never closed or
// reset by the Builder.
func New(ctx audiograph.Context, opts ...Option) *Builder {
	b := &Builder{
		ctx:    ctx,
		params: DefaultChainParams(),
		log:    logrus.StandardLogger(),
		states: make(map[dom.Key]state),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// Context returns the shared context.
func (b *Builder) Context() audiograph.Context { return b.ctx }

// Params returns the chain configuration.
func (b *Builder) Params() ChainParams { return b.params }

// Processed reports whether el received a chain.
func (b *Builder) Processed(el dom.Element) bool {
	if el == nil {
		return false
	}
	key, _, ok := identify(el)
	if !ok {
		return false
	}
	st, ok := b.states[key]
	return ok && st == stateProcessed
}

// Attempted reports whether Apply has seen el, whatever the outcome.
func (b *Builder) Attempted(el dom.Element) bool {
	if el == nil {
		return false
	}
	key, _, ok := identify(el)
	if !ok {
		return false
	}
	_, ok = b.states[key]
	return ok
}

// Stats returns the outcome counters.
func (b *Builder) Stats() Stats { return b.stats }

// Apply builds the chain for el unless el was attempted before. Failures are
// logged and leave el permanently unprocessed; Apply never returns an error
// and does not panic on collaborator failures.
func (b *Builder) Apply(el dom.Element) {
	if el == nil {
		b.log.WithFields(logrus.Fields{
			"function": "Apply",
		}).Warn("Ignoring nil media element")
		return
	}

	key, tag, ok := identify(el)
	if !ok {
		b.log.WithFields(logrus.Fields{
			"function": "Apply",
			"type":     fmt.Sprintf("%T", el),
		}).Warn("Ignoring media element without identity")
		return
	}
	fields := logrus.Fields{
		"function": "Apply",
		"element":  key,
		"tag":      tag,
	}

	if st, ok := b.states[key]; ok {
		b.stats.Skipped++
		b.log.WithFields(fields).WithField("state", st.String()).
			Info("Spatializer already applied to this element")
		return
	}

	b.states[key] = stateAttempting
	if err := b.build(el, key); err != nil {
		b.states[key] = stateFailed
		b.stats.Failed++

		entry := b.log.WithFields(fields).WithError(err)
		var ce *ConstructionError
		if errors.As(err, &ce) {
			entry = entry.WithField("stage", string(ce.Stage))
		}
		entry.Error("Failed to apply spatial audio chain")
		return
	}

	b.states[key] = stateProcessed
	b.stats.Processed++
	b.log.WithFields(fields).Info("Spatial audio chain applied to media element")
}

// identify reads the element's key and tag. A nil value behind a non-nil
// interface panics on access and is reported as not ok.
func identify(el dom.Element) (key dom.Key, tag string, ok bool) {
	defer func() {
		if recover() != nil {
			key, tag, ok = 0, "", false
		}
	}()
	return el.Key(), el.TagName(), true
}

func (b *Builder) build(el dom.Element, key dom.Key) (err error) {
	stage := StageSource
	defer func() {
		if r := recover(); r != nil {
			err = &ConstructionError{Stage: stage, Element: key, Err: fmt.Errorf("%w: %v", ErrHostPanic, r)}
		}
	}()

	fail := func(e error) error {
		return &ConstructionError{Stage: stage, Element: key, Err: e}
	}

	if b.ctx == nil {
		return fail(errors.New("spatializer: no audio context"))
	}

	src, err := b.ctx.CreateMediaElementSource(el)
	if err != nil {
		return fail(err)
	}

	stage = StagePanner
	panner, err := b.ctx.CreatePanner()
	if err != nil {
		return fail(err)
	}
	if err := b.configurePanner(panner); err != nil {
		return fail(err)
	}

	stage = StageCompressor
	comp, err := b.ctx.CreateDynamicsCompressor()
	if err != nil {
		return fail(err)
	}
	if err := b.configureCompressor(comp); err != nil {
		return fail(err)
	}

	stage = StageEqualizer
	eq, err := b.ctx.CreateBiquadFilter()
	if err != nil {
		return fail(err)
	}
	if err := b.configureEqualizer(eq); err != nil {
		return fail(err)
	}

	stage = StageGain
	gain, err := b.ctx.CreateGain()
	if err != nil {
		return fail(err)
	}
	if err := gain.Gain().SetValue(b.params.Gain); err != nil {
		return fail(err)
	}

	stage = StageConnect
	chain := []audiograph.Node{src, panner, comp, eq, gain, b.ctx.Destination()}
	for i := 0; i < len(chain)-1; i++ {
		if err := chain[i].Connect(chain[i+1]); err != nil {
			return fail(err)
		}
	}
	return nil
}

func (b *Builder) configurePanner(p audiograph.Panner) error {
	pp := b.params.Panner
	if err := p.SetPanningModel(pp.Model); err != nil {
		return err
	}
	if err := p.SetDistanceModel(pp.DistanceModel); err != nil {
		return err
	}
	if err := p.SetRefDistance(pp.RefDistance); err != nil {
		return err
	}
	if err := p.SetMaxDistance(pp.MaxDistance); err != nil {
		return err
	}
	if err := p.SetRolloffFactor(pp.RolloffFactor); err != nil {
		return err
	}
	return setAt(b.ctx.CurrentTime(),
		scheduled{p.PositionX(), pp.X},
		scheduled{p.PositionY(), pp.Y},
		scheduled{p.PositionZ(), pp.Z},
	)
}

func (b *Builder) configureCompressor(c audiograph.DynamicsCompressor) error {
	cp := b.params.Compressor
	return setAt(b.ctx.CurrentTime(),
		scheduled{c.Threshold(), cp.Threshold},
		scheduled{c.Knee(), cp.Knee},
		scheduled{c.Ratio(), cp.Ratio},
		scheduled{c.Attack(), cp.Attack},
		scheduled{c.Release(), cp.Release},
	)
}

func (b *Builder) configureEqualizer(f audiograph.BiquadFilter) error {
	ep := b.params.Equalizer
	if err := f.SetType(ep.Type); err != nil {
		return err
	}
	return setAt(b.ctx.CurrentTime(),
		scheduled{f.Frequency(), ep.Frequency},
		scheduled{f.Gain(), ep.Gain},
	)
}

type scheduled struct {
	param audiograph.Param
	value float64
}

func setAt(t float64, values ...scheduled) error {
	for _, s := range values {
		if err := s.param.SetValueAtTime(s.value, t); err != nil {
			return fmt.Errorf("%s: %w", paramName(s.param), err)
		}
	}
	return nil
}

func paramName(p audiograph.Param) string {
	if n, ok := p.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "param"
}
