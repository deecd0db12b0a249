package offline

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-spatial/audiograph"
	"github.com/cwbudde/algo-spatial/dom"
	"github.com/cwbudde/algo-spatial/dsp/core"
)

// Stream is the audio a media element hands to its source node.
type Stream = dom.AudioStream

// Context is a native audiograph.Context. It starts in the running state.
//
// Context is not safe for concurrent use.
type Context struct {
	cfg   core.ProcessorConfig
	state audiograph.State
	log   *logrus.Logger

	frames  int64
	quantum int64

	dest    *destination
	sources map[dom.Key]*source
	nodes   int

	power   []float64
	levelDB float64
}

var _ audiograph.Context = (*Context)(nil)

// New creates a context. Sample rate and render quantum come from opts.
func New(opts ...core.ProcessorOption) *Context {
	c := &Context{
		cfg:     core.ApplyProcessorOptions(opts...),
		state:   audiograph.StateRunning,
		log:     logrus.StandardLogger(),
		sources: make(map[dom.Key]*source),
	}
	c.dest = newDestination(c)
	c.levelDB = core.LinearPowerToDB(0)
	return c
}

// SetLogger replaces the logger used for state transitions.
func (c *Context) SetLogger(l *logrus.Logger) {
	if l != nil {
		c.log = l
	}
}

// State returns the lifecycle state.
func (c *Context) State() audiograph.State { return c.state }

// SampleRate returns the sample rate in Hz.
func (c *Context) SampleRate() float64 { return c.cfg.SampleRate }

// BlockSize returns the render quantum in frames.
func (c *Context) BlockSize() int { return c.cfg.BlockSize }

// CurrentTime returns the number of rendered seconds.
func (c *Context) CurrentTime() float64 {
	return float64(c.frames) / c.cfg.SampleRate
}

// Destination returns the output node.
func (c *Context) Destination() audiograph.Node { return c.dest }

// NodeCount reports how many nodes were created, the destination excluded.
func (c *Context) NodeCount() int { return c.nodes }

// LevelDB returns the mean stereo power of the last rendered block in dBFS,
// or -Inf after silence.
func (c *Context) LevelDB() float64 { return c.levelDB }

// Resume moves a suspended context to running.
func (c *Context) Resume() error {
	return c.transition("Resume", audiograph.StateRunning)
}

// Suspend halts the clock. Render yields silence until Resume.
func (c *Context) Suspend() error {
	return c.transition("Suspend", audiograph.StateSuspended)
}

// Close releases the graph. A closed context cannot be reopened.
func (c *Context) Close() error {
	if err := c.transition("Close", audiograph.StateClosed); err != nil {
		return err
	}
	c.sources = make(map[dom.Key]*source)
	return nil
}

func (c *Context) transition(function string, to audiograph.State) error {
	if c.state == audiograph.StateClosed {
		return audiograph.ErrContextClosed
	}
	from := c.state
	c.state = to
	c.log.WithFields(logrus.Fields{
		"function": function,
		"from":     from.String(),
		"to":       to.String(),
	}).Debug("Audio context state changed")
	return nil
}

// Render pulls frames from the destination and returns them. A suspended
// context returns silence and its clock does not move.
func (c *Context) Render(frames int) (core.Stereo, error) {
	if c.state == audiograph.StateClosed {
		return core.Stereo{}, audiograph.ErrContextClosed
	}
	if frames < 0 {
		return core.Stereo{}, fmt.Errorf("offline: frame count must be >= 0: %d", frames)
	}

	out := core.NewStereo(frames)
	if c.state == audiograph.StateSuspended {
		c.levelDB = core.LinearPowerToDB(0)
		return out, nil
	}

	for pos := 0; pos < frames; {
		n := c.cfg.BlockSize
		if rem := frames - pos; rem < n {
			n = rem
		}

		block, err := c.dest.pull(c.quantum, n, c.CurrentTime())
		if err != nil {
			return core.Stereo{}, err
		}
		copy(out[0][pos:pos+n], block[0])
		copy(out[1][pos:pos+n], block[1])

		c.measure(block)
		c.quantum++
		c.frames += int64(n)
		pos += n
	}
	return out, nil
}

func (c *Context) measure(block core.Stereo) {
	n := block.Len()
	if n == 0 {
		return
	}
	c.power = core.EnsureLen(c.power, n)
	vecmath.Power(c.power, block[0], block[1])

	sum := 0.0
	for _, p := range c.power {
		sum += p
	}
	c.levelDB = core.LinearPowerToDB(sum / float64(2*n))
}

func (c *Context) checkOpen() error {
	if c.state == audiograph.StateClosed {
		return audiograph.ErrContextClosed
	}
	return nil
}

// CreateMediaElementSource adapts el. Elements implementing dom.StreamSource
// feed their stream into the graph; others produce silence.
func (c *Context) CreateMediaElementSource(el dom.Element) (audiograph.MediaElementSource, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if el == nil {
		return nil, fmt.Errorf("%w: nil media element", audiograph.ErrInvalidParam)
	}
	if _, ok := c.sources[el.Key()]; ok {
		return nil, audiograph.ErrSourceExists
	}

	s := newSource(c, el)
	c.sources[el.Key()] = s
	c.nodes++
	return s, nil
}

// CreatePanner creates an equal-power panner with inverse distance law at
// the listener position.
func (c *Context) CreatePanner() (audiograph.Panner, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	p, err := newPanner(c)
	if err != nil {
		return nil, err
	}
	c.nodes++
	return p, nil
}

// CreateDynamicsCompressor creates a compressor with default parameters.
func (c *Context) CreateDynamicsCompressor() (audiograph.DynamicsCompressor, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	comp, err := newCompressor(c)
	if err != nil {
		return nil, err
	}
	c.nodes++
	return comp, nil
}

// CreateBiquadFilter creates a 350 Hz lowpass filter.
func (c *Context) CreateBiquadFilter() (audiograph.BiquadFilter, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	c.nodes++
	return newBiquad(c), nil
}

// CreateGain creates a unity gain node.
func (c *Context) CreateGain() (audiograph.Gain, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	c.nodes++
	return newGain(c), nil
}
