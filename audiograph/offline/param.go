package offline

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-spatial/audiograph"
	"github.com/cwbudde/algo-spatial/dsp/core"
)

// Nominal range of an unbounded parameter, the largest single-precision value.
const maxParam = math.MaxFloat32

type event struct {
	time  float64
	value float64
}

// Param is a parameter with a step automation timeline. Values outside the
// nominal range are clamped when read.
type Param struct {
	ctx      *Context
	name     string
	def      float64
	min, max float64
	events   []event
}

var _ audiograph.Param = (*Param)(nil)

func newParam(ctx *Context, name string, def, min, max float64) *Param {
	return &Param{ctx: ctx, name: name, def: def, min: min, max: max}
}

// Name returns the parameter name.
func (p *Param) Name() string { return p.name }

// DefaultValue returns the value used before any automation.
func (p *Param) DefaultValue() float64 { return p.def }

// Range returns the nominal range.
func (p *Param) Range() (min, max float64) { return p.min, p.max }

// Value returns the value at the context's current time.
func (p *Param) Value() float64 {
	return p.ValueAt(p.ctx.CurrentTime())
}

// ValueAt returns the value in effect at time t.
func (p *Param) ValueAt(t float64) float64 {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > t })
	v := p.def
	if i > 0 {
		v = p.events[i-1].value
	}
	return core.Clamp(v, p.min, p.max)
}

// SetValue sets the value from the current time on.
func (p *Param) SetValue(v float64) error {
	return p.SetValueAtTime(v, p.ctx.CurrentTime())
}

// SetValueAtTime schedules a step to v at time t. A second event at the same
// time replaces the first.
func (p *Param) SetValueAtTime(v, t float64) error {
	if !core.IsFinite(v) {
		return fmt.Errorf("%w: %s value %v", audiograph.ErrInvalidParam, p.name, v)
	}
	if !core.IsFinite(t) || t < 0 {
		return fmt.Errorf("%w: %s time %v", audiograph.ErrInvalidParam, p.name, t)
	}

	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time >= t })
	if i < len(p.events) && p.events[i].time == t {
		p.events[i].value = v
		return nil
	}
	p.events = append(p.events, event{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = event{time: t, value: v}
	return nil
}

// fill writes one value per frame starting at time start.
func (p *Param) fill(dst []float64, start float64) {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > start })
	v := p.def
	if i > 0 {
		v = p.events[i-1].value
	}

	dt := 1 / p.ctx.cfg.SampleRate
	for n := range dst {
		t := start + float64(n)*dt
		for i < len(p.events) && p.events[i].time <= t {
			v = p.events[i].value
			i++
		}
		dst[n] = core.Clamp(v, p.min, p.max)
	}
}
