//go:build js && wasm

package jsaudio

import (
	"fmt"
	"syscall/js"

	"github.com/cwbudde/algo-spatial/audiograph"
	"github.com/cwbudde/algo-spatial/dom"
)

type jsNode interface {
	base() *node
}

type node struct {
	ctx *Context
	v   js.Value
}

func (n *node) base() *node { return n }

// JSValue returns the wrapped AudioNode.
func (n *node) JSValue() js.Value { return n.v }

func (n *node) Connect(dst audiograph.Node) error {
	d, ok := dst.(jsNode)
	if !ok {
		return fmt.Errorf("%w: %T", audiograph.ErrForeignNode, dst)
	}
	target := d.base()
	if target.ctx != n.ctx {
		return audiograph.ErrForeignNode
	}
	if _, err := call(n.v, "connect", target.v); err != nil {
		return classify(err)
	}
	return nil
}

func (n *node) param(name string) audiograph.Param {
	return &param{v: n.v.Get(name)}
}

func (n *node) setEnum(prop, value string) error {
	if err := set(n.v, prop, value); err != nil {
		return classify(err)
	}
	// Browsers ignore unknown enum values instead of throwing.
	if got := n.v.Get(prop).String(); got != value {
		return fmt.Errorf("%w: %s %q", audiograph.ErrInvalidParam, prop, value)
	}
	return nil
}

func (n *node) setNumber(prop string, x float64) error {
	if err := set(n.v, prop, x); err != nil {
		return classify(err)
	}
	return nil
}

type param struct {
	v js.Value
}

func (p *param) Value() float64 { return p.v.Get("value").Float() }

func (p *param) SetValue(x float64) error {
	if err := set(p.v, "value", x); err != nil {
		return classify(err)
	}
	return nil
}

func (p *param) SetValueAtTime(x, t float64) error {
	if _, err := call(p.v, "setValueAtTime", x, t); err != nil {
		return classify(err)
	}
	return nil
}

type source struct {
	node
	el dom.Element
}

func (s *source) Element() dom.Element { return s.el }

type panner struct{ node }

func (p *panner) SetPanningModel(m audiograph.PanningModel) error {
	return p.setEnum("panningModel", string(m))
}

func (p *panner) SetDistanceModel(m audiograph.DistanceModel) error {
	return p.setEnum("distanceModel", string(m))
}

func (p *panner) SetRefDistance(d float64) error   { return p.setNumber("refDistance", d) }
func (p *panner) SetMaxDistance(d float64) error   { return p.setNumber("maxDistance", d) }
func (p *panner) SetRolloffFactor(r float64) error { return p.setNumber("rolloffFactor", r) }
func (p *panner) PositionX() audiograph.Param      { return p.param("positionX") }
func (p *panner) PositionY() audiograph.Param      { return p.param("positionY") }
func (p *panner) PositionZ() audiograph.Param      { return p.param("positionZ") }

type compressor struct{ node }

func (c *compressor) Threshold() audiograph.Param { return c.param("threshold") }
func (c *compressor) Knee() audiograph.Param      { return c.param("knee") }
func (c *compressor) Ratio() audiograph.Param     { return c.param("ratio") }
func (c *compressor) Attack() audiograph.Param    { return c.param("attack") }
func (c *compressor) Release() audiograph.Param   { return c.param("release") }
func (c *compressor) Reduction() float64          { return c.v.Get("reduction").Float() }

type filter struct{ node }

func (f *filter) Type() audiograph.FilterType { return audiograph.FilterType(f.v.Get("type").String()) }

func (f *filter) SetType(t audiograph.FilterType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: filter type %q", audiograph.ErrInvalidParam, t)
	}
	return f.setEnum("type", string(t))
}

func (f *filter) Frequency() audiograph.Param { return f.param("frequency") }
func (f *filter) Q() audiograph.Param         { return f.param("Q") }
func (f *filter) Gain() audiograph.Param      { return f.param("gain") }
func (f *filter) Detune() audiograph.Param    { return f.param("detune") }

type gain struct{ node }

func (g *gain) Gain() audiograph.Param { return g.param("gain") }
