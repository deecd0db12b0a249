package spatializer

import (
	"fmt"

	"github.com/cwbudde/algo-spatial/audiograph"
	"github.com/cwbudde/algo-spatial/dom"
)

// fakeContext records every call made against it and can be told to fail or
// panic on a named operation.
type fakeContext struct {
	now     float64
	calls   []string
	failOn  map[string]error
	panicOn string
	sources map[dom.Key]bool
	dest    *fakeNode
	nodes   []*fakeNode
}

func newFakeContext() *fakeContext {
	c := &fakeContext{
		now:     1.5,
		failOn:  make(map[string]error),
		sources: make(map[dom.Key]bool),
	}
	c.dest = &fakeNode{ctx: c, kind: "destination"}
	return c
}

func (c *fakeContext) hook(op string) error {
	c.calls = append(c.calls, op)
	if op == c.panicOn {
		panic(fmt.Sprintf("TypeError: %s is not a function", op))
	}
	return c.failOn[op]
}

func (c *fakeContext) node(kind string) *fakeNode {
	n := &fakeNode{ctx: c, kind: kind, params: make(map[string]*fakeParam)}
	c.nodes = append(c.nodes, n)
	return n
}

func (c *fakeContext) State() audiograph.State      { return audiograph.StateRunning }
func (c *fakeContext) SampleRate() float64          { return 48000 }
func (c *fakeContext) CurrentTime() float64         { return c.now }
func (c *fakeContext) Destination() audiograph.Node { return c.dest }

func (c *fakeContext) CreateMediaElementSource(el dom.Element) (audiograph.MediaElementSource, error) {
	if err := c.hook("CreateMediaElementSource"); err != nil {
		return nil, err
	}
	if c.sources[el.Key()] {
		return nil, audiograph.ErrSourceExists
	}
	c.sources[el.Key()] = true
	n := c.node("source")
	n.el = el
	return n, nil
}

func (c *fakeContext) CreatePanner() (audiograph.Panner, error) {
	if err := c.hook("CreatePanner"); err != nil {
		return nil, err
	}
	return c.node("panner"), nil
}

func (c *fakeContext) CreateDynamicsCompressor() (audiograph.DynamicsCompressor, error) {
	if err := c.hook("CreateDynamicsCompressor"); err != nil {
		return nil, err
	}
	return c.node("compressor"), nil
}

func (c *fakeContext) CreateBiquadFilter() (audiograph.BiquadFilter, error) {
	if err := c.hook("CreateBiquadFilter"); err != nil {
		return nil, err
	}
	return c.node("biquad"), nil
}

func (c *fakeContext) CreateGain() (audiograph.Gain, error) {
	if err := c.hook("CreateGain"); err != nil {
		return nil, err
	}
	return c.node("gain"), nil
}

// fakeNode satisfies every node interface the builder uses.
type fakeNode struct {
	ctx     *fakeContext
	kind    string
	el      dom.Element
	outputs []*fakeNode
	params  map[string]*fakeParam

	panningModel  audiograph.PanningModel
	distanceModel audiograph.DistanceModel
	refDistance   float64
	maxDistance   float64
	rolloff       float64
	filterType    audiograph.FilterType
}

func (n *fakeNode) Connect(dst audiograph.Node) error {
	d, ok := dst.(*fakeNode)
	if !ok {
		return audiograph.ErrForeignNode
	}
	if err := n.ctx.hook("connect " + n.kind + "->" + d.kind); err != nil {
		return err
	}
	n.outputs = append(n.outputs, d)
	return nil
}

func (n *fakeNode) set(op string) error { return n.ctx.hook(n.kind + "." + op) }

func (n *fakeNode) Element() dom.Element { return n.el }

func (n *fakeNode) SetPanningModel(m audiograph.PanningModel) error {
	n.panningModel = m
	return n.set("panningModel")
}

func (n *fakeNode) SetDistanceModel(m audiograph.DistanceModel) error {
	n.distanceModel = m
	return n.set("distanceModel")
}

func (n *fakeNode) SetRefDistance(d float64) error {
	n.refDistance = d
	return n.set("refDistance")
}

func (n *fakeNode) SetMaxDistance(d float64) error {
	n.maxDistance = d
	return n.set("maxDistance")
}

func (n *fakeNode) SetRolloffFactor(r float64) error {
	n.rolloff = r
	return n.set("rolloffFactor")
}

func (n *fakeNode) param(name string) *fakeParam {
	p, ok := n.params[name]
	if !ok {
		p = &fakeParam{node: n, name: name, at: -1}
		n.params[name] = p
	}
	return p
}

func (n *fakeNode) PositionX() audiograph.Param { return n.param("positionX") }
func (n *fakeNode) PositionY() audiograph.Param { return n.param("positionY") }
func (n *fakeNode) PositionZ() audiograph.Param { return n.param("positionZ") }
func (n *fakeNode) Threshold() audiograph.Param { return n.param("threshold") }
func (n *fakeNode) Knee() audiograph.Param      { return n.param("knee") }
func (n *fakeNode) Ratio() audiograph.Param     { return n.param("ratio") }
func (n *fakeNode) Attack() audiograph.Param    { return n.param("attack") }
func (n *fakeNode) Release() audiograph.Param   { return n.param("release") }
func (n *fakeNode) Reduction() float64          { return 0 }
func (n *fakeNode) Type() audiograph.FilterType { return n.filterType }
func (n *fakeNode) Frequency() audiograph.Param { return n.param("frequency") }
func (n *fakeNode) Q() audiograph.Param         { return n.param("Q") }
func (n *fakeNode) Gain() audiograph.Param      { return n.param("gain") }
func (n *fakeNode) Detune() audiograph.Param    { return n.param("detune") }

func (n *fakeNode) SetType(t audiograph.FilterType) error {
	n.filterType = t
	return n.set("type")
}

type fakeParam struct {
	node   *fakeNode
	name   string
	value  float64
	at     float64 // -1 for a static value
	static bool
}

func (p *fakeParam) Value() float64 { return p.value }

func (p *fakeParam) SetValue(v float64) error {
	if err := p.node.set(p.name + ".value"); err != nil {
		return err
	}
	p.value, p.static = v, true
	return nil
}

func (p *fakeParam) SetValueAtTime(v, t float64) error {
	if err := p.node.set(p.name + ".setValueAtTime"); err != nil {
		return err
	}
	p.value, p.at = v, t
	return nil
}

// fakeElement is a bare media element.
type fakeElement struct {
	key dom.Key
	tag string
}

func (e *fakeElement) Key() dom.Key                    { return e.key }
func (e *fakeElement) NodeType() dom.NodeType          { return dom.ElementNode }
func (e *fakeElement) NodeName() string                { return e.tag }
func (e *fakeElement) TagName() string                 { return e.tag }
func (e *fakeElement) MediaDescendants() []dom.Element { return nil }
