package offline

import (
	"fmt"

	"github.com/cwbudde/algo-spatial/audiograph"
	"github.com/cwbudde/algo-spatial/dsp/core"
)

// processor renders one quantum. in holds the summed inputs and out has the
// same length; t is the context time of the first frame.
type processor interface {
	process(in, out core.Stereo, t float64) error
}

type graphNode interface {
	base() *node
}

type node struct {
	ctx       *Context
	kind      string
	impl      processor
	hasInputs bool
	inputs    []*node

	in, out  core.Stereo
	rendered int64
	visiting bool
}

func newNode(ctx *Context, kind string, hasInputs bool) *node {
	return &node{ctx: ctx, kind: kind, hasInputs: hasInputs, rendered: -1}
}

func (n *node) base() *node { return n }

// Kind names the node type, e.g. "panner".
func (n *node) Kind() string { return n.kind }

// Connect routes n's output into dst.
func (n *node) Connect(dst audiograph.Node) error {
	g, ok := dst.(graphNode)
	if !ok {
		return fmt.Errorf("%w: %T", audiograph.ErrForeignNode, dst)
	}
	target := g.base()
	if target.ctx != n.ctx {
		return fmt.Errorf("%w: %s to %s", audiograph.ErrForeignNode, n.kind, target.kind)
	}
	if !target.hasInputs {
		return fmt.Errorf("%w: %s", audiograph.ErrNoInput, target.kind)
	}
	for _, in := range target.inputs {
		if in == n {
			return nil
		}
	}
	target.inputs = append(target.inputs, n)
	return nil
}

// pull renders quantum q of n frames, or returns the cached block if the node
// already ran for q.
func (n *node) pull(q int64, frames int, t float64) (core.Stereo, error) {
	if n.rendered == q {
		return n.out, nil
	}
	if n.visiting {
		return core.Stereo{}, fmt.Errorf("offline: cycle through %s node", n.kind)
	}
	n.visiting = true
	defer func() { n.visiting = false }()

	n.in = n.in.Resize(frames)
	n.in.Zero()
	for _, src := range n.inputs {
		block, err := src.pull(q, frames, t)
		if err != nil {
			return core.Stereo{}, err
		}
		n.in.AddInto(block)
	}

	n.out = n.out.Resize(frames)
	if err := n.impl.process(n.in, n.out, t); err != nil {
		return core.Stereo{}, fmt.Errorf("offline: %s node: %w", n.kind, err)
	}
	n.rendered = q
	return n.out, nil
}
