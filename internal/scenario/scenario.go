// Package scenario loads simulator scenarios from HCL.
//
// A scenario declares a document tree, the tones its media elements play and
// a timeline of insertions and removals:
//
//	sample_rate = 48000
//	duration    = 2
//
//	node "intro" {
//	  tag    = "audio"
//	  parent = "body"
//	  tone   = 440
//	}
//
//	node "feed" {
//	  tag = "div"
//	}
//
//	node "clip" {
//	  tag    = "video"
//	  parent = "feed"
//	  tone   = 880
//	}
//
//	step {
//	  at     = duration / 2
//	  action = "append"
//	  node   = "feed"
//	  parent = "body"
//	}
//
// Expressions may reference sample_rate and duration, which must themselves
// be literals.
package scenario

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/cwbudde/algo-spatial/dom"
)

// Body is the reserved name of the document root.
const Body = "body"

// Step actions.
const (
	ActionAppend = "append"
	ActionRemove = "remove"
)

const (
	defaultSampleRate = 48000.0
	defaultAmplitude  = 0.5
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("scenario: invalid")

// Scenario is a decoded scenario file.
type Scenario struct {
	SampleRate float64 `hcl:"sample_rate,optional"`
	BlockSize  int     `hcl:"block_size,optional"`
	Duration   float64 `hcl:"duration"`
	Nodes      []*Node `hcl:"node,block"`
	Steps      []*Step `hcl:"step,block"`
}

// Node declares an element. Nodes without a parent start detached.
type Node struct {
	Name      string  `hcl:"name,label"`
	Tag       string  `hcl:"tag"`
	Parent    string  `hcl:"parent,optional"`
	Tone      float64 `hcl:"tone,optional"`
	Amplitude float64 `hcl:"amplitude,optional"`
}

// Media reports whether the node is an audio or video element.
func (n *Node) Media() bool { return dom.IsMediaTag(n.Tag) }

// Step changes the tree at a point in time.
type Step struct {
	At     float64 `hcl:"at"`
	Action string  `hcl:"action"`
	Node   string  `hcl:"node"`
	Parent string  `hcl:"parent,optional"`
}

var headerSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "sample_rate"},
		{Name: "duration"},
	},
}

// LoadFile parses and validates the scenario at path.
func LoadFile(path string) (*Scenario, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, diags)
	}
	return decode(file, path)
}

// Load parses and validates scenario source. filename is used in
// diagnostics only.
func Load(src []byte, filename string) (*Scenario, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", filename, diags)
	}
	return decode(file, filename)
}

func decode(file *hcl.File, filename string) (*Scenario, error) {
	evalCtx, err := headerContext(file.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode scenario %s: %w", filename, err)
	}

	var s Scenario
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &s); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode scenario %s: %w", filename, diags)
	}
	if s.SampleRate == 0 {
		s.SampleRate = defaultSampleRate
	}
	for _, n := range s.Nodes {
		if n.Amplitude == 0 {
			n.Amplitude = defaultAmplitude
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(s.Steps, func(i, j int) bool { return s.Steps[i].At < s.Steps[j].At })
	return &s, nil
}

// headerContext evaluates sample_rate and duration without variables and
// exposes them to the rest of the file.
func headerContext(body hcl.Body) (*hcl.EvalContext, error) {
	content, _, diags := body.PartialContent(headerSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	vars := map[string]cty.Value{
		"sample_rate": cty.NumberFloatVal(defaultSampleRate),
		"duration":    cty.NumberFloatVal(0),
	}
	for name, attr := range content.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		vars[name] = cty.NumberFloatVal(f)
	}
	return &hcl.EvalContext{Variables: vars}, nil
}

// Validate checks references and ranges.
func (s *Scenario) Validate() error {
	if s.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate must be > 0, got %v", ErrInvalid, s.SampleRate)
	}
	if s.BlockSize < 0 {
		return fmt.Errorf("%w: block_size must be >= 0, got %d", ErrInvalid, s.BlockSize)
	}
	if s.Duration <= 0 {
		return fmt.Errorf("%w: duration must be > 0, got %v", ErrInvalid, s.Duration)
	}

	names := make(map[string]*Node, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.Name == Body {
			return fmt.Errorf("%w: node name %q is reserved", ErrInvalid, Body)
		}
		if _, dup := names[n.Name]; dup {
			return fmt.Errorf("%w: node %q declared twice", ErrInvalid, n.Name)
		}
		if n.Tag == "" {
			return fmt.Errorf("%w: node %q has no tag", ErrInvalid, n.Name)
		}
		if n.Tone < 0 || n.Tone >= s.SampleRate/2 {
			return fmt.Errorf("%w: node %q tone %v outside [0, nyquist)", ErrInvalid, n.Name, n.Tone)
		}
		names[n.Name] = n
	}

	for _, n := range s.Nodes {
		if err := s.checkParent(names, n.Name, n.Parent, true); err != nil {
			return err
		}
	}
	if err := s.checkCycles(names); err != nil {
		return err
	}

	for i, st := range s.Steps {
		if st.At < 0 || st.At > s.Duration {
			return fmt.Errorf("%w: step %d at %v outside [0, %v]", ErrInvalid, i, st.At, s.Duration)
		}
		if _, ok := names[st.Node]; !ok {
			return fmt.Errorf("%w: step %d references unknown node %q", ErrInvalid, i, st.Node)
		}
		switch st.Action {
		case ActionAppend:
			if st.Parent == "" {
				return fmt.Errorf("%w: step %d append needs a parent", ErrInvalid, i)
			}
			if err := s.checkParent(names, st.Node, st.Parent, false); err != nil {
				return err
			}
		case ActionRemove:
		default:
			return fmt.Errorf("%w: step %d action %q, want %q or %q", ErrInvalid, i, st.Action, ActionAppend, ActionRemove)
		}
	}
	return nil
}

func (s *Scenario) checkParent(names map[string]*Node, node, parent string, optional bool) error {
	if (parent == "" && optional) || parent == Body {
		return nil
	}
	p, ok := names[parent]
	if !ok {
		return fmt.Errorf("%w: node %q has unknown parent %q", ErrInvalid, node, parent)
	}
	if p.Media() {
		return fmt.Errorf("%w: node %q cannot be placed inside media element %q", ErrInvalid, node, parent)
	}
	return nil
}

func (s *Scenario) checkCycles(names map[string]*Node) error {
	for _, n := range s.Nodes {
		seen := map[string]bool{n.Name: true}
		for p := n.Parent; p != "" && p != Body; p = names[p].Parent {
			if seen[p] {
				return fmt.Errorf("%w: node %q is its own ancestor", ErrInvalid, n.Name)
			}
			seen[p] = true
		}
	}
	return nil
}
