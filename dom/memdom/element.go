package memdom

import (
	"fmt"
	"slices"

	"github.com/cwbudde/algo-spatial/dom"
)

// Element is an in-memory element node.
type Element struct {
	doc      *Document
	key      dom.Key
	tag      string
	parent   *Element
	children []Child
	stream   dom.AudioStream
}

var (
	_ dom.Element      = (*Element)(nil)
	_ dom.StreamSource = (*Element)(nil)
)

func (e *Element) Key() dom.Key           { return e.key }
func (e *Element) NodeType() dom.NodeType { return dom.ElementNode }
func (e *Element) NodeName() string       { return e.tag }
func (e *Element) TagName() string        { return e.tag }
func (e *Element) Parent() *Element       { return e.parent }
func (e *Element) owner() *Document       { return e.doc }
func (e *Element) setParent(p *Element)   { e.parent = p }
func (e *Element) String() string         { return fmt.Sprintf("<%s #%d>", e.tag, e.key) }

// SetAudioStream attaches the audio a source node reads from this element.
func (e *Element) SetAudioStream(s dom.AudioStream) { e.stream = s }

// AudioStream returns the attached stream, or nil.
func (e *Element) AudioStream() dom.AudioStream { return e.stream }

// Children returns the child nodes in order.
func (e *Element) Children() []dom.Node {
	out := make([]dom.Node, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

// MediaDescendants returns audio and video elements below e in document
// order.
func (e *Element) MediaDescendants() []dom.Element {
	var out []dom.Element
	e.walk(func(el *Element) {
		if el != e && dom.IsMediaTag(el.tag) {
			out = append(out, el)
		}
	})
	return out
}

func (e *Element) walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.children {
		if el, ok := c.(*Element); ok {
			el.walk(fn)
		}
	}
}

func (e *Element) connected() bool {
	root := e
	for root.parent != nil {
		root = root.parent
	}
	return root == e.doc.body
}

// AppendChild inserts child as the last child of e. A child that already
// has a parent is moved.
func (e *Element) AppendChild(child Child) error {
	return e.insert(child, len(e.children))
}

// InsertBefore inserts child before ref. A nil ref appends.
func (e *Element) InsertBefore(child, ref Child) error {
	if ref == nil {
		return e.AppendChild(child)
	}
	i := e.indexOf(ref)
	if i < 0 {
		return fmt.Errorf("%w: reference %d", ErrNotFound, ref.Key())
	}
	if child == ref {
		return nil
	}
	if err := e.check(child); err != nil {
		return err
	}
	e.detach(child)
	return e.insert(child, e.indexOf(ref))
}

// RemoveChild detaches child from e.
func (e *Element) RemoveChild(child Child) error {
	if child == nil || e.indexOf(child) < 0 {
		return ErrNotFound
	}
	e.detach(child)
	return nil
}

func (e *Element) check(child Child) error {
	if child == nil {
		return fmt.Errorf("%w: nil child", ErrHierarchy)
	}
	if child.owner() != e.doc {
		return fmt.Errorf("%w: node from another document", ErrHierarchy)
	}
	if el, ok := child.(*Element); ok {
		if el == e.doc.body {
			return fmt.Errorf("%w: body cannot be inserted", ErrHierarchy)
		}
		for p := e; p != nil; p = p.parent {
			if p == el {
				return fmt.Errorf("%w: %s is an ancestor of %s", ErrHierarchy, el, e)
			}
		}
	}
	return nil
}

func (e *Element) insert(child Child, at int) error {
	if err := e.check(child); err != nil {
		return err
	}
	if child.Parent() != nil {
		child.Parent().detach(child)
		if at > len(e.children) {
			at = len(e.children)
		}
	}
	e.children = slices.Insert(e.children, at, child)
	child.setParent(e)
	e.doc.record(e, []dom.Node{child}, nil)
	return nil
}

func (e *Element) detach(child Child) {
	p := child.Parent()
	if p == nil {
		return
	}
	i := p.indexOf(child)
	if i < 0 {
		return
	}
	p.children = slices.Delete(p.children, i, i+1)
	child.setParent(nil)
	p.doc.record(p, nil, []dom.Node{child})
}

func (e *Element) indexOf(c Child) int {
	for i, x := range e.children {
		if x == c {
			return i
		}
	}
	return -1
}

// Text is an in-memory text node.
type Text struct {
	doc    *Document
	key    dom.Key
	parent *Element
	Data   string
}

func (t *Text) Key() dom.Key           { return t.key }
func (t *Text) NodeType() dom.NodeType { return dom.TextNode }
func (t *Text) NodeName() string       { return "#text" }
func (t *Text) Parent() *Element       { return t.parent }
func (t *Text) owner() *Document       { return t.doc }
func (t *Text) setParent(p *Element)   { t.parent = p }
