//go:build js && wasm

// Package jsdom binds dom.Document to the page document through syscall/js.
//
// Node identity is kept in a WeakMap owned by the Document, so page elements
// are never annotated and keys disappear with their nodes.
package jsdom

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/cwbudde/algo-spatial/dom"
)

const mediaSelector = "audio, video"

// ErrNoBody is returned by Observe before the document has a body.
var ErrNoBody = errors.New("jsdom: document has no body")

// Document wraps the global document.
type Document struct {
	v    js.Value
	ids  js.Value
	next uint64
}

var _ dom.Document = (*Document)(nil)

// New wraps js.Global().document.
func New() (*Document, error) {
	v := js.Global().Get("document")
	if !v.Truthy() {
		return nil, errors.New("jsdom: no global document")
	}
	return &Document{v: v, ids: js.Global().Get("WeakMap").New()}, nil
}

func (d *Document) key(v js.Value) dom.Key {
	if k := d.ids.Call("get", v); k.Type() == js.TypeNumber {
		return dom.Key(k.Int())
	}
	d.next++
	d.ids.Call("set", v, d.next)
	return dom.Key(d.next)
}

func (d *Document) wrap(v js.Value) dom.Node {
	n := node{doc: d, v: v, key: d.key(v)}
	if dom.NodeType(v.Get("nodeType").Int()) == dom.ElementNode {
		return &Element{node: n}
	}
	return &n
}

func (d *Document) elements(list js.Value) []dom.Element {
	n := list.Length()
	out := make([]dom.Element, 0, n)
	for i := 0; i < n; i++ {
		if el, ok := d.wrap(list.Index(i)).(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// MediaElements returns document.querySelectorAll("audio, video").
func (d *Document) MediaElements() []dom.Element {
	return d.elements(d.v.Call("querySelectorAll", mediaSelector))
}

// Observe installs a MutationObserver on the body with childList and
// subtree set.
func (d *Document) Observe(cb dom.MutationCallback) (obs dom.Observer, err error) {
	if cb == nil {
		return nil, errors.New("jsdom: observer callback must not be nil")
	}
	body := d.v.Get("body")
	if !body.Truthy() {
		return nil, ErrNoBody
	}

	fn := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		cb(d.records(args[0]))
		return nil
	})

	defer func() {
		if r := recover(); r != nil {
			fn.Release()
			obs, err = nil, fmt.Errorf("jsdom: observe: %v", r)
		}
	}()

	mo := js.Global().Get("MutationObserver").New(fn)
	mo.Call("observe", body, map[string]any{"childList": true, "subtree": true})
	return &observer{mo: mo, fn: fn}, nil
}

func (d *Document) records(list js.Value) []dom.MutationRecord {
	n := list.Length()
	out := make([]dom.MutationRecord, n)
	for i := 0; i < n; i++ {
		r := list.Index(i)
		out[i] = dom.MutationRecord{
			Target:       d.wrap(r.Get("target")),
			AddedNodes:   d.nodes(r.Get("addedNodes")),
			RemovedNodes: d.nodes(r.Get("removedNodes")),
		}
	}
	return out
}

func (d *Document) nodes(list js.Value) []dom.Node {
	n := list.Length()
	out := make([]dom.Node, n)
	for i := 0; i < n; i++ {
		out[i] = d.wrap(list.Index(i))
	}
	return out
}

type observer struct {
	mo js.Value
	fn js.Func
}

func (o *observer) Disconnect() {
	o.mo.Call("disconnect")
	o.fn.Release()
}

type node struct {
	doc *Document
	v   js.Value
	key dom.Key
}

func (n *node) Key() dom.Key           { return n.key }
func (n *node) NodeType() dom.NodeType { return dom.NodeType(n.v.Get("nodeType").Int()) }
func (n *node) NodeName() string       { return n.v.Get("nodeName").String() }

// JSValue returns the wrapped node.
func (n *node) JSValue() js.Value { return n.v }

// Element is a page element.
type Element struct {
	node
}

func (e *Element) TagName() string { return e.v.Get("tagName").String() }

// MediaDescendants returns e.querySelectorAll("audio, video").
func (e *Element) MediaDescendants() []dom.Element {
	return e.doc.elements(e.v.Call("querySelectorAll", mediaSelector))
}
