package memdom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-spatial/dom"
)

var (
	// ErrHierarchy is returned for insertions that would break the tree.
	ErrHierarchy = errors.New("memdom: hierarchy request error")
	// ErrNotFound is returned when a reference node is not a child.
	ErrNotFound = errors.New("memdom: node is not a child")
)

// Child is a node that can be inserted into an element.
type Child interface {
	dom.Node
	Parent() *Element
	owner() *Document
	setParent(p *Element)
}

// Document owns a tree rooted at its body element.
//
// Document is not safe for concurrent use.
type Document struct {
	body      *Element
	nextKey   dom.Key
	observers []*observer
}

var _ dom.Document = (*Document)(nil)

// NewDocument returns a document with an empty body.
func NewDocument() *Document {
	d := &Document{}
	d.body = d.CreateElement("body")
	return d
}

// Body returns the root element. Only changes below it are observed.
func (d *Document) Body() *Element { return d.body }

func (d *Document) key() dom.Key {
	d.nextKey++
	return d.nextKey
}

// CreateElement returns a detached element. Tags are stored upper case.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{doc: d, key: d.key(), tag: strings.ToUpper(tag)}
}

// CreateText returns a detached text node.
func (d *Document) CreateText(data string) *Text {
	return &Text{doc: d, key: d.key(), Data: data}
}

// MediaElements returns every audio and video element under the body.
func (d *Document) MediaElements() []dom.Element {
	return d.body.MediaDescendants()
}

// Observe registers cb for child-list changes in the body's subtree.
func (d *Document) Observe(cb dom.MutationCallback) (dom.Observer, error) {
	if cb == nil {
		return nil, fmt.Errorf("memdom: observer callback must not be nil")
	}
	o := &observer{doc: d, cb: cb}
	d.observers = append(d.observers, o)
	return o, nil
}

// Pending returns the number of records waiting for the next Flush, summed
// over all observers.
func (d *Document) Pending() int {
	n := 0
	for _, o := range d.observers {
		n += len(o.queue)
	}
	return n
}

// Flush delivers each observer its queued records as one batch and returns
// the number of batches delivered. Records queued by callbacks wait for the
// next Flush.
func (d *Document) Flush() int {
	type delivery struct {
		o       *observer
		records []dom.MutationRecord
	}
	var batch []delivery
	for _, o := range d.observers {
		if len(o.queue) == 0 {
			continue
		}
		batch = append(batch, delivery{o: o, records: o.queue})
		o.queue = nil
	}
	for _, b := range batch {
		if b.o.active() {
			b.o.cb(b.records)
		}
	}
	return len(batch)
}

func (d *Document) record(target *Element, added, removed []dom.Node) {
	if !target.connected() || len(d.observers) == 0 {
		return
	}
	rec := dom.MutationRecord{Target: target, AddedNodes: added, RemovedNodes: removed}
	for _, o := range d.observers {
		o.queue = append(o.queue, rec)
	}
}

type observer struct {
	doc   *Document
	cb    dom.MutationCallback
	queue []dom.MutationRecord
}

func (o *observer) active() bool {
	for _, other := range o.doc.observers {
		if other == o {
			return true
		}
	}
	return false
}

// Disconnect stops delivery and drops queued records.
func (o *observer) Disconnect() {
	obs := o.doc.observers
	for i, other := range obs {
		if other == o {
			o.doc.observers = append(obs[:i:i], obs[i+1:]...)
			break
		}
	}
	o.queue = nil
}
