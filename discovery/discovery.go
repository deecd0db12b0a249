// Package discovery finds media elements in a document and hands each one
// to an Applier: first those present at start, then every element that
// appears later, whether inserted directly or inside a container.
//
// The Service is single-threaded. It must be started and fed mutation
// batches from the same goroutine as the Applier it drives.
package discovery

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-spatial/dom"
)

// ErrAlreadyStarted is returned by a second call to Start.
var ErrAlreadyStarted = errors.New("discovery: service already started")

// Applier receives qualifying elements. It must tolerate seeing the same
// element more than once.
type Applier interface {
	Apply(el dom.Element)
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(el dom.Element)

// Apply calls f(el).
func (f ApplierFunc) Apply(el dom.Element) { f(el) }

// Qualifies reports whether n is an audio or video element. Only the tag is
// inspected.
func Qualifies(n dom.Node) bool {
	if n == nil || n.NodeType() != dom.ElementNode {
		return false
	}
	el, ok := n.(dom.Element)
	return ok && dom.IsMediaTag(el.TagName())
}

// Collect returns the qualifying elements a batch of mutation records
// introduces, in record order and document order within each added subtree.
// Removed nodes are ignored. An element added more than once appears more
// than once.
func Collect(batch []dom.MutationRecord) []dom.Element {
	var out []dom.Element
	for _, rec := range batch {
		for _, n := range rec.AddedNodes {
			if Qualifies(n) {
				out = append(out, n.(dom.Element))
				continue
			}
			if el, ok := n.(dom.Element); ok && n.NodeType() == dom.ElementNode {
				out = append(out, el.MediaDescendants()...)
			}
		}
	}
	return out
}

// Stats counts discovery activity.
type Stats struct {
	// Swept is the number of elements found by the initial sweep.
	Swept int
	// Batches is the number of mutation batches handled.
	Batches int
	// Discovered is the number of elements found in those batches.
	Discovered int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default is logrus.StandardLogger().
func WithLogger(l *logrus.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// Service watches one document.
type Service struct {
	doc     dom.Document
	applier Applier
	log     *logrus.Logger

	started  bool
	observer dom.Observer
	stats    Stats
}

// New returns a stopped service.
func New(doc dom.Document, applier Applier, opts ...Option) *Service {
	s := &Service{
		doc:     doc,
		applier: applier,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Start applies every media element already in the document, then watches
// the whole tree for additions. A service starts once.
func (s *Service) Start() error {
	if s.started {
		return ErrAlreadyStarted
	}
	if s.doc == nil || s.applier == nil {
		return fmt.Errorf("discovery: document and applier are required")
	}
	s.started = true

	initial := s.doc.MediaElements()
	s.stats.Swept = len(initial)
	s.log.WithFields(logrus.Fields{
		"function": "Start",
		"elements": len(initial),
	}).Info("Applying to media elements present at start")
	for _, el := range initial {
		s.applier.Apply(el)
	}

	obs, err := s.doc.Observe(s.handle)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"function": "Start",
			"error":    err.Error(),
		}).Error("Failed to observe document")
		return fmt.Errorf("discovery: observe document: %w", err)
	}
	s.observer = obs

	s.log.WithFields(logrus.Fields{
		"function": "Start",
	}).Info("Watching document for new media elements")
	return nil
}

// Stop disconnects the watch. Already applied elements are unaffected.
func (s *Service) Stop() {
	if s.observer == nil {
		return
	}
	s.observer.Disconnect()
	s.observer = nil
	s.log.WithFields(logrus.Fields{
		"function": "Stop",
	}).Info("Stopped watching document")
}

// Running reports whether the watch is active.
func (s *Service) Running() bool { return s.observer != nil }

// Stats returns activity counters.
func (s *Service) Stats() Stats { return s.stats }

func (s *Service) handle(batch []dom.MutationRecord) {
	found := Collect(batch)
	s.stats.Batches++
	s.stats.Discovered += len(found)

	s.log.WithFields(logrus.Fields{
		"function": "handle",
		"records":  len(batch),
		"elements": len(found),
	}).Debug("Processing mutation batch")

	for _, el := range found {
		s.applier.Apply(el)
	}
}
