// Package dom describes the slice of a document tree the spatializer depends
// on: node identity and kind, media-element queries and batched structural
// change notifications.
//
// Implementations live in dom/memdom (in-memory) and dom/jsdom (browser).
package dom

import "strings"

// Key identifies a node for the lifetime of its document. Two values that
// refer to the same node always carry the same key.
type Key uint64

// NodeType is the kind of a node.
type NodeType int

const (
	ElementNode  NodeType = 1
	TextNode     NodeType = 3
	CommentNode  NodeType = 8
	DocumentNode NodeType = 9
)

// Media element tag names, upper case as reported by TagName.
const (
	TagAudio = "AUDIO"
	TagVideo = "VIDEO"
)

// Node is any node in the tree.
type Node interface {
	Key() Key
	NodeType() NodeType
	NodeName() string
}

// Element is a node that has a tag and can contain descendants.
type Element interface {
	Node
	TagName() string
	// MediaDescendants returns every audio or video element below this one,
	// at any depth, in document order. The element itself is not included.
	MediaDescendants() []Element
}

// MutationRecord describes one structural change. Removed nodes are reported
// for completeness; consumers may ignore them.
type MutationRecord struct {
	Target       Node
	AddedNodes   []Node
	RemovedNodes []Node
}

// MutationCallback receives one batch of records in the order the changes
// occurred.
type MutationCallback func(records []MutationRecord)

// Observer is an active subscription.
type Observer interface {
	Disconnect()
}

// Document is the root of a tree.
type Document interface {
	// MediaElements returns every audio or video element in document order.
	MediaElements() []Element
	// Observe subscribes to child-list changes anywhere in the tree.
	Observe(cb MutationCallback) (Observer, error)
}

// AudioStream produces mono samples for a media element.
type AudioStream interface {
	// ReadAudio fills buf and returns the number of samples written. Fewer
	// than len(buf) means the stream ran dry; the rest is silence.
	ReadAudio(buf []float64) int
}

// StreamSource is implemented by elements that can hand their decoded audio
// to a native rendering context.
type StreamSource interface {
	AudioStream() AudioStream
}

// IsMediaTag reports whether tag names an audio or video element.
func IsMediaTag(tag string) bool {
	return strings.EqualFold(tag, TagAudio) || strings.EqualFold(tag, TagVideo)
}
