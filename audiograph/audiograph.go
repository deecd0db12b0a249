// Package audiograph defines the audio processing graph the spatializer
// builds into: a shared context, its node factories and automatable
// parameters.
//
// The interfaces follow the browser Web Audio API closely enough that the
// js/wasm binding in audiograph/jsaudio is a thin wrapper, while
// audiograph/offline renders the same graph natively.
package audiograph

import (
	"errors"

	"github.com/cwbudde/algo-spatial/dom"
)

var (
	// ErrContextClosed is returned when creating nodes on a closed context.
	ErrContextClosed = errors.New("audiograph: context is closed")
	// ErrSourceExists is returned when a media element already feeds a source
	// node. An element can be adapted at most once per context.
	ErrSourceExists = errors.New("audiograph: media element already has a source node")
	// ErrForeignNode is returned when connecting nodes of different contexts.
	ErrForeignNode = errors.New("audiograph: node belongs to another context")
	// ErrInvalidParam is returned for rejected parameter values.
	ErrInvalidParam = errors.New("audiograph: invalid parameter value")
	// ErrNoInput is returned when connecting into a node without inputs.
	ErrNoInput = errors.New("audiograph: destination node has no inputs")
)

// State is the lifecycle state of a context.
type State int

const (
	StateSuspended State = iota
	StateRunning
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// PanningModel names a spatialization algorithm.
type PanningModel string

const (
	PanningEqualPower PanningModel = "equalpower"
	PanningHRTF       PanningModel = "HRTF"
)

// DistanceModel names a distance attenuation law.
type DistanceModel string

const (
	DistanceLinear      DistanceModel = "linear"
	DistanceInverse     DistanceModel = "inverse"
	DistanceExponential DistanceModel = "exponential"
)

// FilterType names a biquad response.
type FilterType string

const (
	FilterLowpass   FilterType = "lowpass"
	FilterHighpass  FilterType = "highpass"
	FilterBandpass  FilterType = "bandpass"
	FilterLowShelf  FilterType = "lowshelf"
	FilterHighShelf FilterType = "highshelf"
	FilterPeaking   FilterType = "peaking"
	FilterNotch     FilterType = "notch"
	FilterAllpass   FilterType = "allpass"
)

// Valid reports whether t is one of the eight filter types.
func (t FilterType) Valid() bool {
	switch t {
	case FilterLowpass, FilterHighpass, FilterBandpass, FilterLowShelf,
		FilterHighShelf, FilterPeaking, FilterNotch, FilterAllpass:
		return true
	}
	return false
}

// Param is an automatable node parameter.
type Param interface {
	// Value returns the value in effect at the context's current time.
	Value() float64
	// SetValue sets the value immediately.
	SetValue(v float64) error
	// SetValueAtTime schedules a step to v at context time t (seconds).
	SetValueAtTime(v, t float64) error
}

// Node is a processing stage of a context.
type Node interface {
	// Connect routes this node's output into dst's input. Connecting the
	// same pair twice has no further effect.
	Connect(dst Node) error
}

// MediaElementSource adapts a media element's audio output into the graph.
type MediaElementSource interface {
	Node
	Element() dom.Element
}

// Panner positions a source in 3D space relative to the listener.
type Panner interface {
	Node
	SetPanningModel(m PanningModel) error
	SetDistanceModel(m DistanceModel) error
	SetRefDistance(d float64) error
	SetMaxDistance(d float64) error
	SetRolloffFactor(r float64) error
	PositionX() Param
	PositionY() Param
	PositionZ() Param
}

// DynamicsCompressor lowers the volume of loud passages.
type DynamicsCompressor interface {
	Node
	Threshold() Param
	Knee() Param
	Ratio() Param
	Attack() Param
	Release() Param
	// Reduction reports the current gain reduction in dB (zero or negative).
	Reduction() float64
}

// BiquadFilter is a second-order filter stage.
type BiquadFilter interface {
	Node
	Type() FilterType
	SetType(t FilterType) error
	Frequency() Param
	Q() Param
	Gain() Param
	Detune() Param
}

// Gain scales its input.
type Gain interface {
	Node
	Gain() Param
}

// Context owns the graph and its output device. Implementations are not safe
// for concurrent use.
type Context interface {
	State() State
	SampleRate() float64
	// CurrentTime is the context clock in seconds.
	CurrentTime() float64
	// Destination is the final node; everything connected to it is mixed to
	// the output.
	Destination() Node

	CreateMediaElementSource(el dom.Element) (MediaElementSource, error)
	CreatePanner() (Panner, error)
	CreateDynamicsCompressor() (DynamicsCompressor, error)
	CreateBiquadFilter() (BiquadFilter, error)
	CreateGain() (Gain, error)
}
