package spatializer

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-spatial/dom"
)

// Stage names the part of the chain being built.
type Stage string

const (
	StageSource     Stage = "source"
	StagePanner     Stage = "panner"
	StageCompressor Stage = "compressor"
	StageEqualizer  Stage = "equalizer"
	StageGain       Stage = "gain"
	StageConnect    Stage = "connect"
)

// ErrHostPanic wraps a panic raised by the audio or document binding.
var ErrHostPanic = errors.New("spatializer: host binding panicked")

// ConstructionError reports a chain that could not be built.
type ConstructionError struct {
	Stage   Stage
	Element dom.Key
	Err     error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("spatializer: %s stage failed for element %d: %v", e.Stage, e.Element, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }
