//go:build js && wasm

// Package jsaudio implements audiograph over the browser Web Audio API.
//
// Exceptions thrown by the browser surface as Go panics in syscall/js; every
// call into the page is guarded and such panics come back as errors.
package jsaudio

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/cwbudde/algo-spatial/audiograph"
	"github.com/cwbudde/algo-spatial/dom"
)

// JSValuer is implemented by DOM wrappers that expose their page object.
type JSValuer interface {
	JSValue() js.Value
}

// Context wraps one AudioContext.
type Context struct {
	v    js.Value
	dest *node
}

var _ audiograph.Context = (*Context)(nil)

// New creates an AudioContext, falling back to webkitAudioContext.
func New() (*Context, error) {
	ctor := js.Global().Get("AudioContext")
	if !ctor.Truthy() {
		ctor = js.Global().Get("webkitAudioContext")
	}
	if !ctor.Truthy() {
		return nil, errors.New("jsaudio: Web Audio is not available")
	}

	v, err := guard(func() js.Value { return ctor.New() })
	if err != nil {
		return nil, fmt.Errorf("jsaudio: create context: %w", err)
	}
	c := &Context{v: v}
	c.dest = &node{ctx: c, v: v.Get("destination")}
	return c, nil
}

// guard runs fn and converts a thrown JS exception into an error.
func guard(fn func() js.Value) (v js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if jerr, ok := r.(js.Error); ok {
				err = jerr
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	return fn(), nil
}

func call(v js.Value, method string, args ...any) (js.Value, error) {
	return guard(func() js.Value { return v.Call(method, args...) })
}

func set(v js.Value, prop string, x any) error {
	_, err := guard(func() js.Value {
		v.Set(prop, x)
		return js.Undefined()
	})
	return err
}

func errorName(err error) string {
	var jerr js.Error
	if errors.As(err, &jerr) {
		return jerr.Value.Get("name").String()
	}
	return ""
}

func classify(err error) error {
	switch errorName(err) {
	case "InvalidStateError":
		return fmt.Errorf("%w: %v", audiograph.ErrSourceExists, err)
	case "RangeError", "NotSupportedError", "TypeError":
		return fmt.Errorf("%w: %v", audiograph.ErrInvalidParam, err)
	case "InvalidAccessError":
		return fmt.Errorf("%w: %v", audiograph.ErrForeignNode, err)
	}
	return err
}

// JSValue returns the wrapped AudioContext.
func (c *Context) JSValue() js.Value { return c.v }

func (c *Context) State() audiograph.State {
	switch c.v.Get("state").String() {
	case "running":
		return audiograph.StateRunning
	case "closed":
		return audiograph.StateClosed
	default:
		return audiograph.StateSuspended
	}
}

func (c *Context) SampleRate() float64          { return c.v.Get("sampleRate").Float() }
func (c *Context) CurrentTime() float64         { return c.v.Get("currentTime").Float() }
func (c *Context) Destination() audiograph.Node { return c.dest }

// Resume asks the browser to start output. Browsers refuse until the user
// has interacted with the page; the returned promise is not awaited.
func (c *Context) Resume() error {
	_, err := call(c.v, "resume")
	return err
}

func (c *Context) create(method string, args ...any) (js.Value, error) {
	if c.State() == audiograph.StateClosed {
		return js.Value{}, audiograph.ErrContextClosed
	}
	v, err := call(c.v, method, args...)
	if err != nil {
		return js.Value{}, classify(err)
	}
	return v, nil
}

func (c *Context) CreateMediaElementSource(el dom.Element) (audiograph.MediaElementSource, error) {
	jv, ok := el.(JSValuer)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a page element", audiograph.ErrInvalidParam, el)
	}
	v, err := c.create("createMediaElementSource", jv.JSValue())
	if err != nil {
		return nil, err
	}
	return &source{node: node{ctx: c, v: v}, el: el}, nil
}

func (c *Context) CreatePanner() (audiograph.Panner, error) {
	v, err := c.create("createPanner")
	if err != nil {
		return nil, err
	}
	return &panner{node{ctx: c, v: v}}, nil
}

func (c *Context) CreateDynamicsCompressor() (audiograph.DynamicsCompressor, error) {
	v, err := c.create("createDynamicsCompressor")
	if err != nil {
		return nil, err
	}
	return &compressor{node{ctx: c, v: v}}, nil
}

func (c *Context) CreateBiquadFilter() (audiograph.BiquadFilter, error) {
	v, err := c.create("createBiquadFilter")
	if err != nil {
		return nil, err
	}
	return &filter{node{ctx: c, v: v}}, nil
}

func (c *Context) CreateGain() (audiograph.Gain, error) {
	v, err := c.create("createGain")
	if err != nil {
		return nil, err
	}
	return &gain{node{ctx: c, v: v}}, nil
}
