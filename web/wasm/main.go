//go:build js && wasm

// Command wasm is the page content script. It spatializes every media
// element already on the page and every one added later, for as long as the
// page lives.
package main

import (
	"syscall/js"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-spatial/audiograph/jsaudio"
	"github.com/cwbudde/algo-spatial/discovery"
	"github.com/cwbudde/algo-spatial/dom/jsdom"
	"github.com/cwbudde/algo-spatial/spatializer"
)

var funcs []js.Func

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, DisableTimestamp: true})

	ctx, err := jsaudio.New()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "main",
			"error":    err.Error(),
		}).Error("Audio context unavailable, spatializer disabled")
		return
	}

	doc, err := jsdom.New()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "main",
			"error":    err.Error(),
		}).Error("Document unavailable, spatializer disabled")
		return
	}

	builder := spatializer.New(ctx)
	svc := discovery.New(doc, builder)
	if err := svc.Start(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "main",
			"error":    err.Error(),
		}).Error("Discovery failed to start")
	}

	api := js.Global().Get("Object").New()
	api.Set("stats", export(func([]js.Value) any {
		b := builder.Stats()
		d := svc.Stats()
		return map[string]any{
			"processed":    b.Processed,
			"failed":       b.Failed,
			"skipped":      b.Skipped,
			"batches":      d.Batches,
			"discovered":   d.Discovered,
			"contextState": ctx.State().String(),
		}
	}))
	api.Set("resume", export(func([]js.Value) any {
		if err := ctx.Resume(); err != nil {
			return err.Error()
		}
		return js.Null()
	}))
	js.Global().Set("AlgoSpatial", api)

	select {}
}

func export(fn func([]js.Value) any) js.Func {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		return fn(args)
	})
	funcs = append(funcs, f)
	return f
}
