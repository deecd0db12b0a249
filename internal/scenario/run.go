package scenario

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-spatial/audiograph/offline"
	"github.com/cwbudde/algo-spatial/discovery"
	"github.com/cwbudde/algo-spatial/dom/memdom"
	"github.com/cwbudde/algo-spatial/dsp/core"
	"github.com/cwbudde/algo-spatial/dsp/spectrum"
	"github.com/cwbudde/algo-spatial/spatializer"
	"github.com/cwbudde/algo-spatial/stats/frequency"
	"github.com/cwbudde/algo-spatial/stats/level"
)

// Status of a media element after a run.
type Status string

const (
	StatusProcessed Status = "processed"
	StatusFailed    Status = "failed"
	StatusUnseen    Status = "unseen"
)

// ElementReport describes one declared media element.
type ElementReport struct {
	Name   string
	Tag    string
	Status Status
	// Attached reports whether the element is in the document at the end.
	Attached bool
}

// Segment covers the audio rendered between two timeline steps.
type Segment struct {
	Start, End float64
	PeakDB     float64
	RMSDB      float64
	// CentroidHz and DominantHz describe the mid (L+R)/2 spectrum. Both are
	// zero when the segment is shorter than one analysis frame or silent.
	CentroidHz float64
	DominantHz float64
}

// analysisSize is the FFT frame used for segment spectra.
const analysisSize = 2048

// Report summarizes a run.
type Report struct {
	Elements  []ElementReport
	Segments  []Segment
	Nodes     int
	Builder   spatializer.Stats
	Discovery discovery.Stats
}

// Run simulates s: it builds the initial tree, starts discovery, then plays
// the timeline through an offline context, flushing mutations after every
// step. Scenarios built in code are validated first and their steps run in
// time order.
func Run(s *Scenario, log *logrus.Logger) (*Report, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil scenario", ErrInvalid)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	steps := slices.Clone(s.Steps)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].At < steps[j].At })

	opts := []core.ProcessorOption{core.WithSampleRate(s.SampleRate)}
	if s.BlockSize > 0 {
		opts = append(opts, core.WithBlockSize(s.BlockSize))
	}
	ctx := offline.New(opts...)
	ctx.SetLogger(log)

	doc := memdom.NewDocument()
	elements := make(map[string]*memdom.Element, len(s.Nodes))
	for _, n := range s.Nodes {
		el := doc.CreateElement(n.Tag)
		if n.Media() && n.Tone > 0 {
			el.SetAudioStream(memdom.NewTone(n.Tone, n.Amplitude, s.SampleRate, 0))
		}
		elements[n.Name] = el
	}
	resolve := func(name string) *memdom.Element {
		if name == Body {
			return doc.Body()
		}
		return elements[name]
	}
	for _, n := range s.Nodes {
		if n.Parent == "" {
			continue
		}
		if err := resolve(n.Parent).AppendChild(elements[n.Name]); err != nil {
			return nil, fmt.Errorf("scenario: place %q: %w", n.Name, err)
		}
	}

	builder := spatializer.New(ctx, spatializer.WithLogger(log))
	svc := discovery.New(doc, builder, discovery.WithLogger(log))
	if err := svc.Start(); err != nil {
		return nil, err
	}
	defer svc.Stop()

	analyzer, err := spectrum.NewAnalyzer(analysisSize)
	if err != nil {
		return nil, err
	}

	rep := &Report{}
	render := func(until float64) error {
		start := ctx.CurrentTime()
		frames := int(math.Round((until - start) * s.SampleRate))
		if frames <= 0 {
			return nil
		}
		out, err := ctx.Render(frames)
		if err != nil {
			return err
		}
		seg, err := measure(analyzer, out, s.SampleRate)
		if err != nil {
			return err
		}
		seg.Start, seg.End = start, ctx.CurrentTime()
		rep.Segments = append(rep.Segments, seg)
		return nil
	}

	for _, st := range steps {
		if err := render(st.At); err != nil {
			return nil, err
		}
		el := elements[st.Node]
		var err error
		switch st.Action {
		case ActionAppend:
			err = resolve(st.Parent).AppendChild(el)
		case ActionRemove:
			if p := el.Parent(); p != nil {
				err = p.RemoveChild(el)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("scenario: %s %q at %v: %w", st.Action, st.Node, st.At, err)
		}
		doc.Flush()
	}
	if err := render(s.Duration); err != nil {
		return nil, err
	}

	for _, n := range s.Nodes {
		if !n.Media() {
			continue
		}
		el := elements[n.Name]
		status := StatusUnseen
		switch {
		case builder.Processed(el):
			status = StatusProcessed
		case builder.Attempted(el):
			status = StatusFailed
		}
		rep.Elements = append(rep.Elements, ElementReport{
			Name:     n.Name,
			Tag:      el.TagName(),
			Status:   status,
			Attached: attached(doc, el),
		})
	}
	rep.Nodes = ctx.NodeCount()
	rep.Builder = builder.Stats()
	rep.Discovery = svc.Stats()
	return rep, nil
}

func attached(doc *memdom.Document, el *memdom.Element) bool {
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p == doc.Body() {
			return true
		}
	}
	return false
}

func measure(analyzer *spectrum.Analyzer, out core.Stereo, sampleRate float64) (Segment, error) {
	var meter level.Meter
	meter.WriteStereo(out)
	lv := meter.Stats()
	seg := Segment{PeakDB: lv.PeakDB, RMSDB: lv.RMSDB}

	mid := make([]float64, out.Len())
	for i := range mid {
		mid[i] = 0.5 * (out[0][i] + out[1][i])
	}
	analyzer.Reset()
	if err := analyzer.Write(mid); err != nil {
		return Segment{}, err
	}
	if mag := analyzer.Magnitude(); mag != nil && lv.Peak > 0 {
		seg.CentroidHz = frequency.Centroid(mag, sampleRate)
		seg.DominantHz, _ = frequency.Peak(mag, sampleRate)
	}
	return seg, nil
}
