package memdom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-spatial/dom"
)

type recorder struct {
	batches [][]dom.MutationRecord
}

func (r *recorder) callback(records []dom.MutationRecord) {
	r.batches = append(r.batches, records)
}

func tags(els []dom.Element) []string {
	out := make([]string, len(els))
	for i, el := range els {
		out[i] = el.TagName()
	}
	return out
}

func TestCreateElementNormalizesTag(t *testing.T) {
	t.Parallel()

	d := NewDocument()
	el := d.CreateElement("audio")
	assert.Equal(t, "AUDIO", el.TagName())
	assert.Equal(t, "AUDIO", el.NodeName())
	assert.Equal(t, dom.ElementNode, el.NodeType())

	txt := d.CreateText("hello")
	assert.Equal(t, dom.TextNode, txt.NodeType())
	assert.Equal(t, "#text", txt.NodeName())
	assert.NotEqual(t, el.Key(), txt.Key())
	assert.NotEqual(t, d.Body().Key(), el.Key())
}

func TestMediaElementsInDocumentOrder(t *testing.T) {
	t.Parallel()

	d := NewDocument()
	body := d.Body()
	a1 := d.CreateElement("audio")
	div := d.CreateElement("div")
	v1 := d.CreateElement("video")
	inner := d.CreateElement("section")
	a2 := d.CreateElement("Audio")
	a3 := d.CreateElement("audio")

	require.NoError(t, body.AppendChild(a1))
	require.NoError(t, body.AppendChild(div))
	require.NoError(t, div.AppendChild(v1))
	require.NoError(t, div.AppendChild(inner))
	require.NoError(t, inner.AppendChild(a2))
	require.NoError(t, body.AppendChild(d.CreateText("x")))
	require.NoError(t, body.AppendChild(a3))

	got := d.MediaElements()
	require.Len(t, got, 4)
	assert.Equal(t, []dom.Element{a1, v1, a2, a3}, got)
	assert.Equal(t, []string{"VIDEO", "AUDIO"}, tags(div.MediaDescendants()))
	assert.Empty(t, a1.MediaDescendants())
}

func TestMutationsBatchedUntilFlush(t *testing.T) {
	t.Parallel()

	d := NewDocument()
	var r recorder
	obs, err := d.Observe(r.callback)
	require.NoError(t, err)

	a := d.CreateElement("audio")
	b := d.CreateElement("video")
	require.NoError(t, d.Body().AppendChild(a))
	require.NoError(t, d.Body().AppendChild(b))
	assert.Empty(t, r.batches, "nothing delivered before flush")
	assert.Equal(t, 2, d.Pending())

	assert.Equal(t, 1, d.Flush())
	require.Len(t, r.batches, 1)
	batch := r.batches[0]
	require.Len(t, batch, 2)
	assert.Equal(t, []dom.Node{a}, batch[0].AddedNodes)
	assert.Equal(t, []dom.Node{b}, batch[1].AddedNodes)
	assert.Equal(t, d.Body().Key(), batch[0].Target.Key())

	assert.Zero(t, d.Flush(), "empty queue delivers nothing")

	obs.Disconnect()
	require.NoError(t, d.Body().AppendChild(d.CreateElement("audio")))
	assert.Zero(t, d.Flush())
	assert.Len(t, r.batches, 1)
}

func TestDetachedSubtreeRecordedOnce(t *testing.T) {
	t.Parallel()

	d := NewDocument()
	var r recorder
	_, err := d.Observe(r.callback)
	require.NoError(t, err)

	div := d.CreateElement("div")
	require.NoError(t, div.AppendChild(d.CreateElement("audio")))
	require.NoError(t, div.AppendChild(d.CreateElement("audio")))
	assert.Zero(t, d.Pending())

	require.NoError(t, d.Body().AppendChild(div))
	d.Flush()
	require.Len(t, r.batches, 1)
	require.Len(t, r.batches[0], 1)
	assert.Equal(t, []dom.Node{div}, r.batches[0][0].AddedNodes)
}

func TestRemoveAndMove(t *testing.T) {
	t.Parallel()

	d := NewDocument()
	var r recorder
	_, err := d.Observe(r.callback)
	require.NoError(t, err)

	a := d.CreateElement("audio")
	div := d.CreateElement("div")
	require.NoError(t, d.Body().AppendChild(a))
	require.NoError(t, d.Body().AppendChild(div))
	d.Flush()

	require.NoError(t, div.AppendChild(a))
	assert.Same(t, div, a.Parent())
	require.NoError(t, div.RemoveChild(a))
	assert.Nil(t, a.Parent())
	d.Flush()

	require.Len(t, r.batches, 2)
	moves := r.batches[1]
	require.Len(t, moves, 3)
	assert.Equal(t, []dom.Node{a}, moves[0].RemovedNodes)
	assert.Equal(t, []dom.Node{a}, moves[1].AddedNodes)
	assert.Equal(t, []dom.Node{a}, moves[2].RemovedNodes)

	assert.ErrorIs(t, div.RemoveChild(a), ErrNotFound)
}

func TestInsertBefore(t *testing.T) {
	t.Parallel()

	d := NewDocument()
	body := d.Body()
	a := d.CreateElement("audio")
	v := d.CreateElement("video")
	require.NoError(t, body.AppendChild(a))
	require.NoError(t, body.InsertBefore(v, a))
	assert.Equal(t, []dom.Node{v, a}, body.Children())

	require.NoError(t, body.InsertBefore(a, v))
	assert.Equal(t, []dom.Node{a, v}, body.Children())

	stray := d.CreateElement("p")
	assert.ErrorIs(t, body.InsertBefore(d.CreateElement("audio"), stray), ErrNotFound)
}

func TestHierarchyErrors(t *testing.T) {
	t.Parallel()

	d := NewDocument()
	outer := d.CreateElement("div")
	inner := d.CreateElement("div")
	require.NoError(t, outer.AppendChild(inner))

	assert.ErrorIs(t, inner.AppendChild(outer), ErrHierarchy)
	assert.ErrorIs(t, outer.AppendChild(outer), ErrHierarchy)
	assert.ErrorIs(t, outer.AppendChild(d.Body()), ErrHierarchy)
	assert.ErrorIs(t, outer.AppendChild(NewDocument().CreateElement("audio")), ErrHierarchy)
	assert.ErrorIs(t, outer.AppendChild(nil), ErrHierarchy)
}

func TestObserveRejectsNilCallback(t *testing.T) {
	t.Parallel()

	_, err := NewDocument().Observe(nil)
	assert.Error(t, err)
}

func TestToneStream(t *testing.T) {
	t.Parallel()

	tone := NewTone(1000, 0.5, 8000, 10)
	buf := make([]float64, 8)
	assert.Equal(t, 8, tone.ReadAudio(buf))
	assert.InDelta(t, 0.0, buf[0], 1e-12)
	assert.InDelta(t, 0.5, buf[2], 1e-12)
	assert.Equal(t, 2, tone.ReadAudio(buf))
	assert.Zero(t, tone.ReadAudio(buf))
	assert.Equal(t, 10, tone.Position())

	el := NewDocument().CreateElement("audio")
	assert.Nil(t, el.AudioStream())
	el.SetAudioStream(tone)
	assert.Same(t, tone, el.AudioStream())
}
