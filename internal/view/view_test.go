package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quill/internal/event"
	"github.com/dshills/quill/internal/state"
)

func TestDispatchCommits(t *testing.T) {
	v := New(state.New(state.NewDoc("abc")))
	var got []Dispatched
	_, err := v.Bus().Subscribe(TopicDispatched, func(ev event.Event) {
		got = append(got, ev.Payload.(Dispatched))
	})
	require.NoError(t, err)

	tr := v.State().Tr()
	require.NoError(t, tr.Insert(3, "d"))
	require.NoError(t, v.Dispatch(tr))

	assert.Equal(t, "abcd", v.State().Doc().Text())
	require.Len(t, got, 1)
	assert.Equal(t, tr, got[0].Transaction)
	assert.Equal(t, "abc", got[0].Previous.Doc().Text())
	assert.Equal(t, Stats{Dispatched: 1}, v.Stats())
}

func TestDispatchRejectsStale(t *testing.T) {
	v := New(state.New(state.NewDoc("abc")))
	rejected := 0
	_, _ = v.Bus().Subscribe(TopicRejected, func(event.Event) { rejected++ })

	stale := v.State().Tr()
	require.NoError(t, stale.Insert(0, "x"))
	require.NoError(t, v.Dispatch(v.State().Tr()))

	err := v.Dispatch(stale)
	assert.ErrorIs(t, err, state.ErrStaleTransaction)
	assert.Equal(t, "abc", v.State().Doc().Text())
	assert.Equal(t, 1, rejected)
	assert.Equal(t, uint64(1), v.Stats().Rejected)
}
