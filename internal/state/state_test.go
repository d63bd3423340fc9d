package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateDefaults(t *testing.T) {
	s := New(NewDoc("hello"))

	assert.Equal(t, "hello", s.Doc().Text())
	assert.Equal(t, Cursor(5), s.Selection())
	assert.False(t, s.HasStoredMarks())
	assert.Equal(t, uint64(0), s.Version())
}

func TestNewStateClampsSelection(t *testing.T) {
	s := New(NewDoc("abc"), WithSelection(Selection{Anchor: -3, Head: 42}))

	assert.Equal(t, Selection{Anchor: 0, Head: 3}, s.Selection())
}

func TestTransactionDoesNotTouchState(t *testing.T) {
	s := New(NewDoc("hello"))
	tr := s.Tr()

	require.NoError(t, tr.Insert(5, " world"))

	assert.Equal(t, "hello world", tr.Doc().Text())
	assert.Equal(t, "hello", tr.Before().Text())
	assert.Equal(t, "hello", s.Doc().Text())
	assert.True(t, tr.DocChanged())
	assert.Len(t, tr.Steps(), 1)
}

func TestApply(t *testing.T) {
	s := New(NewDoc("hello"))
	tr := s.Tr()
	require.NoError(t, tr.Insert(0, ">> "))
	require.NoError(t, tr.Delete(3, 4))

	next, err := s.Apply(tr)
	require.NoError(t, err)

	assert.Equal(t, ">> ello", next.Doc().Text())
	assert.Equal(t, uint64(1), next.Version())
	assert.Equal(t, Cursor(7), next.Selection())
}

func TestApplyStaleTransaction(t *testing.T) {
	s := New(NewDoc("hello"))
	first := s.Tr()
	second := s.Tr()
	require.NoError(t, first.Insert(0, "a"))

	next, err := s.Apply(first)
	require.NoError(t, err)

	_, err = next.Apply(second)
	assert.ErrorIs(t, err, ErrStaleTransaction)
}

func TestStepOutOfRange(t *testing.T) {
	tr := New(NewDoc("abc")).Tr()

	err := tr.Insert(10, "x")
	assert.ErrorIs(t, err, ErrStepFailed)
	assert.False(t, tr.DocChanged())

	err = tr.Delete(2, 1)
	assert.ErrorIs(t, err, ErrStepFailed)
}

func TestStepRuneBoundary(t *testing.T) {
	tr := New(NewDoc("héllo")).Tr()

	err := tr.Insert(2, "x")
	assert.ErrorIs(t, err, ErrStepFailed)

	require.NoError(t, tr.Insert(3, "x"))
	assert.Equal(t, "héxllo", tr.Doc().Text())
}

func TestStoredMarksCopiedAndClearedByStep(t *testing.T) {
	bold := Mark{Type: "bold"}
	s := New(NewDoc("abc"), WithStoredMarks([]Mark{bold}))

	tr := s.Tr()
	assert.True(t, MarksEqual([]Mark{bold}, tr.StoredMarks()))
	assert.False(t, tr.StoredMarksSet())

	require.NoError(t, tr.Insert(0, "x"))
	assert.Nil(t, tr.StoredMarks())

	tr.AddStoredMark(Mark{Type: "italic"})
	next, err := s.Apply(tr)
	require.NoError(t, err)
	assert.True(t, MarksEqual([]Mark{{Type: "italic"}}, next.StoredMarks()))
}

func TestAddAndRemoveStoredMark(t *testing.T) {
	tr := New(NewDoc("")).Tr()

	tr.AddStoredMark(Mark{Type: "bold"})
	tr.AddStoredMark(Mark{Type: "link", Attrs: map[string]any{"href": "a"}})
	tr.AddStoredMark(Mark{Type: "link", Attrs: map[string]any{"href": "b"}})

	marks := tr.StoredMarks()
	require.Len(t, marks, 2)
	assert.Equal(t, "b", marks[1].Attrs["href"])

	tr.RemoveStoredMark("bold")
	assert.Len(t, tr.StoredMarks(), 1)
}

func TestMeta(t *testing.T) {
	tr := New(NewDoc("")).Tr()

	assert.Nil(t, tr.Meta("missing"))
	assert.False(t, tr.PreventsDispatch())

	tr.SetMeta(MetaPreventDispatch, true)
	assert.True(t, tr.PreventsDispatch())
	assert.Equal(t, 1, tr.MetaLen())

	tr.SetMeta(MetaPreventDispatch, false)
	assert.False(t, tr.PreventsDispatch())
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{"", false},
		{"yes", true},
		{0, false},
		{1, true},
		{0.0, false},
		{struct{}{}, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truthy(tt.in), "Truthy(%#v)", tt.in)
	}
}

func TestSelectionMapping(t *testing.T) {
	tests := []struct {
		name string
		step *ReplaceStep
		pos  int
		want int
	}{
		{"before insert", NewInsertStep(5, "xx"), 3, 3},
		{"at insert", NewInsertStep(5, "xx"), 5, 7},
		{"after insert", NewInsertStep(5, "xx"), 8, 10},
		{"inside delete", NewDeleteStep(2, 6), 4, 2},
		{"after delete", NewDeleteStep(2, 6), 9, 5},
		{"at delete start", NewDeleteStep(2, 6), 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.step.Map(tt.pos))
		})
	}
}

func TestInvert(t *testing.T) {
	doc := NewDoc("hello world")
	step := &ReplaceStep{From: 0, To: 5, Text: "goodbye"}

	res := step.Apply(doc)
	require.Empty(t, res.Failed)

	undo := step.Invert(doc).Apply(res.Doc)
	require.Empty(t, undo.Failed)
	assert.True(t, undo.Doc.Eq(doc))
}

func TestChainableReadsThrough(t *testing.T) {
	s := New(NewDoc("ab"))
	tr := s.Tr()
	c := NewChainable(s, tr)

	require.NoError(t, tr.Insert(2, "c"))

	assert.Equal(t, "abc", c.Doc().Text())
	assert.Equal(t, Cursor(3), c.Selection())
	assert.Equal(t, "abc", c.State().Doc().Text())
	assert.Equal(t, "ab", c.Base().Doc().Text())
}

func TestInsertTextReplacesSelection(t *testing.T) {
	tr := New(NewDoc("hello world")).Tr()
	require.NoError(t, tr.SetSelection(Selection{Anchor: 11, Head: 6}))

	require.NoError(t, tr.InsertText("there"))

	assert.Equal(t, "hello there", tr.Doc().Text())
	assert.Equal(t, Cursor(11), tr.Selection())
}
