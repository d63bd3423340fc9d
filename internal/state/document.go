package state

import (
	"fmt"
	"reflect"
	"unicode/utf8"
)

// Doc is an immutable text document. Positions are byte offsets.
type Doc struct {
	text string
}

// NewDoc creates a document holding text.
func NewDoc(text string) Doc {
	return Doc{text: text}
}

// Text returns the full document text.
func (d Doc) Text() string {
	return d.text
}

// Len returns the document length in bytes.
func (d Doc) Len() int {
	return len(d.text)
}

// IsEmpty returns true if the document holds no text.
func (d Doc) IsEmpty() bool {
	return len(d.text) == 0
}

// Slice returns the text between from and to.
// Out-of-range positions are clamped.
func (d Doc) Slice(from, to int) string {
	from = clamp(from, 0, len(d.text))
	to = clamp(to, from, len(d.text))
	return d.text[from:to]
}

// Eq returns true if both documents hold the same text.
func (d Doc) Eq(other Doc) bool {
	return d.text == other.text
}

// String returns the document text.
func (d Doc) String() string {
	return d.text
}

// CheckPos validates a position against the document.
func (d Doc) CheckPos(pos int) error {
	if pos < 0 || pos > len(d.text) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrPositionOutOfRange, pos, len(d.text))
	}
	if pos < len(d.text) && !utf8.RuneStart(d.text[pos]) {
		return fmt.Errorf("%w: %d", ErrNotRuneBoundary, pos)
	}
	return nil
}

// CheckRange validates a range against the document.
func (d Doc) CheckRange(from, to int) error {
	if from > to {
		return fmt.Errorf("%w: %d > %d", ErrInvalidRange, from, to)
	}
	if err := d.CheckPos(from); err != nil {
		return err
	}
	return d.CheckPos(to)
}

// replace returns a new document with [from, to) replaced by text.
// The range must already be validated.
func (d Doc) replace(from, to int, text string) Doc {
	return Doc{text: d.text[:from] + text + d.text[to:]}
}

// Mark is pending or applied formatting, such as {Type: "bold"}.
type Mark struct {
	Type  string         `yaml:"type" mapstructure:"type"`
	Attrs map[string]any `yaml:"attrs,omitempty" mapstructure:"attrs"`
}

// Eq returns true if both marks have the same type and attributes.
func (m Mark) Eq(other Mark) bool {
	if m.Type != other.Type {
		return false
	}
	if len(m.Attrs) == 0 && len(other.Attrs) == 0 {
		return true
	}
	return reflect.DeepEqual(m.Attrs, other.Attrs)
}

// String returns the mark type.
func (m Mark) String() string {
	return m.Type
}

// MarksEqual returns true if both mark sets contain equal marks in the same order.
func MarksEqual(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}

func copyMarks(marks []Mark) []Mark {
	if marks == nil {
		return nil
	}
	out := make([]Mark, len(marks))
	copy(out, marks)
	return out
}

// Selection is an anchor/head pair. Anchor is the fixed end.
type Selection struct {
	Anchor int `yaml:"anchor" mapstructure:"anchor"`
	Head   int `yaml:"head" mapstructure:"head"`
}

// Cursor returns an empty selection at pos.
func Cursor(pos int) Selection {
	return Selection{Anchor: pos, Head: pos}
}

// From returns the lower bound of the selection.
func (s Selection) From() int {
	return min(s.Anchor, s.Head)
}

// To returns the upper bound of the selection.
func (s Selection) To() int {
	return max(s.Anchor, s.Head)
}

// Empty returns true if the selection is a cursor.
func (s Selection) Empty() bool {
	return s.Anchor == s.Head
}

// Map maps the selection through a step.
func (s Selection) Map(step Step) Selection {
	return Selection{Anchor: step.Map(s.Anchor), Head: step.Map(s.Head)}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
