package state

import (
	"fmt"
	"unicode/utf8"
)

// Step is an atomic document change. A step applies only to the document
// it was created for, since its positions refer to that document.
type Step interface {
	// Apply applies the step to doc, returning a result that either
	// carries the new document or a failure message.
	Apply(doc Doc) StepResult

	// Invert returns the step that undoes this one. doc must be the
	// document as it was before the step.
	Invert(doc Doc) Step

	// Map maps a position in the document before the step to the
	// corresponding position after it.
	Map(pos int) int

	// String describes the step.
	String() string
}

// StepResult is the outcome of applying a step. Failed is empty on success.
type StepResult struct {
	Doc    Doc
	Failed string
}

// OK creates a successful step result.
func OK(doc Doc) StepResult {
	return StepResult{Doc: doc}
}

// Fail creates a failed step result.
func Fail(message string) StepResult {
	return StepResult{Failed: message}
}

// ReplaceStep replaces the range [From, To) with Text.
type ReplaceStep struct {
	From int
	To   int
	Text string
}

// NewInsertStep creates a step inserting text at pos.
func NewInsertStep(pos int, text string) *ReplaceStep {
	return &ReplaceStep{From: pos, To: pos, Text: text}
}

// NewDeleteStep creates a step deleting [from, to).
func NewDeleteStep(from, to int) *ReplaceStep {
	return &ReplaceStep{From: from, To: to}
}

// Apply replaces the range in doc.
func (s *ReplaceStep) Apply(doc Doc) StepResult {
	if err := doc.CheckRange(s.From, s.To); err != nil {
		return Fail(err.Error())
	}
	if !utf8.ValidString(s.Text) {
		return Fail("replacement text is not valid UTF-8")
	}
	return OK(doc.replace(s.From, s.To, s.Text))
}

// Invert returns the step restoring the replaced text.
func (s *ReplaceStep) Invert(doc Doc) Step {
	return &ReplaceStep{
		From: s.From,
		To:   s.From + len(s.Text),
		Text: doc.Slice(s.From, s.To),
	}
}

// Map maps pos past the replaced range. Positions inside a replaced range
// collapse to the end of the inserted text.
func (s *ReplaceStep) Map(pos int) int {
	switch {
	case pos < s.From:
		return pos
	case pos >= s.To && pos > s.From:
		return pos + len(s.Text) - (s.To - s.From)
	case pos == s.From && s.From == s.To:
		return pos + len(s.Text)
	default:
		return s.From + len(s.Text)
	}
}

// IsInsert returns true if the step only inserts text.
func (s *ReplaceStep) IsInsert() bool {
	return s.From == s.To && len(s.Text) > 0
}

// IsDelete returns true if the step only removes text.
func (s *ReplaceStep) IsDelete() bool {
	return s.From < s.To && len(s.Text) == 0
}

// String describes the step.
func (s *ReplaceStep) String() string {
	switch {
	case s.IsInsert():
		return fmt.Sprintf("insert(%d, %q)", s.From, s.Text)
	case s.IsDelete():
		return fmt.Sprintf("delete(%d, %d)", s.From, s.To)
	default:
		return fmt.Sprintf("replace(%d, %d, %q)", s.From, s.To, s.Text)
	}
}
