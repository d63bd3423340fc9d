package state

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MetaPreventDispatch is the metadata key a command sets on a transaction
// to stop the automatic dispatch that would otherwise follow it.
const MetaPreventDispatch = "preventDispatch"

// Transaction accumulates steps, selection changes, stored marks and
// metadata on top of a State. Nothing becomes visible until the
// transaction is applied to the State it was created from.
//
// A Transaction is not safe for concurrent use.
type Transaction struct {
	id          string
	time        time.Time
	baseVersion uint64

	before Doc
	doc    Doc
	steps  []Step
	docs   []Doc // document before each step

	selection    Selection
	selectionSet bool

	storedMarks    []Mark
	storedMarksSet bool

	meta map[string]any
}

func newTransaction(s *State) *Transaction {
	return &Transaction{
		id:          uuid.New().String(),
		time:        time.Now(),
		baseVersion: s.version,
		before:      s.doc,
		doc:         s.doc,
		selection:   s.selection,
		storedMarks: copyMarks(s.storedMarks),
	}
}

// ID returns the transaction's unique identifier.
func (tr *Transaction) ID() string {
	return tr.id
}

// Time returns when the transaction was created.
func (tr *Transaction) Time() time.Time {
	return tr.time
}

// BaseVersion returns the version of the state the transaction was created from.
func (tr *Transaction) BaseVersion() uint64 {
	return tr.baseVersion
}

// Before returns the document the transaction started from.
func (tr *Transaction) Before() Doc {
	return tr.before
}

// Doc returns the document with all steps so far applied.
func (tr *Transaction) Doc() Doc {
	return tr.doc
}

// Steps returns a copy of the steps added so far.
func (tr *Transaction) Steps() []Step {
	out := make([]Step, len(tr.steps))
	copy(out, tr.steps)
	return out
}

// Docs returns the document as it was before each step.
func (tr *Transaction) Docs() []Doc {
	out := make([]Doc, len(tr.docs))
	copy(out, tr.docs)
	return out
}

// DocChanged returns true if any step has been added.
func (tr *Transaction) DocChanged() bool {
	return len(tr.steps) > 0
}

// Step applies step to the current document and records it.
// Adding a step clears the stored marks.
func (tr *Transaction) Step(step Step) error {
	result := step.Apply(tr.doc)
	if result.Failed != "" {
		return fmt.Errorf("%w: %s: %s", ErrStepFailed, step, result.Failed)
	}

	tr.docs = append(tr.docs, tr.doc)
	tr.steps = append(tr.steps, step)
	tr.doc = result.Doc
	tr.selection = tr.selection.Map(step)
	tr.storedMarks = nil
	tr.storedMarksSet = false
	return nil
}

// Insert inserts text at pos.
func (tr *Transaction) Insert(pos int, text string) error {
	if text == "" {
		return tr.doc.CheckPos(pos)
	}
	return tr.Step(NewInsertStep(pos, text))
}

// Delete removes the range [from, to).
func (tr *Transaction) Delete(from, to int) error {
	if from == to {
		return tr.doc.CheckPos(from)
	}
	return tr.Step(NewDeleteStep(from, to))
}

// Replace replaces the range [from, to) with text.
func (tr *Transaction) Replace(from, to int, text string) error {
	return tr.Step(&ReplaceStep{From: from, To: to, Text: text})
}

// InsertText replaces the current selection with text.
func (tr *Transaction) InsertText(text string) error {
	return tr.Replace(tr.selection.From(), tr.selection.To(), text)
}

// Selection returns the current selection.
func (tr *Transaction) Selection() Selection {
	return tr.selection
}

// SetSelection replaces the selection.
func (tr *Transaction) SetSelection(sel Selection) error {
	if err := tr.doc.CheckPos(sel.Anchor); err != nil {
		return err
	}
	if err := tr.doc.CheckPos(sel.Head); err != nil {
		return err
	}
	tr.selection = sel
	tr.selectionSet = true
	return nil
}

// SelectionSet returns true if the selection was set explicitly.
func (tr *Transaction) SelectionSet() bool {
	return tr.selectionSet
}

// StoredMarks returns the marks to apply to the next inserted content.
func (tr *Transaction) StoredMarks() []Mark {
	return copyMarks(tr.storedMarks)
}

// SetStoredMarks sets the marks to apply to the next inserted content.
// A nil slice clears them.
func (tr *Transaction) SetStoredMarks(marks []Mark) *Transaction {
	tr.storedMarks = copyMarks(marks)
	tr.storedMarksSet = true
	return tr
}

// AddStoredMark adds mark to the stored marks, replacing a mark of the same type.
func (tr *Transaction) AddStoredMark(mark Mark) *Transaction {
	marks := make([]Mark, 0, len(tr.storedMarks)+1)
	for _, m := range tr.storedMarks {
		if m.Type != mark.Type {
			marks = append(marks, m)
		}
	}
	return tr.SetStoredMarks(append(marks, mark))
}

// RemoveStoredMark removes stored marks of the given type.
func (tr *Transaction) RemoveStoredMark(markType string) *Transaction {
	var marks []Mark
	for _, m := range tr.storedMarks {
		if m.Type != markType {
			marks = append(marks, m)
		}
	}
	return tr.SetStoredMarks(marks)
}

// StoredMarksSet returns true if the stored marks were set explicitly.
func (tr *Transaction) StoredMarksSet() bool {
	return tr.storedMarksSet
}

// SetMeta stores a metadata value under key.
func (tr *Transaction) SetMeta(key string, value any) *Transaction {
	if tr.meta == nil {
		tr.meta = make(map[string]any)
	}
	tr.meta[key] = value
	return tr
}

// Meta returns the metadata value stored under key, or nil.
func (tr *Transaction) Meta(key string) any {
	return tr.meta[key]
}

// MetaLen returns the number of metadata entries.
func (tr *Transaction) MetaLen() int {
	return len(tr.meta)
}

// PreventsDispatch reports whether MetaPreventDispatch holds a truthy value.
func (tr *Transaction) PreventsDispatch() bool {
	return Truthy(tr.Meta(MetaPreventDispatch))
}

// Truthy reports whether a metadata value counts as set. nil, false, zero
// numbers and empty strings are falsy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}
