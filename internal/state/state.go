package state

import "fmt"

// State is an immutable editor state: a document, a selection and the
// marks pending for the next inserted content.
type State struct {
	doc         Doc
	selection   Selection
	storedMarks []Mark
	version     uint64
}

// Option configures a State created by New.
type Option func(*State)

// WithSelection sets the initial selection. It is clamped to the document.
func WithSelection(sel Selection) Option {
	return func(s *State) {
		s.selection = sel
	}
}

// WithStoredMarks sets the initial stored marks.
func WithStoredMarks(marks []Mark) Option {
	return func(s *State) {
		s.storedMarks = copyMarks(marks)
	}
}

// New creates a state for doc. The selection defaults to a cursor at the
// end of the document.
func New(doc Doc, opts ...Option) *State {
	s := &State{
		doc:       doc,
		selection: Cursor(doc.Len()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.selection = Selection{
		Anchor: clamp(s.selection.Anchor, 0, doc.Len()),
		Head:   clamp(s.selection.Head, 0, doc.Len()),
	}
	return s
}

// Doc returns the document.
func (s *State) Doc() Doc {
	return s.doc
}

// Selection returns the selection.
func (s *State) Selection() Selection {
	return s.selection
}

// StoredMarks returns the pending stored marks, or nil if there are none.
func (s *State) StoredMarks() []Mark {
	return copyMarks(s.storedMarks)
}

// HasStoredMarks returns true if stored marks are pending.
func (s *State) HasStoredMarks() bool {
	return s.storedMarks != nil
}

// Version returns the number of transactions applied to reach this state.
func (s *State) Version() uint64 {
	return s.version
}

// Tr starts a new transaction from this state.
func (s *State) Tr() *Transaction {
	return newTransaction(s)
}

// Apply applies tr and returns the resulting state. The receiver is not
// modified. tr must have been created from a state with the same version
// and document.
func (s *State) Apply(tr *Transaction) (*State, error) {
	if tr.baseVersion != s.version || !tr.before.Eq(s.doc) {
		return nil, fmt.Errorf("%w: transaction %s from version %d, state at %d",
			ErrStaleTransaction, tr.id, tr.baseVersion, s.version)
	}
	return s.applyUnchecked(tr), nil
}

func (s *State) applyUnchecked(tr *Transaction) *State {
	next := &State{
		doc:       tr.doc,
		selection: tr.selection,
		version:   s.version + 1,
	}
	if tr.storedMarks != nil {
		next.storedMarks = copyMarks(tr.storedMarks)
	}
	return next
}
