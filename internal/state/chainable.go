package state

// Chainable is the state a transaction would produce if it were applied
// now. Every accessor reads through to the transaction, so edits made
// after the Chainable was created are visible.
type Chainable struct {
	base *State
	tr   *Transaction
}

// NewChainable creates a Chainable for tr on top of base.
func NewChainable(base *State, tr *Transaction) *Chainable {
	return &Chainable{base: base, tr: tr}
}

// Doc returns the transaction's current document.
func (c *Chainable) Doc() Doc {
	return c.tr.Doc()
}

// Selection returns the transaction's current selection.
func (c *Chainable) Selection() Selection {
	return c.tr.Selection()
}

// StoredMarks returns the transaction's current stored marks.
func (c *Chainable) StoredMarks() []Mark {
	return c.tr.StoredMarks()
}

// Tr returns the underlying transaction.
func (c *Chainable) Tr() *Transaction {
	return c.tr
}

// Base returns the state the transaction started from.
func (c *Chainable) Base() *State {
	return c.base
}

// State materializes the state the transaction would produce.
func (c *Chainable) State() *State {
	return c.base.applyUnchecked(c.tr)
}
