// Package state provides the document-state and transaction model that
// editor commands operate on.
//
// A State is an immutable snapshot of a document together with its
// selection and pending stored marks. Changes are collected on a
// Transaction, which accumulates steps without touching the State it was
// created from. Applying the transaction yields a new State:
//
//	s := state.New(state.NewDoc("hello"))
//	tr := s.Tr()
//	_ = tr.Insert(5, " world")
//	next, err := s.Apply(tr) // "hello world"
//
// Chainable exposes the state a transaction would produce, read live from
// the transaction, so that several commands sharing one transaction observe
// each other's edits before anything is committed.
package state
