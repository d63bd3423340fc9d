// Package command runs editor commands against transactions and decides
// when those transactions are committed to the view.
//
// A command is registered as a Factory: a function taking caller
// arguments and returning a Body. A Body receives Props, mutates
// Props.Tr, and reports success as a bool.
//
// A Manager offers three ways to run commands:
//
//	// Immediate: one transaction per call, dispatched straight away.
//	m.CreateCommands().Call("insertText", "hi")
//
//	// Chain: one transaction for every step, dispatched once by Run.
//	ok := m.CreateChain(nil, true).
//		Cmd("insertText", "hi").
//		Cmd("setMeta", "source", "paste").
//		Run()
//
//	// Can: never dispatched. Answers "would this succeed?".
//	if m.CreateCan(nil).Call("deleteRange", 0, 4) { ... }
//
// Chained steps keep running after a failure; Run reports true only if
// every step returned true. A Body sees the edits of earlier steps
// through Props.State, which reads live from the shared transaction.
//
// Props.Dispatch is nil whenever dispatching is not permitted (Can mode
// and chains started from it). Commands should only mutate Props.Tr when
// Props.Dispatch is non-nil, so that a probe leaves the transaction it was
// given untouched.
//
// A Body may set state.MetaPreventDispatch on the transaction to suppress
// the automatic dispatch of an immediate call or an un-parented chain.
package command
