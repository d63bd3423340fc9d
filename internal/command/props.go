package command

import (
	"github.com/dshills/quill/internal/state"
)

// Props is the parameter bundle passed to every command body. One Props
// is built per invocation (immediate and chain) or per probe.
type Props struct {
	// Tr is the in-progress transaction shared by every command of the
	// same immediate call, chain or probe.
	Tr *state.Transaction

	// State is the state as if Tr were applied now. It reads live from
	// Tr, so earlier commands' edits are visible.
	State *state.Chainable

	// Dispatch is non-nil only when the transaction may be committed.
	// Calling it has no effect; its presence is what matters.
	Dispatch func()

	// View is the view the manager dispatches to.
	View View

	manager *Manager
	mode    Mode
}

// CanDispatch returns true if the transaction may be committed.
func (p *Props) CanDispatch() bool {
	return p.Dispatch != nil
}

// Mode returns the calling convention the props were built for.
func (p *Props) Mode() Mode {
	return p.mode
}

// Chain starts a chain on the same transaction. The chain never
// dispatches on Run; the transaction belongs to the caller.
func (p *Props) Chain() *Chain {
	return p.manager.newChain(p.Tr, true, p.CanDispatch(), ModeChain)
}

// Can starts a probe on the same transaction.
func (p *Props) Can() *Can {
	return p.manager.CreateCan(p.Tr)
}

// Commands returns every registered command bound to these props. It is
// rebuilt on each call.
func (p *Props) Commands() Commands {
	return bind(p.manager, func(name string, f Factory) func(args ...any) bool {
		return func(args ...any) bool {
			return p.manager.invoke(p, name, f, args)
		}
	})
}

// BuildProps builds the props for running commands against tr. When
// shouldDispatch is false, Props.Dispatch is nil.
func (m *Manager) BuildProps(tr *state.Transaction, shouldDispatch bool) *Props {
	mode := ModeImmediate
	if !shouldDispatch {
		mode = ModeCan
	}
	return m.buildProps(tr, shouldDispatch, mode)
}

func (m *Manager) buildProps(tr *state.Transaction, shouldDispatch bool, mode Mode) *Props {
	base := m.State()
	if base.HasStoredMarks() {
		tr.SetStoredMarks(base.StoredMarks())
	}

	p := &Props{
		Tr:      tr,
		State:   state.NewChainable(base, tr),
		View:    m.view,
		manager: m,
		mode:    mode,
	}
	if shouldDispatch {
		p.Dispatch = func() {}
	}
	return p
}
