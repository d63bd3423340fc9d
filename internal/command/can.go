package command

import (
	"github.com/dshills/quill/internal/state"
)

// Can answers whether commands would succeed without ever dispatching.
// Every probe call shares one Props whose Dispatch is nil.
type Can struct {
	m     *Manager
	tr    *state.Transaction
	props *Props
}

// CreateCan starts a probe against startTr, or a fresh transaction when
// startTr is nil.
func (m *Manager) CreateCan(startTr *state.Transaction) *Can {
	tr := startTr
	if tr == nil {
		tr = m.State().Tr()
	}
	return &Can{
		m:     m,
		tr:    tr,
		props: m.buildProps(tr, false, ModeCan),
	}
}

// Call runs the command registered under name and returns its result.
// Running an unregistered name panics.
func (c *Can) Call(name string, args ...any) bool {
	return c.m.invoke(c.props, name, c.m.factory(name), args)
}

// Commands returns every registered command as a probe callable.
func (c *Can) Commands() Commands {
	return bind(c.m, func(name string, f Factory) func(args ...any) bool {
		return func(args ...any) bool {
			return c.m.invoke(c.props, name, f, args)
		}
	})
}

// Chain starts a chain on the probe's transaction with dispatching
// disabled. Its Run reports the aggregate result and never dispatches.
func (c *Can) Chain() *Chain {
	return c.m.newChain(c.tr, true, false, ModeCan)
}

// Transaction returns the probe's transaction.
func (c *Can) Transaction() *state.Transaction {
	return c.tr
}
