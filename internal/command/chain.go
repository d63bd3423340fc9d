package command

import (
	"github.com/dshills/quill/internal/state"
)

// Chain runs several commands against one transaction and dispatches it
// once, on Run. A Chain is not safe for concurrent use.
type Chain struct {
	m              *Manager
	tr             *state.Transaction
	hasStart       bool
	shouldDispatch bool
	mode           Mode

	results []bool
	ran     bool
}

// CreateChain starts a chain. With a nil startTr the chain creates and
// owns a fresh transaction, which Run dispatches when shouldDispatch is
// true. With a non-nil startTr the chain appends to the caller's
// transaction and never dispatches it.
func (m *Manager) CreateChain(startTr *state.Transaction, shouldDispatch bool) *Chain {
	return m.newChain(startTr, startTr != nil, shouldDispatch, ModeChain)
}

func (m *Manager) newChain(tr *state.Transaction, hasStart, shouldDispatch bool, mode Mode) *Chain {
	if tr == nil {
		tr = m.State().Tr()
		hasStart = false
	}
	if !shouldDispatch {
		mode = ModeCan
	}
	return &Chain{
		m:              m,
		tr:             tr,
		hasStart:       hasStart,
		shouldDispatch: shouldDispatch,
		mode:           mode,
	}
}

// Cmd runs the command registered under name and records its result.
// Running an unregistered name panics.
func (c *Chain) Cmd(name string, args ...any) *Chain {
	f := c.m.factory(name)
	p := c.m.buildProps(c.tr, c.shouldDispatch, c.mode)
	c.results = append(c.results, c.m.invoke(p, name, f, args))
	return c
}

// Command runs an ad-hoc body as a chain step.
func (c *Chain) Command(body Body) *Chain {
	p := c.m.buildProps(c.tr, c.shouldDispatch, c.mode)
	c.results = append(c.results, c.m.runBody(p, body))
	return c
}

// Commands returns every registered command as a fluent step of this chain.
func (c *Chain) Commands() ChainCommands {
	return bind(c.m, func(name string, _ Factory) func(args ...any) *Chain {
		return func(args ...any) *Chain {
			return c.Cmd(name, args...)
		}
	})
}

// Run dispatches the transaction if the chain owns it, dispatching is
// enabled and no step set state.MetaPreventDispatch. It reports whether
// every step returned true; an empty chain reports true.
//
// The transaction is dispatched at most once. Calling Run again only
// recomputes the result.
func (c *Chain) Run() bool {
	if !c.ran {
		c.ran = true
		if !c.hasStart && c.shouldDispatch {
			c.m.commit(c.mode, c.tr)
		}
	}

	for _, ok := range c.results {
		if !ok {
			return false
		}
	}
	return true
}

// Transaction returns the chain's transaction.
func (c *Chain) Transaction() *state.Transaction {
	return c.tr
}

// Results returns the result of every step so far.
func (c *Chain) Results() []bool {
	out := make([]bool, len(c.results))
	copy(out, c.results)
	return out
}

// Len returns the number of steps run so far.
func (c *Chain) Len() int {
	return len(c.results)
}
