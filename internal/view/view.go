// Package view holds the committed editor state and accepts dispatched
// transactions.
package view

import (
	"log/slog"
	"sync"

	"github.com/dshills/quill/internal/event"
	"github.com/dshills/quill/internal/logging"
	"github.com/dshills/quill/internal/state"
)

// Topics published by the view.
const (
	// TopicDispatched is published after a transaction has been committed.
	TopicDispatched event.Topic = "transaction.dispatched"

	// TopicRejected is published when a dispatched transaction cannot be applied.
	TopicRejected event.Topic = "transaction.rejected"
)

// Dispatched is the payload of TopicDispatched.
type Dispatched struct {
	Transaction *state.Transaction
	Previous    *state.State
	State       *state.State
}

// Rejected is the payload of TopicRejected.
type Rejected struct {
	Transaction *state.Transaction
	Err         error
}

// View owns the externally visible state. Dispatch is the only way to
// change it.
type View struct {
	mu    sync.RWMutex
	state *state.State

	bus    *event.Bus
	logger *slog.Logger

	dispatched uint64
	rejected   uint64
}

// Option configures a View.
type Option func(*View)

// WithBus publishes commit notifications on bus.
func WithBus(bus *event.Bus) Option {
	return func(v *View) {
		v.bus = bus
	}
}

// WithLogger sets the view's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *View) {
		v.logger = logger
	}
}

// New creates a view showing initial.
func New(initial *state.State, opts ...Option) *View {
	v := &View{
		state:  initial,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.bus == nil {
		v.bus = event.NewBus()
	}
	return v
}

// State returns the committed state.
func (v *View) State() *state.State {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.state
}

// Dispatch applies tr to the committed state and publishes the result.
func (v *View) Dispatch(tr *state.Transaction) error {
	v.mu.Lock()
	prev := v.state
	next, err := prev.Apply(tr)
	if err != nil {
		v.rejected++
		v.mu.Unlock()

		v.logger.Warn("transaction rejected", "tr", tr.ID(), "error", err)
		_, _ = v.bus.Publish(TopicRejected, Rejected{Transaction: tr, Err: err})
		return err
	}
	v.state = next
	v.dispatched++
	v.mu.Unlock()

	v.logger.Debug("transaction dispatched",
		"tr", tr.ID(),
		"steps", len(tr.Steps()),
		"version", next.Version(),
	)
	_, _ = v.bus.Publish(TopicDispatched, Dispatched{Transaction: tr, Previous: prev, State: next})
	return nil
}

// Bus returns the view's event bus.
func (v *View) Bus() *event.Bus {
	return v.bus
}

// Stats holds dispatch counters.
type Stats struct {
	Dispatched uint64
	Rejected   uint64
}

// Stats returns the dispatch counters.
func (v *View) Stats() Stats {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Stats{Dispatched: v.dispatched, Rejected: v.rejected}
}
