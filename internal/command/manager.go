package command

import (
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/dshills/quill/internal/logging"
	"github.com/dshills/quill/internal/state"
)

// View is the collaborator that owns the committed state.
type View interface {
	// State returns the committed state.
	State() *state.State

	// Dispatch commits tr.
	Dispatch(tr *state.Transaction) error
}

// Mode identifies a calling convention.
type Mode string

// Calling conventions.
const (
	ModeImmediate Mode = "immediate"
	ModeChain     Mode = "chain"
	ModeCan       Mode = "can"
)

// Manager runs registered commands against a view.
type Manager struct {
	view      View
	factories map[string]Factory
	names     []string

	state   *state.State
	config  Config
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Manager.
type Option func(*Manager)

// WithState runs commands against s instead of the view's committed state.
func WithState(s *state.State) Option {
	return func(m *Manager) {
		m.state = s
	}
}

// WithConfig sets the manager configuration.
func WithConfig(c Config) Option {
	return func(m *Manager) {
		m.config = c
	}
}

// WithLogger sets the manager's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithMetrics records command metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates a manager for view. The registry's current contents
// are copied; later registrations do not affect the manager.
func NewManager(view View, registry *Registry, opts ...Option) *Manager {
	m := &Manager{
		view:      view,
		factories: registry.snapshot(),
		config:    DefaultConfig(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.names = make([]string, 0, len(m.factories))
	for name := range m.factories {
		m.names = append(m.names, name)
	}
	sort.Strings(m.names)
	return m
}

// State returns the state commands run against.
func (m *Manager) State() *state.State {
	if m.state != nil {
		return m.state
	}
	return m.view.State()
}

// View returns the manager's view.
func (m *Manager) View() View {
	return m.view
}

// Names returns the registered command names, sorted.
func (m *Manager) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// CreateCommands returns every command as an immediate callable. Each
// call runs against a fresh transaction which is then dispatched, unless
// the body set state.MetaPreventDispatch. The dispatch happens whether
// the body succeeded or not.
func (m *Manager) CreateCommands() Commands {
	return bind(m, func(name string, f Factory) func(args ...any) bool {
		return func(args ...any) bool {
			tr := m.State().Tr()
			p := m.buildProps(tr, true, ModeImmediate)

			ok := m.invoke(p, name, f, args)
			m.commit(ModeImmediate, tr)
			return ok
		}
	})
}

func (m *Manager) factory(name string) Factory {
	f, ok := m.factories[name]
	if !ok {
		panic(fmt.Sprintf("%v: %q", ErrUnknownCommand, name))
	}
	return f
}

// invoke runs one command body against p.
func (m *Manager) invoke(p *Props, name string, f Factory, args []any) (ok bool) {
	start := time.Now()
	if m.config.RecoverFromPanic {
		defer func() {
			if r := recover(); r != nil {
				stack := make([]byte, 4096)
				n := runtime.Stack(stack, false)

				m.logger.Error("command panicked",
					"command", name,
					"mode", p.mode,
					"panic", r,
					"stack", string(stack[:n]),
				)
				m.metrics.recordPanic(name)
				m.metrics.recordInvocation(p.mode, name, false, time.Since(start))
				ok = false
			}
		}()
	}

	ok = f(args...)(p)
	m.metrics.recordInvocation(p.mode, name, ok, time.Since(start))
	return ok
}

// runBody runs an ad-hoc body against p.
func (m *Manager) runBody(p *Props, body Body) bool {
	return m.invoke(p, "command", func(...any) Body { return body }, nil)
}

// commit dispatches tr unless it carries the prevent-dispatch marker.
func (m *Manager) commit(mode Mode, tr *state.Transaction) {
	if tr.PreventsDispatch() {
		m.logger.Debug("dispatch prevented", "mode", mode, "tr", tr.ID())
		m.metrics.recordDispatch(mode, outcomePrevented)
		return
	}

	if err := m.view.Dispatch(tr); err != nil {
		m.logger.Warn("dispatch failed", "mode", mode, "tr", tr.ID(), "error", err)
		m.metrics.recordDispatch(mode, outcomeRejected)
		return
	}
	m.metrics.recordDispatch(mode, outcomeCommitted)
}
