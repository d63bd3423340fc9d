package script

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/dshills/quill/internal/command"
	"github.com/dshills/quill/internal/event"
	"github.com/dshills/quill/internal/logging"
	"github.com/dshills/quill/internal/state"
	"github.com/dshills/quill/internal/view"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Name    string
	Mode    Mode
	OK      bool
	Results []bool

	// Dispatched counts the transactions the view committed during the step.
	Dispatched int

	// Doc is the committed document after the step.
	Doc string
}

// Report is the outcome of a script run.
type Report struct {
	Steps     []StepResult
	Doc       string
	Selection state.Selection
	Marks     []state.Mark
	Version   uint64
}

// OK returns true if every step succeeded.
func (r *Report) OK() bool {
	for _, s := range r.Steps {
		if !s.OK {
			return false
		}
	}
	return true
}

// Write prints a human-readable report to w.
func (r *Report) Write(w io.Writer) error {
	var b strings.Builder
	for i, s := range r.Steps {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		fmt.Fprintf(&b, "%-20s %-10s %-5t results=%v dispatched=%d\n", name, s.Mode, s.OK, s.Results, s.Dispatched)
	}
	fmt.Fprintf(&b, "doc: %q\n", r.Doc)
	fmt.Fprintf(&b, "selection: %d-%d\n", r.Selection.Anchor, r.Selection.Head)
	if len(r.Marks) > 0 {
		types := make([]string, len(r.Marks))
		for i, m := range r.Marks {
			types[i] = m.Type
		}
		fmt.Fprintf(&b, "stored marks: %s\n", strings.Join(types, ", "))
	}
	fmt.Fprintf(&b, "version: %d\n", r.Version)

	_, err := io.WriteString(w, b.String())
	return err
}

// Runner executes scripts against a fresh view using the commands of a
// registry.
type Runner struct {
	registry *command.Registry
	config   command.Config
	logger   *slog.Logger
	metrics  *command.Metrics
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithCommandConfig sets the configuration of each run's command manager.
func WithCommandConfig(c command.Config) RunnerOption {
	return func(r *Runner) {
		r.config = c
	}
}

// WithLogger sets the runner's logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMetrics records command metrics for every run.
func WithMetrics(m *command.Metrics) RunnerOption {
	return func(r *Runner) {
		r.metrics = m
	}
}

// NewRunner creates a runner for the commands in registry.
func NewRunner(registry *command.Registry, opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: registry,
		config:   command.DefaultConfig(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes s. Every command name is checked against the registry
// before any step runs. ctx is checked between steps.
func (r *Runner) Run(ctx context.Context, s *Script) (*Report, error) {
	for _, name := range s.Names() {
		if !r.registry.Has(name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
		}
	}

	v := view.New(s.State(), view.WithLogger(r.logger))
	var dispatched atomic.Int64
	sub, err := v.Bus().Subscribe(view.TopicDispatched, func(event.Event) {
		dispatched.Add(1)
	})
	if err != nil {
		return nil, err
	}
	defer sub.Unsubscribe()

	m := command.NewManager(v, r.registry,
		command.WithConfig(r.config),
		command.WithLogger(r.logger),
		command.WithMetrics(r.metrics),
	)

	report := &Report{}
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		before := dispatched.Load()
		res := runStep(m, step)
		res.Dispatched = int(dispatched.Load() - before)
		res.Doc = v.State().Doc().Text()
		report.Steps = append(report.Steps, res)

		r.logger.Debug("script step",
			"step", i,
			"name", step.Name,
			"mode", step.Mode,
			"ok", res.OK,
			"dispatched", res.Dispatched,
		)
	}

	final := v.State()
	report.Doc = final.Doc().Text()
	report.Selection = final.Selection()
	report.Marks = final.StoredMarks()
	report.Version = final.Version()
	return report, nil
}

func runStep(m *command.Manager, step Step) StepResult {
	res := StepResult{Name: step.Name, Mode: step.Mode}

	switch step.Mode {
	case ModeChain:
		c := m.CreateChain(nil, true)
		for _, inv := range step.Commands {
			c.Cmd(inv.Name, inv.Args...)
		}
		res.OK = c.Run()
		res.Results = c.Results()
	case ModeCanChain:
		c := m.CreateCan(nil).Chain()
		for _, inv := range step.Commands {
			c.Cmd(inv.Name, inv.Args...)
		}
		res.OK = c.Run()
		res.Results = c.Results()
	case ModeCan:
		can := m.CreateCan(nil)
		res.Results = invokeEach(step.Commands, can.Call)
		res.OK = allTrue(res.Results)
	default:
		cmds := m.CreateCommands()
		res.Results = invokeEach(step.Commands, cmds.Call)
		res.OK = allTrue(res.Results)
	}
	return res
}

func invokeEach(invs []Invocation, call func(name string, args ...any) bool) []bool {
	results := make([]bool, 0, len(invs))
	for _, inv := range invs {
		results = append(results, call(inv.Name, inv.Args...))
	}
	return results
}

func allTrue(results []bool) bool {
	for _, ok := range results {
		if !ok {
			return false
		}
	}
	return true
}
