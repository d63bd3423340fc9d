package command

import "fmt"

// Table is a fixed mapping from command name to a callable bound to one
// calling convention. It is built once from the registry and never
// changes afterwards.
type Table[R any] struct {
	fns   map[string]func(args ...any) R
	names []string
}

// Commands maps names to callables that return the body's result.
type Commands = Table[bool]

// ChainCommands maps names to fluent chain steps.
type ChainCommands = Table[*Chain]

// Call invokes the command registered under name. Calling an
// unregistered name is a programming error and panics.
func (t Table[R]) Call(name string, args ...any) R {
	fn, ok := t.fns[name]
	if !ok {
		panic(fmt.Sprintf("%v: %q", ErrUnknownCommand, name))
	}
	return fn(args...)
}

// Get returns the callable registered under name.
func (t Table[R]) Get(name string) (func(args ...any) R, bool) {
	fn, ok := t.fns[name]
	return fn, ok
}

// Has returns true if name is in the table.
func (t Table[R]) Has(name string) bool {
	_, ok := t.fns[name]
	return ok
}

// Names returns the command names, sorted.
func (t Table[R]) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Len returns the number of commands.
func (t Table[R]) Len() int {
	return len(t.fns)
}

// bind wraps every registered factory with wrap.
func bind[R any](m *Manager, wrap func(name string, f Factory) func(args ...any) R) Table[R] {
	fns := make(map[string]func(args ...any) R, len(m.factories))
	for _, name := range m.names {
		fns[name] = wrap(name, m.factories[name])
	}
	return Table[R]{fns: fns, names: m.names}
}
