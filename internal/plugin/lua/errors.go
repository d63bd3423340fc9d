package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua: state is closed")

	// ErrExecutionTimeout is returned when execution exceeds the timeout.
	ErrExecutionTimeout = errors.New("lua: execution timeout")

	// ErrNoCommands is returned when a script does not define a commands table.
	ErrNoCommands = errors.New("lua: script defines no commands table")

	// ErrNotFunction is returned when a commands entry is not a function.
	ErrNotFunction = errors.New("lua: command is not a function")
)
