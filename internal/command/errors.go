package command

import "errors"

// Command errors.
var (
	// ErrInvalidName indicates an empty command name.
	ErrInvalidName = errors.New("command: invalid command name")

	// ErrNilFactory indicates a nil command factory.
	ErrNilFactory = errors.New("command: nil factory")

	// ErrDuplicateCommand indicates a command name that is already registered.
	ErrDuplicateCommand = errors.New("command: duplicate command")

	// ErrUnknownCommand indicates a command name that is not registered.
	ErrUnknownCommand = errors.New("command: unknown command")
)
