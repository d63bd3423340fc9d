package script

import "errors"

// Errors returned by script operations.
var (
	// ErrInvalidScript indicates a script that fails validation.
	ErrInvalidScript = errors.New("script: invalid script")

	// ErrUnknownCommand indicates a step names an unregistered command.
	ErrUnknownCommand = errors.New("script: unknown command")
)
