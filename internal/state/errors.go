package state

import "errors"

// State errors.
var (
	// ErrPositionOutOfRange indicates a position outside the document.
	ErrPositionOutOfRange = errors.New("state: position out of range")

	// ErrInvalidRange indicates a range whose start is after its end.
	ErrInvalidRange = errors.New("state: invalid range")

	// ErrNotRuneBoundary indicates a position inside a multi-byte character.
	ErrNotRuneBoundary = errors.New("state: position is not on a character boundary")

	// ErrStepFailed indicates a step could not be applied.
	ErrStepFailed = errors.New("state: step failed")

	// ErrStaleTransaction indicates a transaction built against a different state.
	ErrStaleTransaction = errors.New("state: transaction does not match state")
)
