package event

import "errors"

// Event errors.
var (
	// ErrInvalidTopic indicates an empty or malformed topic.
	ErrInvalidTopic = errors.New("event: invalid topic")

	// ErrNilHandler indicates a subscription without a handler.
	ErrNilHandler = errors.New("event: nil handler")
)
