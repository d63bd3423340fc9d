package command

// Config holds manager configuration options.
type Config struct {
	// RecoverFromPanic wraps every command body in panic recovery. A
	// recovered panic is logged and the body counts as having returned
	// false. When disabled, panics propagate to the caller.
	RecoverFromPanic bool
}

// DefaultConfig returns the default configuration. Panics propagate.
func DefaultConfig() Config {
	return Config{
		RecoverFromPanic: false,
	}
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}
