package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/quill/internal/command"
	"github.com/dshills/quill/internal/logging"
)

// Config is the complete quill configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log" envPrefix:"LOG_"`
	Dispatch DispatchConfig `mapstructure:"dispatch" envPrefix:"DISPATCH_"`
	Lua      LuaConfig      `mapstructure:"lua" envPrefix:"LUA_"`
	Metrics  MetricsConfig  `mapstructure:"metrics" envPrefix:"METRICS_"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `mapstructure:"level" env:"LEVEL"`
}

// DispatchConfig configures command dispatch.
type DispatchConfig struct {
	// RecoverFromPanic turns a panicking command into a failed one.
	RecoverFromPanic bool `mapstructure:"recover_from_panic" env:"RECOVER_FROM_PANIC"`
}

// LuaConfig configures Lua command scripts.
type LuaConfig struct {
	// Scripts lists Lua files (or glob patterns) to load commands from.
	Scripts []string `mapstructure:"scripts" env:"SCRIPTS" envSeparator:","`

	// Timeout bounds each call into Lua. Zero disables it.
	Timeout time.Duration `mapstructure:"timeout" env:"TIMEOUT"`
}

// MetricsConfig configures the metrics endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics. Empty disables it.
	Addr string `mapstructure:"addr" env:"ADDR"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level: "info",
		},
		Dispatch: DispatchConfig{
			RecoverFromPanic: false,
		},
		Lua: LuaConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// WithLogLevel returns a copy with the log level set.
func (c Config) WithLogLevel(level string) Config {
	c.Log.Level = level
	return c
}

// WithRecoverFromPanic returns a copy with panic recovery set.
func (c Config) WithRecoverFromPanic(enabled bool) Config {
	c.Dispatch.RecoverFromPanic = enabled
	return c
}

// WithLuaScripts returns a copy with additional Lua scripts.
func (c Config) WithLuaScripts(scripts ...string) Config {
	c.Lua.Scripts = append(append([]string(nil), c.Lua.Scripts...), scripts...)
	return c
}

// WithMetricsAddr returns a copy with the metrics address set.
func (c Config) WithMetricsAddr(addr string) Config {
	c.Metrics.Addr = addr
	return c
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	if c.Lua.Timeout < 0 {
		return fmt.Errorf("%w: lua.timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LogLevel returns the parsed log level, or info if it is invalid.
func (c Config) LogLevel() slog.Level {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// CommandConfig returns the command manager configuration.
func (c Config) CommandConfig() command.Config {
	return command.DefaultConfig().WithPanicRecovery(c.Dispatch.RecoverFromPanic)
}
