package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/dshills/quill/internal/command"
	"github.com/dshills/quill/internal/command/builtin"
	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/logging"
	luaplugin "github.com/dshills/quill/internal/plugin/lua"
	"github.com/dshills/quill/internal/script"
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "quill runs editor command scripts",
	Long: `quill executes YAML scripts of editor commands against an in-memory
document, in immediate, chain or probe mode. Commands are the built-ins
plus any defined in Lua scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "Configuration file (TOML or YAML)")
	flags.StringSlice("lua", nil, "Lua command script (repeatable, globs allowed)")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.Bool("recover", false, "Treat panicking commands as failed instead of crashing")
}

// app holds everything a subcommand needs.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	registry *command.Registry
	lua      *luaplugin.State
	metrics  *command.Metrics
	prom     *prometheus.Registry
}

// newApp loads configuration, applies flag overrides and registers the
// built-in and Lua commands.
func newApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		cfg = cfg.WithLogLevel(level)
	}
	if cmd.Flags().Changed("recover") {
		enabled, _ := cmd.Flags().GetBool("recover")
		cfg = cfg.WithRecoverFromPanic(enabled)
	}
	scripts, _ := cmd.Flags().GetStringSlice("lua")
	cfg = cfg.WithLuaScripts(scripts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logging.New(cfg.LogLevel()),
		registry: command.NewRegistry(),
		prom:     prometheus.NewRegistry(),
	}
	a.prom.MustRegister(collectors.NewGoCollector())

	if a.metrics, err = command.NewMetrics(a.prom); err != nil {
		return nil, err
	}
	if err := builtin.Register(a.registry); err != nil {
		return nil, err
	}
	if err := a.loadLua(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// loadLua registers the commands of every configured Lua script.
func (a *app) loadLua() error {
	var files []string
	for _, pattern := range a.cfg.Lua.Scripts {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("lua script pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err != nil {
				return fmt.Errorf("lua script %q: %w", pattern, err)
			}
			matches = []string{pattern}
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil
	}

	state, err := luaplugin.NewState(
		luaplugin.WithExecutionTimeout(a.cfg.Lua.Timeout),
		luaplugin.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	a.lua = state

	for _, file := range files {
		names, err := state.LoadCommandsFile(file, a.registry)
		if err != nil {
			return err
		}
		a.logger.Info("lua commands loaded", "file", file, "commands", names)
	}
	return nil
}

// runner returns a script runner wired to the app's commands.
func (a *app) runner() *script.Runner {
	return script.NewRunner(a.registry,
		script.WithCommandConfig(a.cfg.CommandConfig()),
		script.WithLogger(a.logger),
		script.WithMetrics(a.metrics),
	)
}

// Close releases the Lua state.
func (a *app) Close() {
	if a.lua != nil {
		_ = a.lua.Close()
	}
}
