// Package config loads quill configuration.
//
// Configuration is read from an optional TOML or YAML file, decoded over
// DefaultConfig, and then overlaid with QUILL_ environment variables:
//
//	[log]
//	level = "debug"
//
//	[dispatch]
//	recover_from_panic = true
//
//	[lua]
//	scripts = ["commands/*.lua"]
//	timeout = "2s"
//
//	[metrics]
//	addr = ":9090"
//
// The equivalent environment variables are QUILL_LOG_LEVEL,
// QUILL_DISPATCH_RECOVER_FROM_PANIC, QUILL_LUA_SCRIPTS (comma separated),
// QUILL_LUA_TIMEOUT and QUILL_METRICS_ADDR.
package config
