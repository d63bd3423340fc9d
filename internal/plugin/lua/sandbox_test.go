package lua

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/logging"
)

func TestSandboxRemovesUnsafeGlobals(t *testing.T) {
	s := newTestState(t)

	for _, name := range []string{"io", "os", "debug", "dofile", "loadfile", "load", "loadstring"} {
		assert.Equal(t, lua.LNil, s.GetGlobal(name), name)
	}
	for _, name := range []string{"string", "table", "math", "pairs", "pcall"} {
		assert.NotEqual(t, lua.LNil, s.GetGlobal(name), name)
	}
}

func TestSandboxRequire(t *testing.T) {
	s := newTestState(t)

	require.NoError(t, s.DoString(`local str = require("string"); assert(str.upper("a") == "A")`))

	tests := []string{"os", "io", "debug", "socket", "../secret"}
	for _, mod := range tests {
		t.Run(mod, func(t *testing.T) {
			err := s.DoString(`require("` + mod + `")`)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "is not available")
		})
	}
}

func TestPrintGoesToLogger(t *testing.T) {
	var buf bytes.Buffer
	s := newTestState(t, WithLogger(logging.NewWithWriter(&buf, slog.LevelDebug)))

	require.NoError(t, s.DoString(`print("hello", 42)`))

	assert.Contains(t, buf.String(), "lua print")
	assert.Contains(t, buf.String(), "hello")
}

func TestCallFunction(t *testing.T) {
	s := newTestState(t)
	require.NoError(t, s.DoString(`function add(a, b) return a + b end`))

	fn, ok := s.GetGlobal("add").(*lua.LFunction)
	require.True(t, ok)

	ret, err := s.CallFunction(fn, lua.LNumber(2), lua.LNumber(3))
	require.NoError(t, err)
	assert.Equal(t, lua.LNumber(5), ret)

	require.NoError(t, s.Close())
	_, err = s.CallFunction(fn)
	assert.ErrorIs(t, err, ErrStateClosed)
}
