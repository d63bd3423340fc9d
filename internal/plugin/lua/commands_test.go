package lua

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/command"
	"github.com/dshills/quill/internal/command/builtin"
	"github.com/dshills/quill/internal/logging"
	"github.com/dshills/quill/internal/state"
	"github.com/dshills/quill/internal/view"
)

const testCommands = `
commands = {}

function commands.shout(p)
    local text = p:text()
    return p:replace(0, #text, string.upper(text))
end

function commands.insert_at(p, pos, text)
    return p:insert(pos, text)
end

function commands.greet(p, name)
    return p:call("insertText", "hello " .. name)
end

function commands.greet_twice(p)
    local a = p:call("greet", "a")
    local b = p:call("greet", "b")
    return a and b
end

function commands.returns_one(p) return 1 end
function commands.returns_string(p) return "yes" end
function commands.returns_nothing(p) end
function commands.returns_true(p) return true end

function commands.explode(p)
    error("boom")
end

function commands.quiet(p)
    p:set_meta("preventDispatch", true)
    return p:insert(0, "quiet")
end

function commands.expect(p, mode, dispatch, pos)
    local anchor, head = p:selection()
    return p:mode() == mode and p:can_dispatch() == dispatch and anchor == pos and head == pos
end
`

func newTestState(t *testing.T, opts ...StateOption) *State {
	t.Helper()
	s, err := NewState(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func setup(t *testing.T, doc string) (*command.Manager, *view.View) {
	t.Helper()
	reg := command.NewRegistry()
	require.NoError(t, builtin.Register(reg))

	s := newTestState(t)
	_, err := s.LoadCommands(testCommands, reg)
	require.NoError(t, err)

	v := view.New(state.New(state.NewDoc(doc)))
	return command.NewManager(v, reg), v
}

func TestLoadCommandsRegistersSorted(t *testing.T) {
	reg := command.NewRegistry()
	s := newTestState(t)

	names, err := s.LoadCommands(`
commands = {}
function commands.b(p) return true end
function commands.a(p) return true end
`, reg)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, names)
	assert.True(t, reg.Has("a"))
	assert.True(t, reg.Has("b"))
	assert.Equal(t, lua.LNil, s.GetGlobal(CommandsGlobal))
}

func TestLoadCommandsErrors(t *testing.T) {
	reg := command.NewRegistry()
	s := newTestState(t)

	_, err := s.LoadCommands(`x = 1`, reg)
	assert.ErrorIs(t, err, ErrNoCommands)

	_, err = s.LoadCommands(`commands = { bad = 42 }`, reg)
	assert.ErrorIs(t, err, ErrNotFunction)

	_, err = s.LoadCommands(`this is not lua`, reg)
	assert.Error(t, err)

	require.NoError(t, reg.Register("taken", func(...any) command.Body { return nil }))
	_, err = s.LoadCommands(`commands = { taken = function(p) return true end }`, reg)
	assert.ErrorIs(t, err, command.ErrDuplicateCommand)
}

func TestLuaCommandEditsDocument(t *testing.T) {
	m, v := setup(t, "hello")
	cmds := m.CreateCommands()

	assert.True(t, cmds.Call("shout"))
	assert.Equal(t, "HELLO", v.State().Doc().Text())

	assert.True(t, cmds.Call("insert_at", 5, "!"))
	assert.Equal(t, "HELLO!", v.State().Doc().Text())

	assert.False(t, cmds.Call("insert_at", 99, "!"))
	assert.Equal(t, "HELLO!", v.State().Doc().Text())
}

func TestOnlyBooleanTrueSucceeds(t *testing.T) {
	m, _ := setup(t, "")
	cmds := m.CreateCommands()

	assert.True(t, cmds.Call("returns_true"))
	assert.False(t, cmds.Call("returns_one"))
	assert.False(t, cmds.Call("returns_string"))
	assert.False(t, cmds.Call("returns_nothing"))
}

func TestLuaErrorYieldsFalse(t *testing.T) {
	var buf bytes.Buffer
	reg := command.NewRegistry()
	s := newTestState(t, WithLogger(logging.NewWithWriter(&buf, slog.LevelDebug)))
	_, err := s.LoadCommands(testCommands, reg)
	require.NoError(t, err)

	v := view.New(state.New(state.NewDoc("abc")))
	m := command.NewManager(v, reg)

	assert.False(t, m.CreateCommands().Call("explode"))
	assert.Equal(t, "abc", v.State().Doc().Text())
	assert.Contains(t, buf.String(), "lua command failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestLuaCommandInChain(t *testing.T) {
	m, v := setup(t, "ab")

	ok := m.CreateChain(nil, true).
		Cmd("insert_at", 2, "c").
		Cmd("shout").
		Run()

	assert.True(t, ok)
	assert.Equal(t, "ABC", v.State().Doc().Text())
}

func TestLuaCommandProbeDoesNotEdit(t *testing.T) {
	m, v := setup(t, "hello")
	can := m.CreateCan(nil)

	assert.True(t, can.Call("shout"))
	assert.True(t, can.Call("insert_at", 0, "x"))
	assert.False(t, can.Call("insert_at", 99, "x"))

	assert.False(t, can.Transaction().DocChanged())
	assert.Equal(t, "hello", v.State().Doc().Text())
}

func TestNestedCalls(t *testing.T) {
	m, v := setup(t, "")

	assert.True(t, m.CreateCommands().Call("greet_twice"))
	assert.Equal(t, "hello ahello b", v.State().Doc().Text())
}

func TestUnknownNestedCommandFails(t *testing.T) {
	reg := command.NewRegistry()
	s := newTestState(t)
	_, err := s.LoadCommands(`
commands = {}
function commands.missing(p) return p:call("nope") end
`, reg)
	require.NoError(t, err)

	m := command.NewManager(view.New(state.New(state.NewDoc(""))), reg)
	assert.False(t, m.CreateCommands().Call("missing"))
}

func TestPreventDispatchFromLua(t *testing.T) {
	m, v := setup(t, "")

	assert.True(t, m.CreateCommands().Call("quiet"))
	assert.Equal(t, "", v.State().Doc().Text())
	assert.Equal(t, uint64(0), v.State().Version())
}

func TestPropsIntrospection(t *testing.T) {
	m, _ := setup(t, "abc")

	assert.True(t, m.CreateCommands().Call("expect", "immediate", true, 3))
	assert.True(t, m.CreateCan(nil).Call("expect", "can", false, 3))
	assert.True(t, m.CreateChain(nil, true).Cmd("expect", "chain", true, 3).Run())
	assert.False(t, m.CreateCommands().Call("expect", "can", true, 3))
}

func TestClosedStateFailsCommands(t *testing.T) {
	m, v := setup(t, "x")
	reg := command.NewRegistry()
	s, err := NewState()
	require.NoError(t, err)
	_, err = s.LoadCommands(`commands = { ok = function(p) return true end }`, reg)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.True(t, s.IsClosed())

	closed := command.NewManager(v, reg)
	assert.False(t, closed.CreateCommands().Call("ok"))
	assert.ErrorIs(t, s.DoString(`x = 1`), ErrStateClosed)

	assert.True(t, m.CreateCommands().Call("returns_true"))
}

func TestExecutionTimeout(t *testing.T) {
	s := newTestState(t, WithExecutionTimeout(50*time.Millisecond))

	err := s.DoString(`while true do end`)
	assert.ErrorIs(t, err, ErrExecutionTimeout)
}
