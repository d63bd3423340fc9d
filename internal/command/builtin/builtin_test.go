package builtin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/quill/internal/command"
	"github.com/dshills/quill/internal/command/builtin"
	"github.com/dshills/quill/internal/state"
	"github.com/dshills/quill/internal/view"
)

func setup(t *testing.T, s *state.State) (*command.Manager, *view.View) {
	t.Helper()
	reg := command.NewRegistry()
	require.NoError(t, builtin.Register(reg))
	v := view.New(s)
	return command.NewManager(v, reg), v
}

func TestRegisterNames(t *testing.T) {
	reg := command.NewRegistry()
	require.NoError(t, builtin.Register(reg))

	assert.Equal(t, len(builtin.Factories()), reg.Count())
	assert.True(t, reg.Has(builtin.NameInsertText))
	assert.ErrorIs(t, builtin.Register(reg), command.ErrDuplicateCommand)
}

func TestLooselyTypedArguments(t *testing.T) {
	m, v := setup(t, state.New(state.NewDoc("hello")))
	cmds := m.CreateCommands()

	assert.True(t, cmds.Call(builtin.NameInsertAt, 5.0, "!"))
	assert.True(t, cmds.Call(builtin.NameDeleteRange, "0", int64(1)))
	assert.False(t, cmds.Call(builtin.NameInsertAt, "x", "!"))
	assert.False(t, cmds.Call(builtin.NameInsertText, 42))
	assert.False(t, cmds.Call(builtin.NameDeleteRange, 1))

	assert.Equal(t, "ello!", v.State().Doc().Text())
}

func TestSelectionCommands(t *testing.T) {
	m, v := setup(t, state.New(state.NewDoc("hello world")))
	cmds := m.CreateCommands()

	assert.False(t, cmds.Call(builtin.NameDeleteSelection))
	assert.True(t, cmds.Call(builtin.NameSetSelection, 5, 11))
	assert.Equal(t, state.Selection{Anchor: 5, Head: 11}, v.State().Selection())

	assert.True(t, cmds.Call(builtin.NameDeleteSelection))
	assert.Equal(t, "hello", v.State().Doc().Text())

	assert.True(t, cmds.Call(builtin.NameSetSelection, 2))
	assert.Equal(t, state.Cursor(2), v.State().Selection())
	assert.False(t, cmds.Call(builtin.NameSetSelection, 99))
}

func TestStoredMarkCommands(t *testing.T) {
	m, v := setup(t, state.New(state.NewDoc("")))
	cmds := m.CreateCommands()

	assert.True(t, cmds.Call(builtin.NameSetStoredMark, "bold"))
	assert.True(t, cmds.Call(builtin.NameSetStoredMark, map[string]any{
		"type":  "link",
		"attrs": map[string]any{"href": "https://example.com"},
	}))
	assert.False(t, cmds.Call(builtin.NameSetStoredMark, map[string]any{"attrs": nil}))

	marks := v.State().StoredMarks()
	require.Len(t, marks, 2)
	assert.Equal(t, "link", marks[1].Type)
	assert.Equal(t, "https://example.com", marks[1].Attrs["href"])

	assert.True(t, cmds.Call(builtin.NameUnsetStoredMark, "bold"))
	assert.Len(t, v.State().StoredMarks(), 1)

	assert.True(t, cmds.Call(builtin.NameClearStoredMark))
	assert.False(t, v.State().HasStoredMarks())
}

func TestProbedCommandsLeaveTransactionUntouched(t *testing.T) {
	m, _ := setup(t, state.New(state.NewDoc("abc")))
	can := m.CreateCan(nil)

	assert.True(t, can.Call(builtin.NameInsertText, "x"))
	assert.True(t, can.Call(builtin.NameInsertAt, 1, "x"))
	assert.True(t, can.Call(builtin.NameDeleteRange, 0, 2))
	assert.True(t, can.Call(builtin.NameSetSelection, 0, 1))
	assert.True(t, can.Call(builtin.NameSetStoredMark, "bold"))

	tr := can.Transaction()
	assert.False(t, tr.DocChanged())
	assert.False(t, tr.SelectionSet())
	assert.False(t, tr.StoredMarksSet())
}

func TestCommandBuiltin(t *testing.T) {
	m, v := setup(t, state.New(state.NewDoc("")))
	cmds := m.CreateCommands()

	body := command.Body(func(p *command.Props) bool {
		return p.Tr.Insert(0, "body") == nil
	})
	assert.True(t, cmds.Call(builtin.NameCommand, body))
	assert.True(t, cmds.Call(builtin.NameCommand, func(p *command.Props) bool { return true }))
	assert.False(t, cmds.Call(builtin.NameCommand))
	assert.False(t, cmds.Call(builtin.NameCommand, "not a body"))

	assert.Equal(t, "body", v.State().Doc().Text())
}

func TestFirstWithBodies(t *testing.T) {
	m, v := setup(t, state.New(state.NewDoc("")))

	ok := m.CreateChain(nil, true).
		Cmd(builtin.NameFirst,
			builtin.DeleteSelection(),
			builtin.InsertText("fallback"),
			builtin.InsertText("never"),
		).
		Run()

	assert.True(t, ok)
	assert.Equal(t, "fallback", v.State().Doc().Text())
}
