package lua

import (
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/quill/internal/command"
	"github.com/dshills/quill/internal/state"
)

const (
	// CommandsGlobal is the global table a script fills with commands.
	CommandsGlobal = "commands"

	propsTypeName = "quill.props"
)

// LoadCommands runs code and registers every function in its commands
// table with r. It returns the registered names, sorted.
func (s *State) LoadCommands(code string, r *command.Registry) ([]string, error) {
	if err := s.DoString(code); err != nil {
		return nil, err
	}
	return s.registerCommands(r)
}

// LoadCommandsFile is like LoadCommands but reads the script from path.
func (s *State) LoadCommandsFile(path string, r *command.Registry) ([]string, error) {
	if err := s.DoFile(path); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	names, err := s.registerCommands(r)
	if err != nil {
		return names, fmt.Errorf("%s: %w", path, err)
	}
	return names, nil
}

// registerCommands registers the commands table and clears it so the
// next script starts from an empty table.
func (s *State) registerCommands(r *command.Registry) ([]string, error) {
	s.mu.Lock()
	tbl, ok := s.L.GetGlobal(CommandsGlobal).(*lua.LTable)
	fns := make(map[string]*lua.LFunction)
	var bad []string
	if ok {
		tbl.ForEach(func(k, v lua.LValue) {
			name := k.String()
			if fn, isFn := v.(*lua.LFunction); isFn {
				fns[name] = fn
			} else {
				bad = append(bad, name)
			}
		})
		s.L.SetGlobal(CommandsGlobal, lua.LNil)
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrNoCommands
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return nil, fmt.Errorf("%w: %s", ErrNotFunction, bad[0])
	}

	names := make([]string, 0, len(fns))
	for name := range fns {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		if err := r.Register(name, s.factory(name, fns[name])); err != nil {
			return names[:i], err
		}
	}
	s.logger.Debug("lua commands registered", "count", len(names))
	return names, nil
}

// factory returns a command factory that calls fn with a props handle
// followed by the command's arguments.
func (s *State) factory(name string, fn *lua.LFunction) command.Factory {
	return func(args ...any) command.Body {
		return func(p *command.Props) bool {
			ret, err := s.callCommand(fn, p, args)
			if err != nil {
				s.logger.Warn("lua command failed", "command", name, "mode", p.Mode(), "error", err)
				return false
			}
			return ret == lua.LTrue
		}
	}
}

func (s *State) callCommand(fn *lua.LFunction, p *command.Props, args []any) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil, ErrStateClosed
	}

	ud := s.L.NewUserData()
	ud.Value = p
	s.L.SetMetatable(ud, s.L.GetTypeMetatable(propsTypeName))
	defer func() {
		// The handle is only valid for the duration of the call.
		ud.Value = nil
	}()

	largs := make([]lua.LValue, 0, len(args)+1)
	largs = append(largs, ud)
	for _, a := range args {
		largs = append(largs, ToLuaValue(s.L, a))
	}

	return s.call(fn, largs)
}

// installProps registers the metatable for props handles.
func (s *State) installProps() {
	mt := s.L.NewTypeMetatable(propsTypeName)
	s.L.SetField(mt, "__index", s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"text":          propsText,
		"len":           propsLen,
		"selection":     propsSelection,
		"marks":         propsMarks,
		"mode":          propsMode,
		"can_dispatch":  propsCanDispatch,
		"insert":        propsInsert,
		"delete":        propsDelete,
		"replace":       propsReplace,
		"insert_text":   propsInsertText,
		"set_selection": propsSetSelection,
		"add_mark":      propsAddMark,
		"set_meta":      propsSetMeta,
		"call":          s.propsCall,
	}))
}

func checkProps(L *lua.LState) *command.Props {
	ud := L.CheckUserData(1)
	if p, ok := ud.Value.(*command.Props); ok {
		return p
	}
	L.ArgError(1, "props expected")
	return nil
}

func propsText(L *lua.LState) int {
	p := checkProps(L)
	L.Push(lua.LString(p.State.Doc().Text()))
	return 1
}

func propsLen(L *lua.LState) int {
	p := checkProps(L)
	L.Push(lua.LNumber(p.State.Doc().Len()))
	return 1
}

func propsSelection(L *lua.LState) int {
	sel := checkProps(L).State.Selection()
	L.Push(lua.LNumber(sel.Anchor))
	L.Push(lua.LNumber(sel.Head))
	return 2
}

func propsMarks(L *lua.LState) int {
	marks := checkProps(L).State.StoredMarks()
	t := L.NewTable()
	for i, m := range marks {
		t.RawSetInt(i+1, lua.LString(m.Type))
	}
	L.Push(t)
	return 1
}

func propsMode(L *lua.LState) int {
	L.Push(lua.LString(checkProps(L).Mode()))
	return 1
}

func propsCanDispatch(L *lua.LState) int {
	L.Push(lua.LBool(checkProps(L).CanDispatch()))
	return 1
}

// edit validates an edit against the transaction's document and applies
// it only when the props may dispatch.
func edit(L *lua.LState, p *command.Props, check func(state.Doc) error, apply func(*state.Transaction) error) int {
	err := check(p.Tr.Doc())
	if err == nil && p.CanDispatch() {
		err = apply(p.Tr)
	}
	if err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}

func propsInsert(L *lua.LState) int {
	p := checkProps(L)
	pos, text := L.CheckInt(2), L.CheckString(3)
	return edit(L, p,
		func(d state.Doc) error { return d.CheckPos(pos) },
		func(tr *state.Transaction) error { return tr.Insert(pos, text) },
	)
}

func propsDelete(L *lua.LState) int {
	p := checkProps(L)
	from, to := L.CheckInt(2), L.CheckInt(3)
	return edit(L, p,
		func(d state.Doc) error { return d.CheckRange(from, to) },
		func(tr *state.Transaction) error { return tr.Delete(from, to) },
	)
}

func propsReplace(L *lua.LState) int {
	p := checkProps(L)
	from, to, text := L.CheckInt(2), L.CheckInt(3), L.CheckString(4)
	return edit(L, p,
		func(d state.Doc) error { return d.CheckRange(from, to) },
		func(tr *state.Transaction) error { return tr.Replace(from, to, text) },
	)
}

func propsInsertText(L *lua.LState) int {
	p := checkProps(L)
	text := L.CheckString(2)
	return edit(L, p,
		func(state.Doc) error { return nil },
		func(tr *state.Transaction) error { return tr.InsertText(text) },
	)
}

func propsSetSelection(L *lua.LState) int {
	p := checkProps(L)
	anchor := L.CheckInt(2)
	head := L.OptInt(3, anchor)
	return edit(L, p,
		func(d state.Doc) error {
			if err := d.CheckPos(anchor); err != nil {
				return err
			}
			return d.CheckPos(head)
		},
		func(tr *state.Transaction) error {
			return tr.SetSelection(state.Selection{Anchor: anchor, Head: head})
		},
	)
}

func propsAddMark(L *lua.LState) int {
	p := checkProps(L)
	mark := state.Mark{Type: L.CheckString(2)}
	if attrs, ok := ToGoValue(L.Get(3)).(map[string]any); ok {
		mark.Attrs = attrs
	}
	return edit(L, p,
		func(state.Doc) error { return nil },
		func(tr *state.Transaction) error {
			tr.AddStoredMark(mark)
			return nil
		},
	)
}

// propsSetMeta sets metadata whether or not the props may dispatch, so
// a probe can observe a command's dispatch preference.
func propsSetMeta(L *lua.LState) int {
	p := checkProps(L)
	p.Tr.SetMeta(L.CheckString(2), ToGoValue(L.Get(3)))
	L.Push(lua.LTrue)
	return 1
}

// propsCall runs a registered command against the same props. The state
// lock is released while it runs so the command may itself be written
// in Lua.
func (s *State) propsCall(L *lua.LState) int {
	p := checkProps(L)
	name := L.CheckString(2)

	fn, ok := p.Commands().Get(name)
	if !ok {
		L.RaiseError("unknown command %q", name)
		return 0
	}

	args := make([]any, 0, L.GetTop())
	for i := 3; i <= L.GetTop(); i++ {
		args = append(args, ToGoValue(L.Get(i)))
	}

	var result bool
	s.yield(func() {
		result = fn(args...)
	})
	L.Push(lua.LBool(result))
	return 1
}
