package builtin

import (
	"github.com/mitchellh/mapstructure"

	"github.com/dshills/quill/internal/state"
)

// intArg coerces args[i] to an int.
func intArg(args []any, i int) (int, bool) {
	if i >= len(args) || args[i] == nil {
		return 0, false
	}
	var n int
	if err := mapstructure.WeakDecode(args[i], &n); err != nil {
		return 0, false
	}
	return n, true
}

// stringArg returns args[i] if it is a string.
func stringArg(args []any, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	s, ok := args[i].(string)
	return s, ok
}

// markArg coerces args[i] to a mark. Strings become marks without
// attributes; maps are decoded field by field.
func markArg(args []any, i int) (state.Mark, bool) {
	if i >= len(args) {
		return state.Mark{}, false
	}
	switch v := args[i].(type) {
	case state.Mark:
		return v, true
	case string:
		return state.Mark{Type: v}, v != ""
	case nil:
		return state.Mark{}, false
	}

	var m state.Mark
	if err := mapstructure.Decode(args[i], &m); err != nil || m.Type == "" {
		return state.Mark{}, false
	}
	return m, true
}
