package builtin

import (
	"github.com/dshills/quill/internal/command"
	"github.com/dshills/quill/internal/state"
)

// Names of the built-in commands.
const (
	NameInsertText      = "insertText"
	NameInsertAt        = "insertAt"
	NameDeleteRange     = "deleteRange"
	NameDeleteSelection = "deleteSelection"
	NameSetSelection    = "setSelection"
	NameSetMeta         = "setMeta"
	NameSetStoredMark   = "setStoredMark"
	NameUnsetStoredMark = "unsetStoredMark"
	NameClearStoredMark = "clearStoredMarks"
	NameFirst           = "first"
	NameCommand         = "command"
)

// Register adds every built-in command to r.
func Register(r *command.Registry) error {
	return r.RegisterAll(Factories())
}

// Factories returns the built-in command factories keyed by name.
func Factories() map[string]command.Factory {
	return map[string]command.Factory{
		NameInsertText: func(args ...any) command.Body {
			text, ok := stringArg(args, 0)
			if !ok {
				return fail
			}
			return InsertText(text)
		},
		NameInsertAt: func(args ...any) command.Body {
			pos, ok := intArg(args, 0)
			text, ok2 := stringArg(args, 1)
			if !ok || !ok2 {
				return fail
			}
			return InsertAt(pos, text)
		},
		NameDeleteRange: func(args ...any) command.Body {
			from, ok := intArg(args, 0)
			to, ok2 := intArg(args, 1)
			if !ok || !ok2 {
				return fail
			}
			return DeleteRange(from, to)
		},
		NameDeleteSelection: func(args ...any) command.Body {
			return DeleteSelection()
		},
		NameSetSelection: func(args ...any) command.Body {
			anchor, ok := intArg(args, 0)
			if !ok {
				return fail
			}
			head, ok := intArg(args, 1)
			if !ok {
				head = anchor
			}
			return SetSelection(state.Selection{Anchor: anchor, Head: head})
		},
		NameSetMeta: func(args ...any) command.Body {
			key, ok := stringArg(args, 0)
			if !ok || key == "" {
				return fail
			}
			var value any = true
			if len(args) > 1 {
				value = args[1]
			}
			return SetMeta(key, value)
		},
		NameSetStoredMark: func(args ...any) command.Body {
			mark, ok := markArg(args, 0)
			if !ok {
				return fail
			}
			return SetStoredMark(mark)
		},
		NameUnsetStoredMark: func(args ...any) command.Body {
			markType, ok := stringArg(args, 0)
			if !ok {
				return fail
			}
			return UnsetStoredMark(markType)
		},
		NameClearStoredMark: func(args ...any) command.Body {
			return ClearStoredMarks()
		},
		NameFirst: func(args ...any) command.Body {
			return First(args...)
		},
		NameCommand: func(args ...any) command.Body {
			if len(args) == 0 {
				return fail
			}
			body, ok := args[0].(command.Body)
			if !ok {
				fn, isFunc := args[0].(func(*command.Props) bool)
				if !isFunc {
					return fail
				}
				body = fn
			}
			return body
		},
	}
}

func fail(*command.Props) bool {
	return false
}

// InsertText replaces the selection with text.
func InsertText(text string) command.Body {
	return func(p *command.Props) bool {
		if p.Dispatch == nil {
			return true
		}
		return p.Tr.InsertText(text) == nil
	}
}

// InsertAt inserts text at pos.
func InsertAt(pos int, text string) command.Body {
	return func(p *command.Props) bool {
		if err := p.State.Doc().CheckPos(pos); err != nil {
			return false
		}
		if p.Dispatch == nil {
			return true
		}
		return p.Tr.Insert(pos, text) == nil
	}
}

// DeleteRange removes [from, to).
func DeleteRange(from, to int) command.Body {
	return func(p *command.Props) bool {
		if err := p.State.Doc().CheckRange(from, to); err != nil {
			return false
		}
		if p.Dispatch == nil {
			return true
		}
		return p.Tr.Delete(from, to) == nil
	}
}

// DeleteSelection removes the selected text. It fails on an empty selection.
func DeleteSelection() command.Body {
	return func(p *command.Props) bool {
		sel := p.State.Selection()
		if sel.Empty() {
			return false
		}
		if p.Dispatch == nil {
			return true
		}
		return p.Tr.Delete(sel.From(), sel.To()) == nil
	}
}

// SetSelection replaces the selection.
func SetSelection(sel state.Selection) command.Body {
	return func(p *command.Props) bool {
		doc := p.State.Doc()
		if doc.CheckPos(sel.Anchor) != nil || doc.CheckPos(sel.Head) != nil {
			return false
		}
		if p.Dispatch == nil {
			return true
		}
		return p.Tr.SetSelection(sel) == nil
	}
}

// SetMeta stores a metadata value on the transaction. Metadata does not
// change the document, so it is set even when probing.
func SetMeta(key string, value any) command.Body {
	return func(p *command.Props) bool {
		p.Tr.SetMeta(key, value)
		return true
	}
}

// SetStoredMark adds mark to the stored marks.
func SetStoredMark(mark state.Mark) command.Body {
	return func(p *command.Props) bool {
		if p.Dispatch != nil {
			p.Tr.AddStoredMark(mark)
		}
		return true
	}
}

// UnsetStoredMark removes stored marks of markType.
func UnsetStoredMark(markType string) command.Body {
	return func(p *command.Props) bool {
		if p.Dispatch != nil {
			p.Tr.RemoveStoredMark(markType)
		}
		return true
	}
}

// ClearStoredMarks removes every stored mark.
func ClearStoredMarks() command.Body {
	return func(p *command.Props) bool {
		if p.Dispatch != nil {
			p.Tr.SetStoredMarks(nil)
		}
		return true
	}
}

// First runs candidates in order against the same props and stops at
// the first one that returns true. A candidate is a command.Body, a
// command name, or a []any holding a name followed by its arguments.
// Unusable candidates count as failures.
func First(candidates ...any) command.Body {
	return func(p *command.Props) bool {
		var cmds *command.Commands
		for _, c := range candidates {
			switch v := c.(type) {
			case command.Body:
				if v(p) {
					return true
				}
			case func(*command.Props) bool:
				if v(p) {
					return true
				}
			case string:
				if cmds == nil {
					all := p.Commands()
					cmds = &all
				}
				if fn, ok := cmds.Get(v); ok && fn() {
					return true
				}
			case []any:
				if len(v) == 0 {
					continue
				}
				name, ok := v[0].(string)
				if !ok {
					continue
				}
				if cmds == nil {
					all := p.Commands()
					cmds = &all
				}
				if fn, ok := cmds.Get(name); ok && fn(v[1:]...) {
					return true
				}
			}
		}
		return false
	}
}
