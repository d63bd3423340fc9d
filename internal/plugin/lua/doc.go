// Package lua lets editor commands be written in Lua.
//
// A command script assigns functions to a global commands table:
//
//	commands = {}
//
//	function commands.shout(p)
//	    local text = p:text()
//	    return p:replace(0, #text, string.upper(text))
//	end
//
// LoadCommands runs the script in a sandboxed State and registers every
// function in the table as a command factory. When the command is invoked
// the function receives a props handle followed by the caller's
// arguments. The command succeeds only if the function returns the
// boolean true; any other value, or a Lua error, counts as failure.
//
// # Props
//
// The props handle exposes the in-progress transaction:
//
//	p:text()                   document text as seen by this command
//	p:len()                    document length in bytes
//	p:selection()              anchor, head
//	p:marks()                  list of stored mark types
//	p:mode()                   "immediate", "chain" or "can"
//	p:can_dispatch()           true unless probing
//	p:insert(pos, text)        insert text at pos
//	p:delete(from, to)         delete [from, to)
//	p:replace(from, to, text)  replace [from, to) with text
//	p:insert_text(text)        replace the selection with text
//	p:set_selection(a, h)      set the selection
//	p:add_mark(type, attrs)    add a stored mark
//	p:set_meta(key, value)     set transaction metadata
//	p:call(name, ...)          run another command against the same props
//
// Editing methods validate their arguments and return true or false plus
// a message. They change the transaction only when p:can_dispatch() is
// true, so the same function answers probes without side effects.
//
// # Sandbox
//
// The io, os, debug and package loaders are not opened, and dofile,
// loadfile, load and loadstring are removed. require only resolves the
// string, table and math modules. Each call into Lua runs under an
// execution timeout.
package lua
