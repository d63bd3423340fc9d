// Package builtin provides generic commands that every editor registers:
// text insertion and deletion, selection, metadata and stored marks, plus
// the combinators first and command.
//
// Each command comes in two forms. The typed constructors (InsertText,
// DeleteRange, ...) return a command.Body for Go callers. The factories
// returned by Factories accept loosely typed arguments, as produced by
// YAML scripts or Lua, and coerce them.
//
// Commands only touch the transaction when Props.Dispatch is non-nil, so
// they can be probed safely.
package builtin
