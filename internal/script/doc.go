// Package script runs editor command scripts.
//
// A script is a YAML document describing a starting document and a list
// of steps, each of which invokes commands in one calling convention:
//
//	doc: "hello"
//	stored_marks:
//	  - type: bold
//	steps:
//	  - name: probe first
//	    mode: can
//	    commands:
//	      - name: deleteSelection
//	  - mode: chain
//	    commands:
//	      - name: insertAt
//	        args: [5, " world"]
//	      - name: setSelection
//	        args: [0, 5]
//
// Modes are immediate (one dispatch per command), chain (one transaction
// dispatched by Run), can (probe each command) and can-chain (probe the
// commands as one chain).
package script
