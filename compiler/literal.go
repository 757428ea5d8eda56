package compiler

import "github.com/sqlmongo/compiler/atom"

// stringLiteral builds a string atom.Data, used for the synthetic string
// constants the compiler emits itself (object keys, join-kind tokens,
// ORDER BY direction tokens) rather than ones carried over from user
// source literals.
func stringLiteral(s string) atom.Data { return atom.Str(s) }

// singleEmptyRowSet is the value a FROM-less SELECT evaluates its
// projection against: a one-element set containing an empty object, so
// the SELECT list runs exactly once.
func singleEmptyRowSet() atom.Data {
	return atom.SetOf(atom.NewSet(atom.ObjOf(atom.NewObj())))
}
