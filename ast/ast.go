// Package ast stubs the inbound boundary of §6: the minimal interface an
// external SQL lexer/parser/semantic-analyzer must satisfy for the
// compiler package to lower its output into a LogicalPlan. No lexer,
// parser, or analyzer lives in this module (§1's explicit Non-goal); test
// fixtures build Tree/Node values by hand, the way the teacher's planner
// unit tests build query.Query values without going through its parser.
package ast

import "github.com/sqlmongo/compiler/atom"

// NodeKind enumerates the SQL surface the compiler lowers.
type NodeKind int

const (
	KindSelect NodeKind = iota
	KindBinop
	KindUnop
	KindIdent
	KindInvokeFunction
	KindLiteral
	KindMatch
	KindSwitch
	KindSplice
	KindSetLiteral
	KindArrayLiteral
	KindJoin
	KindFrom
	KindWhere
	KindGroupBy
	KindHaving
	KindOrderBy
	KindDistinct
	KindOffset
	KindLimit
)

func (k NodeKind) String() string {
	names := [...]string{
		"Select", "Binop", "Unop", "Ident", "InvokeFunction", "Literal",
		"Match", "Switch", "Splice", "SetLiteral", "ArrayLiteral", "Join",
		"From", "Where", "GroupBy", "Having", "OrderBy", "Distinct",
		"Offset", "Limit",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "<invalid node kind>"
}

// Node is one node of an annotated SQL AST. The core never constructs
// Nodes itself; it only ever reads them through Tree.Attr.
type Node interface {
	Kind() NodeKind
}

// Tree exposes semantic annotations for each node of an already-parsed,
// already-analyzed SQL statement.
type Tree interface {
	Attr(n Node) Attr
	Root() Node
}

// CatalogFunction is the minimal surface compiler needs from a resolved
// function binding; catalog.Function satisfies it without ast importing
// catalog (which would create a cycle, since catalog does not need ast at
// all — only compiler sits between them).
type CatalogFunction interface {
	FuncName() string
}

// Attr is the semantic-analysis payload attached to one Node.
type Attr struct {
	Synthetic  bool
	Provenance []string
	Type       atom.Type
	Func       CatalogFunction
}
