package ast

import "github.com/sqlmongo/compiler/atom"

// This file provides concrete Node implementations test fixtures build by
// hand (grounded on how the teacher's planner unit tests construct
// query.Query values directly rather than through its lexer/parser). No
// lexer or parser uses these constructors; an external analyzer producing
// real annotated trees would populate the same shapes.

type Ident struct{ Name string }

func (Ident) Kind() NodeKind { return KindIdent }

type Literal struct{ Value atom.Data }

func (Literal) Kind() NodeKind { return KindLiteral }

type Binop struct {
	Op       string
	Lhs, Rhs Node
}

func (Binop) Kind() NodeKind { return KindBinop }

type Unop struct {
	Op  string
	Arg Node
}

func (Unop) Kind() NodeKind { return KindUnop }

type InvokeFunction struct {
	Name string
	Args []Node
}

func (InvokeFunction) Kind() NodeKind { return KindInvokeFunction }

type Splice struct{ Target Node }

func (Splice) Kind() NodeKind { return KindSplice }

type SetLiteral struct{ Elems []Node }

func (SetLiteral) Kind() NodeKind { return KindSetLiteral }

type ArrayLiteral struct{ Elems []Node }

func (ArrayLiteral) Kind() NodeKind { return KindArrayLiteral }

type MatchCase struct {
	When Node
	Then Node
}

type Match struct {
	Subject Node
	Cases   []MatchCase
	Default Node
}

func (Match) Kind() NodeKind { return KindMatch }

type SwitchCase struct {
	Cond Node
	Then Node
}

type Switch struct {
	Cases   []SwitchCase
	Default Node
}

func (Switch) Kind() NodeKind { return KindSwitch }

// JoinKind enumerates the four join flavors §4.D's FROM step lowers.
type JoinKind int

const (
	Inner JoinKind = iota
	LeftOuter
	RightOuter
	FullOuter
)

func (k JoinKind) String() string {
	switch k {
	case LeftOuter:
		return "LeftOuter"
	case RightOuter:
		return "RightOuter"
	case FullOuter:
		return "FullOuter"
	default:
		return "Inner"
	}
}

type Join struct {
	JoinKind    JoinKind
	Left, Right Node
	On          Node
}

func (Join) Kind() NodeKind { return KindJoin }

// TableRef names a table/collection relation, the leaf of a FROM clause.
type TableRef struct {
	Name  string
	Alias string
}

func (TableRef) Kind() NodeKind { return KindFrom }

// Projection is one SELECT-list entry: either a named expression or an
// unnamed splice (IsSplice true, Name ignored) that merges via
// ObjectConcat (§4.D step 5).
type Projection struct {
	Name     string
	Expr     Node
	IsSplice bool
	Synthetic bool
}

// OrderKey is one ORDER BY entry.
type OrderKey struct {
	Expr Node
	Desc bool
}

// DistinctMode selects §4.D step 8's behavior.
type DistinctMode int

const (
	NoDistinct DistinctMode = iota
	Distinct
	DistinctBy
)

type Select struct {
	From        Node // TableRef or Join, or nil for a FROM-less select
	Where       Node
	GroupBy     []Node
	Having      Node
	Projections []Projection
	OrderBy     []OrderKey
	DistinctMode DistinctMode
	DistinctKeys []Node
	Offset      Node
	Limit       Node
}

func (Select) Kind() NodeKind { return KindSelect }
