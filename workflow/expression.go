package workflow

import (
	"fmt"
	"strings"

	"github.com/sqlmongo/compiler/atom"
)

// ExprTag discriminates Expression variants: variables, includes,
// literals, and n-ary operators (§3).
type ExprTag int

const (
	ExprVar ExprTag = iota
	ExprInclude
	ExprLiteral
	ExprOp
)

// Expression is the recursive value the Workflow's $Project/$Group/$Match
// stages are built from.
type Expression struct {
	tag ExprTag

	varVal DocVarRef

	litVal atom.Data

	op   string
	args []Expression
}

// DocVarRef aliases atom.DocVar to keep this package's public surface
// self-describing without re-exporting atom's whole identifier.
type DocVarRef = atom.DocVar

func Var(d DocVarRef) Expression   { return Expression{tag: ExprVar, varVal: d} }
func Include() Expression          { return Expression{tag: ExprInclude} }
func Literal(d atom.Data) Expression { return Expression{tag: ExprLiteral, litVal: d} }
func Op(name string, args ...Expression) Expression {
	return Expression{tag: ExprOp, op: name, args: args}
}

func (e Expression) Tag() ExprTag       { return e.tag }
func (e Expression) VarRef() DocVarRef  { return e.varVal }
func (e Expression) LiteralValue() atom.Data { return e.litVal }
func (e Expression) OpName() string     { return e.op }
func (e Expression) OpArgs() []Expression { return e.args }

// IsPureRename reports whether e is exactly $var(d) for some d, the form
// reorderOps and renameProjectGroup require before pushing a stage past a
// $Project.
func (e Expression) IsPureRename() (DocVarRef, bool) {
	if e.tag == ExprVar {
		return e.varVal, true
	}
	return DocVarRef{}, false
}

func (e Expression) String() string {
	switch e.tag {
	case ExprVar:
		return e.varVal.String()
	case ExprInclude:
		return "$include()"
	case ExprLiteral:
		return fmt.Sprintf("$literal(%s)", e.litVal.String())
	case ExprOp:
		parts := make([]string, len(e.args))
		for i, a := range e.args {
			parts[i] = a.String()
		}
		return fmt.Sprintf("%s(%s)", e.op, strings.Join(parts, ", "))
	default:
		return "<invalid expr>"
	}
}

// Equal reports structural equality.
func (e Expression) Equal(o Expression) bool {
	if e.tag != o.tag {
		return false
	}
	switch e.tag {
	case ExprVar:
		return e.varVal.Equal(o.varVal)
	case ExprInclude:
		return true
	case ExprLiteral:
		return atom.Equal(e.litVal, o.litVal)
	case ExprOp:
		if e.op != o.op || len(e.args) != len(o.args) {
			return false
		}
		for i := range e.args {
			if !e.args[i].Equal(o.args[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Rewrite is a catamorphism-style rewrite over Expression: f is applied
// bottom-up; if f returns (replacement, true) for a node, that replaces it.
func (e Expression) Rewrite(f func(Expression) (Expression, bool)) Expression {
	var rebuilt Expression
	switch e.tag {
	case ExprOp:
		newArgs := make([]Expression, len(e.args))
		for i, a := range e.args {
			newArgs[i] = a.Rewrite(f)
		}
		rebuilt = Op(e.op, newArgs...)
	default:
		rebuilt = e
	}
	if replacement, ok := f(rebuilt); ok {
		return replacement
	}
	return rebuilt
}

// Refs returns every DocVar referenced anywhere within e (used by
// deleteUnusedFields' getRefs and by inlineGroupProjects).
func Refs(e Expression) []atom.DocVar {
	var out []atom.DocVar
	var walk func(Expression)
	walk = func(n Expression) {
		switch n.tag {
		case ExprVar:
			out = append(out, n.varVal)
		case ExprOp:
			for _, a := range n.args {
				walk(a)
			}
		}
	}
	walk(e)
	return out
}
