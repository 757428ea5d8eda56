// Package logical implements the LogicalPlan IR of spec §3/§4.B: a small
// recursive algebra of Read, Constant, Free, Let, and Invoke nodes, with a
// fold, an ana, and a targeted rewrite operation. Grounded on the recursion
// style of datalog/query/types.go (a closed interface with concrete
// implementing structs) generalized per the Design Notes §9: trees are
// small, owned by value, and rebuilt rather than shared.
package logical

import (
	"fmt"
	"strings"

	"github.com/sqlmongo/compiler/atom"
)

// Tag discriminates Plan variants.
type Tag int

const (
	TagRead Tag = iota
	TagConstant
	TagFree
	TagLet
	TagInvoke
)

// Function is the minimal shape package catalog.Function must satisfy for
// logical.Invoke to reference it without importing package catalog
// (avoiding a dependency cycle: catalog validates/simplifies logical.Plan
// trees, so logical cannot import catalog).
type Function interface {
	FuncName() string
}

// Plan is the LogicalPlan algebra. Exactly one branch is meaningful,
// selected by Tag. Equality is structural (see Equal).
type Plan struct {
	tag Tag

	// TagRead
	readPath string

	// TagConstant
	constVal atom.Data

	// TagFree
	freeName string

	// TagLet
	letName    string
	letBinding *Plan
	letBody    *Plan

	// TagInvoke
	invokeFunc Function
	invokeArgs []Plan
}

func Read(path string) Plan       { return Plan{tag: TagRead, readPath: path} }
func Constant(d atom.Data) Plan   { return Plan{tag: TagConstant, constVal: d} }
func Free(name string) Plan       { return Plan{tag: TagFree, freeName: name} }

func Let(name string, binding, body Plan) Plan {
	return Plan{tag: TagLet, letName: name, letBinding: &binding, letBody: &body}
}

func Invoke(fn Function, args ...Plan) Plan {
	return Plan{tag: TagInvoke, invokeFunc: fn, invokeArgs: args}
}

func (p Plan) Tag() Tag { return p.tag }

func (p Plan) ReadPath() string      { return p.readPath }
func (p Plan) ConstantValue() atom.Data { return p.constVal }
func (p Plan) FreeName() string      { return p.freeName }
func (p Plan) LetName() string       { return p.letName }
func (p Plan) LetBinding() Plan      { return *p.letBinding }
func (p Plan) LetBody() Plan         { return *p.letBody }
func (p Plan) InvokeFunc() Function  { return p.invokeFunc }
func (p Plan) InvokeArgs() []Plan    { return p.invokeArgs }

func (p Plan) String() string {
	switch p.tag {
	case TagRead:
		return fmt.Sprintf("Read(%q)", p.readPath)
	case TagConstant:
		return fmt.Sprintf("Constant(%s)", p.constVal.String())
	case TagFree:
		return fmt.Sprintf("Free(%s)", p.freeName)
	case TagLet:
		return fmt.Sprintf("Let(%s = %s, %s)", p.letName, p.letBinding.String(), p.letBody.String())
	case TagInvoke:
		args := make([]string, len(p.invokeArgs))
		for i, a := range p.invokeArgs {
			args[i] = a.String()
		}
		return fmt.Sprintf("%s(%s)", p.invokeFunc.FuncName(), strings.Join(args, ", "))
	default:
		return "<invalid plan>"
	}
}

// Equal reports structural equality.
func (p Plan) Equal(o Plan) bool {
	if p.tag != o.tag {
		return false
	}
	switch p.tag {
	case TagRead:
		return p.readPath == o.readPath
	case TagConstant:
		return atom.Equal(p.constVal, o.constVal)
	case TagFree:
		return p.freeName == o.freeName
	case TagLet:
		return p.letName == o.letName && p.letBinding.Equal(*o.letBinding) && p.letBody.Equal(*o.letBody)
	case TagInvoke:
		if p.invokeFunc.FuncName() != o.invokeFunc.FuncName() || len(p.invokeArgs) != len(o.invokeArgs) {
			return false
		}
		for i := range p.invokeArgs {
			if !p.invokeArgs[i].Equal(o.invokeArgs[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Children returns the immediate subtrees of p, in evaluation order.
func (p Plan) Children() []Plan {
	switch p.tag {
	case TagLet:
		return []Plan{*p.letBinding, *p.letBody}
	case TagInvoke:
		return p.invokeArgs
	default:
		return nil
	}
}

// WithChildren rebuilds p with new children, which must have the same
// length and order as Children() returned.
func (p Plan) WithChildren(children []Plan) Plan {
	switch p.tag {
	case TagLet:
		return Let(p.letName, children[0], children[1])
	case TagInvoke:
		return Invoke(p.invokeFunc, children...)
	default:
		return p
	}
}

// Fold is the catamorphism over Plan: it applies f bottom-up, folding
// children first and passing their results alongside the node itself.
func Fold[T any](p Plan, f func(Plan, []T) T) T {
	children := p.Children()
	results := make([]T, len(children))
	for i, c := range children {
		results[i] = Fold(c, f)
	}
	return f(p, results)
}

// Ana is the anamorphism: it unfolds a Plan from a seed by repeatedly
// asking build for the node at a seed plus the sub-seeds of its children.
func Ana[S any](seed S, build func(S) (Plan, []S)) Plan {
	node, subseeds := build(seed)
	children := node.Children()
	if len(children) != len(subseeds) {
		return node
	}
	newChildren := make([]Plan, len(children))
	for i, s := range subseeds {
		newChildren[i] = Ana(s, build)
	}
	return node.WithChildren(newChildren)
}

// Rewrite replaces subtrees (top-down, replacing a matched node without
// descending into its replacement) wherever f returns (replacement, true);
// all other nodes are rebuilt unchanged but recurse into their children.
func Rewrite(p Plan, f func(Plan) (Plan, bool)) Plan {
	if replacement, ok := f(p); ok {
		return replacement
	}
	children := p.Children()
	if len(children) == 0 {
		return p
	}
	newChildren := make([]Plan, len(children))
	changed := false
	for i, c := range children {
		newChildren[i] = Rewrite(c, f)
		if !newChildren[i].Equal(c) {
			changed = true
		}
	}
	if !changed {
		return p
	}
	return p.WithChildren(newChildren)
}

// FreeVars returns the set of every Free name referenced anywhere in p,
// including names bound by an enclosing Let in p itself (a conservative,
// non-lexically-scoped over-approximation sufficient for the compiler's
// own uses, which always operate on trees it just built).
func FreeVars(p Plan) map[string]bool {
	out := map[string]bool{}
	var walk func(Plan)
	walk = func(n Plan) {
		switch n.tag {
		case TagFree:
			out[n.freeName] = true
		default:
			for _, c := range n.Children() {
				walk(c)
			}
		}
	}
	walk(p)
	return out
}
