// Package shape implements the Shape Resolver of spec §4.F/§4.G: resolving
// a field path, or rewriting an expression, through a stack of upstream
// $Project reshapes (nearest first). This is the substitution core that
// inlineProject, inlineGroupProjects and optimize.Coalesce's $Project+
// $Project fusion all build on. Grounded on the teacher's
// datalog/planner/subquery_rewriter.go variable-substitution pattern,
// generalized from a single binding environment to a stack of reshapes.
package shape

import (
	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/workflow"
)

// Get0 resolves a field path through a stack of reshapes (nearest upstream
// first), returning either a path expression or a fully inlined nested
// reshape. Reports false when the path cannot be resolved (a definition is
// missing somewhere in the stack).
func Get0(leaves atom.FieldPath, reshapes []*workflow.Reshape) (workflow.Shape, bool) {
	if len(reshapes) == 0 {
		return workflow.LeafShape(workflow.Var(atom.RootPath(leaves))), true
	}
	if len(leaves) == 0 {
		inlined := InlineProject0(reshapes[0], reshapes[1:])
		return workflow.Nested(*inlined), true
	}

	head, rest := leaves[0], leaves[1:]
	if head.IsIndex() {
		// Array-index leaves never name a reshape field; they pass through
		// unresolved at this level the same as a missing key would.
		return workflow.Shape{}, false
	}
	entry, ok := reshapes[0].Get(head.NameVal())
	if !ok {
		return workflow.Shape{}, false
	}

	if entry.Tag() == workflow.ShapeNested {
		nested := entry.AsNested()
		return Get0(rest, append([]*workflow.Reshape{&nested}, reshapes[1:]...))
	}

	leaf := entry.AsLeaf()
	switch leaf.Tag() {
	case workflow.ExprInclude:
		return Get0(leaves, reshapes[1:])
	case workflow.ExprVar:
		d := leaf.VarRef()
		return Get0(d.Path.Append(rest...), reshapes[1:])
	default:
		if len(rest) != 0 {
			return workflow.Shape{}, false
		}
		fixed, ok := FixExpr(reshapes[1:], leaf)
		if !ok {
			return workflow.Shape{}, false
		}
		return workflow.LeafShape(fixed), true
	}
}

// FixExpr is a catamorphism over e: every $var(ref) is replaced by the
// expression form of get0(ref.path, reshapes); other nodes rebuild
// unchanged. Reports false if any substitution fails.
func FixExpr(reshapes []*workflow.Reshape, e workflow.Expression) (workflow.Expression, bool) {
	switch e.Tag() {
	case workflow.ExprVar:
		d := e.VarRef()
		resolved, ok := Get0(d.Path, reshapes)
		if !ok {
			return workflow.Expression{}, false
		}
		return shapeToExpr(resolved), true
	case workflow.ExprOp:
		args := e.OpArgs()
		newArgs := make([]workflow.Expression, len(args))
		for i, a := range args {
			fixed, ok := FixExpr(reshapes, a)
			if !ok {
				return workflow.Expression{}, false
			}
			newArgs[i] = fixed
		}
		return workflow.Op(e.OpName(), newArgs...), true
	default:
		return e, true
	}
}

// shapeToExpr renders a Shape in expression position: a Leaf shape passes
// through as-is; a Nested shape (only reachable when a $var pointed at a
// whole sub-document rather than a scalar) is rendered as an object-literal
// expression so substitution can continue through further fixExpr/match
// rewriting.
func shapeToExpr(s workflow.Shape) workflow.Expression {
	if s.Tag() == workflow.ShapeLeaf {
		return s.AsLeaf()
	}
	r := s.AsNested()
	args := make([]workflow.Expression, 0, r.Len()*2)
	for _, k := range r.Keys() {
		field, _ := r.Get(k)
		args = append(args, workflow.Literal(atom.Str(k)), shapeToExpr(field))
	}
	return workflow.Op("$object", args...)
}

// InlineProject0 is the core field-by-field inliner: each entry of p is
// resolved through the reshape stack rs and the result reassembled,
// preserving p's key order. Fields whose resolution fails are dropped.
func InlineProject0(p *workflow.Reshape, rs []*workflow.Reshape) *workflow.Reshape {
	out := workflow.NewReshape()
	for _, k := range p.Keys() {
		entry, _ := p.Get(k)
		resolved, ok := resolveShapeEntry(k, entry, rs)
		if !ok {
			continue
		}
		out.Set(k, resolved)
	}
	return out
}

// InlineProject is the public entry point used by optimize's inlineProject
// pass; it is InlineProject0 under another name, kept distinct so callers
// can name the pass the way spec §4.F does.
func InlineProject(p *workflow.Reshape, rs []*workflow.Reshape) *workflow.Reshape {
	return InlineProject0(p, rs)
}

func resolveShapeEntry(key string, entry workflow.Shape, rs []*workflow.Reshape) (workflow.Shape, bool) {
	if entry.Tag() == workflow.ShapeNested {
		nested := entry.AsNested()
		inlined := InlineProject0(&nested, rs)
		return workflow.Nested(*inlined), true
	}
	leaf := entry.AsLeaf()
	switch leaf.Tag() {
	case workflow.ExprInclude:
		return Get0(atom.P(key), rs)
	case workflow.ExprVar:
		return Get0(leaf.VarRef().Path, rs)
	default:
		fixed, ok := FixExpr(rs, leaf)
		if !ok {
			return workflow.Shape{}, false
		}
		return workflow.LeafShape(fixed), true
	}
}
