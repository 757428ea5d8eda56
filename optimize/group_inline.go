package optimize

import (
	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/shape"
	"github.com/sqlmongo/compiler/workflow"
)

// InlineGroupProjects walks the whole tree applying §4.F's
// inlineGroupProjects rule at every $Group node: fold the contiguous chain
// of upstream $Projects into the group's own expressions, eliding the
// intervening projections when it succeeds.
func InlineGroupProjects(w *workflow.Workflow) *workflow.Workflow {
	if w == nil || w.Tag() == workflow.StageRead {
		return w
	}
	newSource := InlineGroupProjects(w.Source())
	w = w.WithSource(newSource)
	if w.Tag() == workflow.StageGroup {
		if rewritten, ok := inlineOneGroup(w); ok {
			return rewritten
		}
	}
	return w
}

// collectShapes walks upstream from src collecting the contiguous run of
// $Project reshapes (nearest first), terminating at the first non-$Project
// source.
func collectShapes(src *workflow.Workflow) ([]*workflow.Reshape, *workflow.Workflow) {
	var reshapes []*workflow.Reshape
	cur := src
	for cur != nil && cur.Tag() == workflow.StageProject {
		reshapes = append(reshapes, cur.Shape())
		cur = cur.Source()
	}
	return reshapes, cur
}

func inlineOneGroup(g *workflow.Workflow) (*workflow.Workflow, bool) {
	reshapes, newSrc := collectShapes(g.Source())
	if len(reshapes) == 0 {
		return g, false
	}

	grouped := g.Grouped()
	newGrouped := workflow.NewGrouped()
	for _, k := range grouped.Keys() {
		acc, _ := grouped.Get(k)
		fixed, ok := shape.FixExpr(reshapes, acc.Expr)
		if !ok {
			return g, false
		}
		if acc.Tag == workflow.AccAddToSet || acc.Tag == workflow.AccPush {
			if _, pure := fixed.IsPureRename(); !pure {
				return g, false
			}
		}
		newGrouped.Set(k, workflow.Accumulator{Tag: acc.Tag, Expr: fixed})
	}

	newBy, ok := inlineByShape(g.By(), reshapes)
	if !ok {
		return g, false
	}
	return workflow.RawGroup(newSrc, newBy, newGrouped), true
}

func inlineByShape(by workflow.Shape, reshapes []*workflow.Reshape) (workflow.Shape, bool) {
	if by.Tag() == workflow.ShapeNested {
		nested := by.AsNested()
		inlined := shape.InlineProject(&nested, reshapes)
		return workflow.Nested(*inlined), true
	}
	fixed, ok := shape.FixExpr(reshapes, by.AsLeaf())
	if !ok {
		return workflow.Shape{}, false
	}
	return workflow.LeafShape(fixed), true
}

// RenameProjectGroup computes { old_grouping_key -> [new_names...] } by
// inspecting a project's shape: every entry must be a pure $var(v) of a
// single-leaf path (else the whole operation fails); entries whose
// renamed source is a member of groupKeys are recorded, in insertion
// order, under that source name.
func RenameProjectGroup(proj *workflow.Reshape, groupKeys map[string]bool) (map[string][]string, bool) {
	out := map[string][]string{}
	for _, k := range proj.Keys() {
		v, _ := proj.Get(k)
		if v.Tag() != workflow.ShapeLeaf {
			return nil, false
		}
		ref, ok := v.AsLeaf().IsPureRename()
		if !ok || len(ref.Path) != 1 {
			return nil, false
		}
		oldHead := ref.Path[0].NameVal()
		if groupKeys[oldHead] {
			out[oldHead] = append(out[oldHead], k)
		}
	}
	return out, true
}

// InlineProjectUnwindGroup walks the tree applying §4.F's
// inlineProjectUnwindGroup rule: a $Project followed by a single-var
// $Unwind followed by $Group rewrites the unwind (and the group's
// references to it) to the post-rename field name, when renameProjectGroup
// succeeds and the unwound field maps to exactly one new name.
func InlineProjectUnwindGroup(w *workflow.Workflow) *workflow.Workflow {
	if w == nil || w.Tag() == workflow.StageRead {
		return w
	}
	newSource := InlineProjectUnwindGroup(w.Source())
	w = w.WithSource(newSource)
	if w.Tag() == workflow.StageGroup {
		if src := w.Source(); src != nil && src.Tag() == workflow.StageUnwind {
			if proj := src.Source(); proj != nil && proj.Tag() == workflow.StageProject {
				if rewritten, ok := tryInlinePUG(proj, src, w); ok {
					return rewritten
				}
			}
		}
	}
	return w
}

func tryInlinePUG(proj, unwind, group *workflow.Workflow) (*workflow.Workflow, bool) {
	by := group.By()
	if by.Tag() != workflow.ShapeNested {
		return group, false
	}
	byReshape := by.AsNested()
	groupKeys := map[string]bool{}
	for _, k := range byReshape.Keys() {
		groupKeys[k] = true
	}

	renames, ok := RenameProjectGroup(proj.Shape(), groupKeys)
	if !ok {
		return group, false
	}

	oldVar := unwind.UnwindVar()
	if len(oldVar.Path) != 1 {
		return group, false
	}
	targets, found := renames[oldVar.Path[0].NameVal()]
	if !found || len(targets) != 1 {
		return group, false
	}
	newVar := atom.DocVar{Scope: oldVar.Scope, Path: atom.P(targets[0])}

	newUnwind := workflow.RawUnwind(proj, newVar)

	newGrouped := workflow.NewGrouped()
	for _, k := range group.Grouped().Keys() {
		acc, _ := group.Grouped().Get(k)
		newGrouped.Set(k, workflow.Accumulator{Tag: acc.Tag, Expr: renameVarInExpr(acc.Expr, oldVar, newVar)})
	}
	newBy := renameVarInShape(group.By(), oldVar, newVar)

	return workflow.RawGroup(newUnwind, newBy, newGrouped), true
}

func renameVarInExpr(e workflow.Expression, oldVar, newVar atom.DocVar) workflow.Expression {
	return e.Rewrite(func(n workflow.Expression) (workflow.Expression, bool) {
		if n.Tag() != workflow.ExprVar {
			return n, false
		}
		d := n.VarRef()
		if d.Scope != oldVar.Scope || !d.Path.HasPrefix(oldVar.Path) {
			return n, false
		}
		rel := d.Path.Rest(len(oldVar.Path))
		return workflow.Var(newVar.WithPath(rel)), true
	})
}

func renameVarInShape(s workflow.Shape, oldVar, newVar atom.DocVar) workflow.Shape {
	if s.Tag() == workflow.ShapeLeaf {
		return workflow.LeafShape(renameVarInExpr(s.AsLeaf(), oldVar, newVar))
	}
	nested := s.AsNested()
	out := workflow.NewReshape()
	for _, k := range nested.Keys() {
		v, _ := nested.Get(k)
		out.Set(k, renameVarInShape(v, oldVar, newVar))
	}
	return workflow.Nested(*out)
}
