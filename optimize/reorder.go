package optimize

import (
	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/workflow"
)

// ReorderOps is the bottom-up rewrite of §4.F: pushes $Skip/$Limit/$Match
// through a preceding $Project or single-expr $SimpleMap when doing so is
// sound, applying the first matching rule at each node and otherwise
// falling back to local coalesce. Iterated to a fixed point.
func ReorderOps(w *workflow.Workflow) *workflow.Workflow {
	for {
		rewritten, changed := reorderPass(w)
		w = rewritten
		if !changed {
			return w
		}
	}
}

func reorderPass(w *workflow.Workflow) (*workflow.Workflow, bool) {
	if w == nil || w.Tag() == workflow.StageRead {
		return w, false
	}
	newSource, srcChanged := reorderPass(w.Source())
	w = w.WithSource(newSource)

	if node, ok := applyReorderRule(w); ok {
		return node, true
	}
	node, changed := Coalesce(w)
	return node, srcChanged || changed
}

func applyReorderRule(w *workflow.Workflow) (*workflow.Workflow, bool) {
	src := w.Source()
	if src == nil {
		return w, false
	}

	switch w.Tag() {
	case workflow.StageSkip:
		if src.Tag() == workflow.StageProject {
			return workflow.RawProject(workflow.RawSkip(src.Source(), w.N()), src.Shape(), src.IdHandling()), true
		}
		if src.Tag() == workflow.StageSimpleMap && len(src.MapExprs()) == 1 {
			return workflow.RawSimpleMap(workflow.RawSkip(src.Source(), w.N()), src.Scope(), src.MapExprs()), true
		}
	case workflow.StageLimit:
		if src.Tag() == workflow.StageProject {
			return workflow.RawProject(workflow.RawLimit(src.Source(), w.N()), src.Shape(), src.IdHandling()), true
		}
		if src.Tag() == workflow.StageSimpleMap && len(src.MapExprs()) == 1 {
			return workflow.RawSimpleMap(workflow.RawLimit(src.Source(), w.N()), src.Scope(), src.MapExprs()), true
		}
	case workflow.StageMatch:
		if src.Tag() == workflow.StageProject {
			if rewritten, ok := pushMatchThroughRenames(w.Selector(), src.Shape()); ok {
				return workflow.RawProject(workflow.RawMatch(src.Source(), rewritten), src.Shape(), src.IdHandling()), true
			}
		}
		if src.Tag() == workflow.StageSimpleMap && len(src.MapExprs()) == 1 && src.MapExprs()[0].Body != nil {
			if rewritten, ok := pushMatchThroughRenames(w.Selector(), src.MapExprs()[0].Body); ok {
				return workflow.RawSimpleMap(workflow.RawMatch(src.Source(), rewritten), src.Scope(), src.MapExprs()), true
			}
		}
	}
	return w, false
}

// pushMatchThroughRenames rewrites sel by substituting every field it
// references with the renamed upstream path, succeeding only when every
// referenced field has a pure-rename ($var) definition (direct or as a
// sub-path of one) in shape.
func pushMatchThroughRenames(sel workflow.Expression, shape *workflow.Reshape) (workflow.Expression, bool) {
	renames := collectRenames(shape)
	return rewriteSelector(sel, renames)
}

// renameEntry is one field -> upstream-path rename recorded from a
// pure-$var $Project/simple-map shape.
type renameEntry struct {
	lhs atom.FieldPath
	rhs atom.DocVar
}

func collectRenames(shape *workflow.Reshape) []renameEntry {
	var out []renameEntry
	for _, k := range shape.Keys() {
		v, _ := shape.Get(k)
		if v.Tag() != workflow.ShapeLeaf {
			continue
		}
		if ref, ok := v.AsLeaf().IsPureRename(); ok {
			out = append(out, renameEntry{lhs: atom.P(k), rhs: ref})
		}
	}
	return out
}

func rewriteSelector(sel workflow.Expression, renames []renameEntry) (workflow.Expression, bool) {
	ok := true
	rewritten := sel.Rewrite(func(e workflow.Expression) (workflow.Expression, bool) {
		if e.Tag() != workflow.ExprVar {
			return e, false
		}
		d := e.VarRef()
		for _, r := range renames {
			if d.Path.Equal(r.lhs) {
				return workflow.Var(r.rhs), true
			}
			if d.Path.HasPrefix(r.lhs) {
				rel := d.Path.Rest(len(r.lhs))
				return workflow.Var(r.rhs.WithPath(rel)), true
			}
		}
		ok = false
		return e, false
	})
	if !ok {
		return workflow.Expression{}, false
	}
	return rewritten, true
}
