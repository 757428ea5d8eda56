package optimize

import (
	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/workflow"
)

// DeleteUnusedFields is the top-down pass of §4.F: prune $Project/$Group/
// $SimpleMap fields nothing downstream references, eliding a $Project that
// becomes empty.
func DeleteUnusedFields(w *workflow.Workflow) *workflow.Workflow {
	return deleteUnused(w, AllUsed())
}

func deleteUnused(w *workflow.Workflow, prevUsed RefSet) *workflow.Workflow {
	if w == nil || w.Tag() == workflow.StageRead {
		return w
	}

	pruned, elided := pruneNode(w, prevUsed)
	nextUsed := getRefs(pruned, prevUsed)
	newSource := deleteUnused(pruned.Source(), nextUsed)

	if elided {
		return newSource
	}
	return pruned.WithSource(newSource)
}

// pruneNode drops w's own unused field definitions, reporting whether the
// result should be elided entirely (an emptied $Project).
func pruneNode(w *workflow.Workflow, used RefSet) (*workflow.Workflow, bool) {
	switch w.Tag() {
	case workflow.StageProject:
		shape := w.Shape()
		kept := workflow.NewReshape()
		for _, k := range shape.Keys() {
			if used.IsLive(atom.RootPath(atom.P(k))) {
				v, _ := shape.Get(k)
				kept.Set(k, v)
			}
		}
		if kept.Len() == 0 {
			return w, true
		}
		return workflow.RawProject(w.Source(), kept, w.IdHandling()), false
	case workflow.StageGroup:
		grouped := w.Grouped()
		kept := workflow.NewGrouped()
		for _, k := range grouped.Keys() {
			if used.IsLive(atom.RootPath(atom.P(k))) {
				acc, _ := grouped.Get(k)
				kept.Set(k, acc)
			}
		}
		return workflow.RawGroup(w.Source(), w.By(), kept), false
	case workflow.StageSimpleMap:
		exprs := w.MapExprs()
		newExprs := make([]workflow.MapExpr, len(exprs))
		for i, me := range exprs {
			if me.Body == nil {
				newExprs[i] = me
				continue
			}
			kept := workflow.NewReshape()
			for _, k := range me.Body.Keys() {
				if used.IsLive(atom.RootPath(atom.P(k))) {
					v, _ := me.Body.Get(k)
					kept.Set(k, v)
				}
			}
			newExprs[i] = workflow.MapExpr{Body: kept, Raw: me.Raw}
		}
		return workflow.RawSimpleMap(w.Source(), w.Scope(), newExprs), false
	default:
		return w, false
	}
}

// getRefs computes the usedRefs to pass down to w's source, per §4.F's
// per-stage rules.
func getRefs(w *workflow.Workflow, prevUsed RefSet) RefSet {
	switch w.Tag() {
	case workflow.StageGroup:
		return refsOfGroup(w)
	case workflow.StageProject:
		r := refsOfReshape(w.Shape())
		if w.IdHandling() == workflow.IncludeId {
			r = r.With(atom.IdVar)
		}
		return r
	case workflow.StageFoldLeft:
		return prevUsed.With(atom.IdVar)
	case workflow.StageMap, workflow.StageSimpleMap, workflow.StageFlatMap, workflow.StageReduce:
		return AllUsed()
	case workflow.StageMatch:
		return prevUsed.Union(NewRefSet(workflow.Refs(w.Selector())...))
	case workflow.StageSort:
		refs := make([]atom.DocVar, len(w.SortKeys()))
		for i, k := range w.SortKeys() {
			refs[i] = atom.RootPath(k.Path)
		}
		return prevUsed.Union(NewRefSet(refs...))
	case workflow.StageUnwind:
		return prevUsed.With(w.UnwindVar())
	default:
		return prevUsed
	}
}

func refsOfGroup(w *workflow.Workflow) RefSet {
	var refs []atom.DocVar
	grouped := w.Grouped()
	for _, k := range grouped.Keys() {
		acc, _ := grouped.Get(k)
		refs = append(refs, workflow.Refs(acc.Expr)...)
	}
	refs = append(refs, refsOfShapeSlice(w.By())...)
	return NewRefSet(refs...)
}

func refsOfReshape(r *workflow.Reshape) RefSet {
	var refs []atom.DocVar
	for _, k := range r.Keys() {
		v, _ := r.Get(k)
		refs = append(refs, refsOfShapeSlice(v)...)
	}
	return NewRefSet(refs...)
}

func refsOfShapeSlice(s workflow.Shape) []atom.DocVar {
	if s.Tag() == workflow.ShapeLeaf {
		return workflow.Refs(s.AsLeaf())
	}
	nested := s.AsNested()
	var out []atom.DocVar
	for _, k := range nested.Keys() {
		v, _ := nested.Get(k)
		out = append(out, refsOfShapeSlice(v)...)
	}
	return out
}
