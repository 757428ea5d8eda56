package optimize

import (
	"github.com/sqlmongo/compiler/shape"
	"github.com/sqlmongo/compiler/workflow"
)

// Coalesce applies the single-junction fusions of §3/§4.E that need
// shape resolution — chiefly $Project($Project(...)) folding the inner
// reshape into the outer one via shape.InlineProject — plus the simpler
// fusions workflow's smart constructors already apply when building fresh
// trees, repeated here because the optimizer rebuilds nodes with the raw
// (non-fusing) constructors. Operates only at the top junction of w; the
// caller (ReorderOps, Optimize) is responsible for recursing.
func Coalesce(w *workflow.Workflow) (*workflow.Workflow, bool) {
	if w == nil {
		return w, false
	}
	src := w.Source()
	if src == nil {
		return w, false
	}

	switch w.Tag() {
	case workflow.StageProject:
		if src.Tag() == workflow.StageProject {
			fused := shape.InlineProject(w.Shape(), []*workflow.Reshape{src.Shape()})
			id := workflow.ComposeIdHandling(w.IdHandling(), src.IdHandling())
			if fused.Len() == 0 {
				return src.Source(), true
			}
			return workflow.RawProject(src.Source(), fused, id), true
		}
		if w.Shape().Len() == 0 {
			return src, true
		}
	case workflow.StageMatch:
		if src.Tag() == workflow.StageMatch {
			return workflow.RawMatch(src.Source(), workflow.And(src.Selector(), w.Selector())), true
		}
	case workflow.StageSkip:
		if src.Tag() == workflow.StageSkip {
			return workflow.RawSkip(src.Source(), src.N()+w.N()), true
		}
		if w.N() == 0 {
			return src, true
		}
	case workflow.StageLimit:
		if src.Tag() == workflow.StageLimit {
			n := w.N()
			if src.N() < n {
				n = src.N()
			}
			return workflow.RawLimit(src.Source(), n), true
		}
	}
	return w, false
}
