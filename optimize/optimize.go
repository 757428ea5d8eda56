package optimize

import "github.com/sqlmongo/compiler/workflow"

// MaxOptimizePasses bounds the fixed-point iteration of Optimize as a
// safety net against a pass that fails to converge; §5 guarantees the
// passes are each confluent, so in practice the loop exits in a handful
// of iterations.
const MaxOptimizePasses = 64

// Optimize is the single inbound entry point of §6:
// optimize(workflow) -> workflow. It applies §5's canonical pass order —
// deleteUnusedFields -> reorderOps -> inlineGroupProjects -> local
// coalesce — to a fixed point. The optimizer never fails (§7): a pass that
// cannot apply anywhere in the tree simply returns its input unchanged.
func Optimize(w *workflow.Workflow) *workflow.Workflow {
	for i := 0; i < MaxOptimizePasses; i++ {
		before := w.String()

		w = DeleteUnusedFields(w)
		w = ReorderOps(w)
		w = InlineGroupProjects(w)
		w = InlineProjectUnwindGroup(w)
		w = coalesceAll(w)

		if w.String() == before {
			return w
		}
	}
	return w
}

// coalesceAll applies Coalesce bottom-up at every junction of the tree,
// once.
func coalesceAll(w *workflow.Workflow) *workflow.Workflow {
	if w == nil || w.Tag() == workflow.StageRead {
		return w
	}
	newSource := coalesceAll(w.Source())
	w = w.WithSource(newSource)
	node, _ := Coalesce(w)
	return node
}
