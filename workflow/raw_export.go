package workflow

import "github.com/sqlmongo/compiler/atom"

// This file re-exports the raw (non-fusing) stage constructors of stage.go
// for the optimize package. The optimizer rebuilds already-optimized trees
// and must not re-trigger the smart constructors' adjacent-stage fusion —
// that fusion already happened, or is being deliberately undone/replaced by
// a rewrite rule (§4.F reorderOps, inlineGroupProjects, coalesce).

func RawProject(src *Workflow, shape *Reshape, id IdHandling) *Workflow {
	return rawProject(src, shape, id)
}

func RawGroup(src *Workflow, by Shape, grouped *Grouped) *Workflow {
	return rawGroup(src, by, grouped)
}

func RawMatch(src *Workflow, sel Expression) *Workflow {
	return rawMatch(src, sel)
}

func RawSort(src *Workflow, keys []SortKey) *Workflow {
	return rawSort(src, keys)
}

func RawSkip(src *Workflow, n int64) *Workflow {
	return rawSkip(src, n)
}

func RawLimit(src *Workflow, n int64) *Workflow {
	return rawLimit(src, n)
}

func RawSimpleMap(src *Workflow, scope string, exprs []MapExpr) *Workflow {
	return rawSimpleMap(src, scope, exprs)
}

func RawUnwind(src *Workflow, v atom.DocVar) *Workflow {
	return rawUnwind(src, v)
}
