package workflow

import "github.com/sqlmongo/compiler/atom"

// This file holds the smart constructors of spec §4.E that are local to a
// single pair of adjacent stages and need no field-path resolution through
// upstream reshapes (Shape Resolver, component G). The shape-aware fusion
// — two consecutive $Projects fusing by inlining the inner one into the
// outer — needs component G and so is implemented as optimize.Coalesce,
// which component F (the only declared dependent of G, per the table in
// spec §2) already depends on; see DESIGN.md.

// Project builds a $Project stage. No automatic fusion with an adjacent
// $Project happens here (see note above); optimize.Coalesce performs it.
func Project(src *Workflow, shape *Reshape, id IdHandling) *Workflow {
	if src != nil && src.tag == StageProject && shape.Len() == 0 {
		// An empty outer project contributes nothing; elide it immediately
		// rather than waiting for the optimizer, per §3's invariant that
		// every $Project shape is non-empty after optimization.
		return src
	}
	return rawProject(src, shape, id)
}

// Group builds a $Group stage.
func Group(src *Workflow, by Shape, grouped *Grouped) *Workflow {
	return rawGroup(src, by, grouped)
}

// Match builds a $Match stage, fusing with an immediately preceding
// $Match by conjoining selectors: $Match($Match(s, a), b) = $Match(s, $and(a, b)).
func Match(src *Workflow, sel Expression) *Workflow {
	if src != nil && src.tag == StageMatch {
		return rawMatch(src.source, And(src.selector, sel))
	}
	return rawMatch(src, sel)
}

// And builds the $and Mongo expression operator, flattening nested $and
// the way Mongo's own query planner would normalize it.
func And(a, b Expression) Expression {
	args := make([]Expression, 0, 2)
	if a.Tag() == ExprOp && a.OpName() == "$and" {
		args = append(args, a.OpArgs()...)
	} else {
		args = append(args, a)
	}
	if b.Tag() == ExprOp && b.OpName() == "$and" {
		args = append(args, b.OpArgs()...)
	} else {
		args = append(args, b)
	}
	return Op("$and", args...)
}

// Sort builds a $Sort stage.
func Sort(src *Workflow, keys []SortKey) *Workflow {
	return rawSort(src, keys)
}

// Skip builds a $Skip stage, fusing with an immediately preceding $Skip by
// summing offsets.
func Skip(src *Workflow, n int64) *Workflow {
	if src != nil && src.tag == StageSkip {
		return rawSkip(src.source, src.n+n)
	}
	if n == 0 {
		return src
	}
	return rawSkip(src, n)
}

// Limit builds a $Limit stage, fusing with an immediately preceding $Limit
// by taking the minimum.
func Limit(src *Workflow, n int64) *Workflow {
	if src != nil && src.tag == StageLimit {
		if n < src.n {
			return rawLimit(src.source, n)
		}
		return src
	}
	return rawLimit(src, n)
}

func SimpleMap(src *Workflow, scope string, exprs []MapExpr) *Workflow {
	return rawSimpleMap(src, scope, exprs)
}

func Map(src *Workflow, js string) *Workflow         { return rawMap(src, js) }
func FlatMap(src *Workflow, js string) *Workflow     { return rawFlatMap(src, js) }
func Reduce(src *Workflow, js string) *Workflow      { return rawReduce(src, js) }
func FoldLeft(initial *Workflow, branches []Workflow) *Workflow {
	return rawFoldLeft(initial, branches)
}
func Unwind(src *Workflow, v atom.DocVar) *Workflow { return rawUnwind(src, v) }
