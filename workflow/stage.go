package workflow

import (
	"fmt"
	"strings"

	"github.com/sqlmongo/compiler/atom"
)

// StageTag discriminates Workflow's stage variants (§3/§4.E).
type StageTag int

const (
	StageRead StageTag = iota
	StageProject
	StageGroup
	StageMatch
	StageSort
	StageSkip
	StageLimit
	StageSimpleMap
	StageMap
	StageFlatMap
	StageReduce
	StageFoldLeft
	StageUnwind
)

func (t StageTag) String() string {
	names := [...]string{"$Read", "$Project", "$Group", "$Match", "$Sort", "$Skip",
		"$Limit", "$SimpleMap", "$Map", "$FlatMap", "$Reduce", "$FoldLeft", "$Unwind"}
	if int(t) < len(names) {
		return names[t]
	}
	return "<invalid stage>"
}

// SortDirection is ascending or descending.
type SortDirection int

const (
	Asc SortDirection = iota
	Desc
)

// SortKey is one ORDER BY key.
type SortKey struct {
	Path FieldPathRef
	Dir  SortDirection
}

// FieldPathRef aliases atom.FieldPath so callers don't need to import atom
// just to build a SortKey or an Unwind target.
type FieldPathRef = atom.FieldPath

// MapExpr is one function literal of a $SimpleMap/$Map/$FlatMap/$Reduce
// stage. Body holds the structural (Reshape-of-pure-field-copies) view of
// the function when it is expressible that way — the only shape
// reorderOps' $Match($SimpleMap(...)) rule needs to see through; Raw
// always holds the literal function source for stages (or sub-parts) that
// are not expressible structurally, preserving fidelity/debug output.
// This split models the spec's JS-opaque stages (§4.F Open Questions)
// without attempting to interpret arbitrary JS.
type MapExpr struct {
	Body *Reshape
	Raw  string
}

// Workflow is the physical-plan IR: a stage algebra where (outside
// StageRead and StageFoldLeft's branch list) each node owns its upstream
// source, forming a linear pipeline ending at a StageRead leaf.
type Workflow struct {
	tag StageTag

	source *Workflow // nil only for StageRead

	// StageRead
	collection string

	// StageProject
	shape      *Reshape
	idHandling IdHandling

	// StageGroup
	by      Shape
	grouped *Grouped

	// StageMatch
	selector Expression

	// StageSort
	sortKeys []SortKey

	// StageSkip / StageLimit
	n int64

	// StageSimpleMap / StageMap / StageFlatMap / StageReduce
	scope   string
	mapExprs []MapExpr
	js      string

	// StageFoldLeft
	branches []Workflow

	// StageUnwind
	unwindVar atom.DocVar
}

func Read(collection string) *Workflow {
	return &Workflow{tag: StageRead, collection: collection}
}

func (w *Workflow) Tag() StageTag      { return w.tag }
func (w *Workflow) Source() *Workflow  { return w.source }
func (w *Workflow) Collection() string { return w.collection }
func (w *Workflow) Shape() *Reshape    { return w.shape }
func (w *Workflow) IdHandling() IdHandling { return w.idHandling }
func (w *Workflow) By() Shape          { return w.by }
func (w *Workflow) Grouped() *Grouped  { return w.grouped }
func (w *Workflow) Selector() Expression { return w.selector }
func (w *Workflow) SortKeys() []SortKey { return w.sortKeys }
func (w *Workflow) N() int64           { return w.n }
func (w *Workflow) Scope() string      { return w.scope }
func (w *Workflow) MapExprs() []MapExpr { return w.mapExprs }
func (w *Workflow) JS() string         { return w.js }
func (w *Workflow) Branches() []Workflow { return w.branches }
func (w *Workflow) UnwindVar() atom.DocVar { return w.unwindVar }

// rawProject/rawGroup/... build a stage node WITHOUT applying smart-
// constructor fusion; used internally by the smart constructors in
// constructors.go and by the optimizer, which rebuilds already-optimized
// trees and must not re-trigger fusion it has already accounted for.
func rawProject(src *Workflow, shape *Reshape, id IdHandling) *Workflow {
	return &Workflow{tag: StageProject, source: src, shape: shape, idHandling: id}
}

func rawGroup(src *Workflow, by Shape, grouped *Grouped) *Workflow {
	return &Workflow{tag: StageGroup, source: src, by: by, grouped: grouped}
}

func rawMatch(src *Workflow, sel Expression) *Workflow {
	return &Workflow{tag: StageMatch, source: src, selector: sel}
}

func rawSort(src *Workflow, keys []SortKey) *Workflow {
	return &Workflow{tag: StageSort, source: src, sortKeys: keys}
}

func rawSkip(src *Workflow, n int64) *Workflow {
	return &Workflow{tag: StageSkip, source: src, n: n}
}

func rawLimit(src *Workflow, n int64) *Workflow {
	return &Workflow{tag: StageLimit, source: src, n: n}
}

func rawSimpleMap(src *Workflow, scope string, exprs []MapExpr) *Workflow {
	return &Workflow{tag: StageSimpleMap, source: src, scope: scope, mapExprs: exprs}
}

func rawMap(src *Workflow, js string) *Workflow {
	return &Workflow{tag: StageMap, source: src, js: js}
}

func rawFlatMap(src *Workflow, js string) *Workflow {
	return &Workflow{tag: StageFlatMap, source: src, js: js}
}

func rawReduce(src *Workflow, js string) *Workflow {
	return &Workflow{tag: StageReduce, source: src, js: js}
}

func rawFoldLeft(initial *Workflow, branches []Workflow) *Workflow {
	return &Workflow{tag: StageFoldLeft, source: initial, branches: branches}
}

func rawUnwind(src *Workflow, v atom.DocVar) *Workflow {
	return &Workflow{tag: StageUnwind, source: src, unwindVar: v}
}

func (w *Workflow) String() string {
	if w == nil {
		return "<nil>"
	}
	switch w.tag {
	case StageRead:
		return fmt.Sprintf("$Read(%q)", w.collection)
	case StageProject:
		return fmt.Sprintf("%s -> $Project(%s, %s)", w.source, w.shape, w.idHandling)
	case StageGroup:
		return fmt.Sprintf("%s -> $Group(by=%v, %v)", w.source, w.by, w.grouped)
	case StageMatch:
		return fmt.Sprintf("%s -> $Match(%s)", w.source, w.selector)
	case StageSort:
		parts := make([]string, len(w.sortKeys))
		for i, k := range w.sortKeys {
			d := "asc"
			if k.Dir == Desc {
				d = "desc"
			}
			parts[i] = fmt.Sprintf("%s %s", k.Path, d)
		}
		return fmt.Sprintf("%s -> $Sort(%s)", w.source, strings.Join(parts, ", "))
	case StageSkip:
		return fmt.Sprintf("%s -> $Skip(%d)", w.source, w.n)
	case StageLimit:
		return fmt.Sprintf("%s -> $Limit(%d)", w.source, w.n)
	case StageSimpleMap:
		return fmt.Sprintf("%s -> $SimpleMap(scope=%s, %d exprs)", w.source, w.scope, len(w.mapExprs))
	case StageMap:
		return fmt.Sprintf("%s -> $Map(...)", w.source)
	case StageFlatMap:
		return fmt.Sprintf("%s -> $FlatMap(...)", w.source)
	case StageReduce:
		return fmt.Sprintf("%s -> $Reduce(...)", w.source)
	case StageFoldLeft:
		return fmt.Sprintf("$FoldLeft(%s, %d branches)", w.source, len(w.branches))
	case StageUnwind:
		return fmt.Sprintf("%s -> $Unwind(%s)", w.source, w.unwindVar)
	default:
		return "<invalid workflow>"
	}
}

// WithSource returns a copy of w whose upstream source is replaced; used
// by the optimizer to splice in a rewritten source without re-deriving
// every other field.
func (w *Workflow) WithSource(src *Workflow) *Workflow {
	cp := *w
	cp.source = src
	return &cp
}
