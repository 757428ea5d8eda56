// Package workflow implements the physical plan IR of spec §3/§4.E: a
// stage algebra over a MongoDB aggregation pipeline, each node owning its
// upstream source, plus Reshape/Expression/Accumulator/Grouped, the value
// types a $Project/$Group stage is built from. Grounded on the teacher's
// Relation-over-upstream-source style (datalog/executor/relation.go) and
// generalized into a pure IR (no iteration/evaluation: the core never
// executes a Workflow, per spec §1).
package workflow

import (
	"fmt"
)

// ShapeTag discriminates Shape's two variants.
type ShapeTag int

const (
	ShapeNested ShapeTag = iota
	ShapeLeaf
)

// Shape is Nested(Reshape) | Leaf(Expression).
type Shape struct {
	tag    ShapeTag
	nested *Reshape
	leaf   Expression
}

func Nested(r Reshape) Shape  { return Shape{tag: ShapeNested, nested: &r} }
func LeafShape(e Expression) Shape { return Shape{tag: ShapeLeaf, leaf: e} }

func (s Shape) Tag() ShapeTag     { return s.tag }
func (s Shape) AsNested() Reshape { return *s.nested }
func (s Shape) AsLeaf() Expression { return s.leaf }

// Reshape is an insertion-ordered field_name -> Shape mapping whose keys
// are pairwise not in a prefix relationship (§3).
type Reshape struct {
	keys   []string
	values map[string]Shape
}

// NewReshape builds an empty Reshape.
func NewReshape() *Reshape {
	return &Reshape{values: make(map[string]Shape)}
}

// Set inserts or overwrites a key, preserving original insertion order.
// Callers are responsible for the no-prefix-relation invariant; see
// shape.Get0/FixExpr, which only ever build Reshapes through this method
// from trusted (already-validated) sources.
func (r *Reshape) Set(key string, s Shape) *Reshape {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = s
	return r
}

func (r *Reshape) Get(key string) (Shape, bool) {
	s, ok := r.values[key]
	return s, ok
}

func (r *Reshape) Delete(key string) {
	if _, ok := r.values[key]; !ok {
		return
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

func (r *Reshape) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r *Reshape) Len() int { return len(r.keys) }

// Clone returns a shallow copy whose key order can be mutated
// independently of the receiver.
func (r *Reshape) Clone() *Reshape {
	out := NewReshape()
	for _, k := range r.keys {
		out.Set(k, r.values[k])
	}
	return out
}

func (r *Reshape) String() string {
	out := "{"
	for i, k := range r.keys {
		if i > 0 {
			out += ", "
		}
		v := r.values[k]
		if v.Tag() == ShapeNested {
			out += fmt.Sprintf("%s: %s", k, v.AsNested().String())
		} else {
			out += fmt.Sprintf("%s: %s", k, v.AsLeaf().String())
		}
	}
	return out + "}"
}

// IdHandling is the three-state policy attached to each $Project (§3).
type IdHandling int

const (
	IgnoreId IdHandling = iota
	IncludeId
	ExcludeId
)

// ComposeIdHandling implements the fusion dominance rule:
// IncludeId > ExcludeId > IgnoreId.
func ComposeIdHandling(outer, inner IdHandling) IdHandling {
	if outer == IncludeId || inner == IncludeId {
		return IncludeId
	}
	if outer == ExcludeId || inner == ExcludeId {
		return ExcludeId
	}
	return IgnoreId
}

func (h IdHandling) String() string {
	switch h {
	case IncludeId:
		return "IncludeId"
	case ExcludeId:
		return "ExcludeId"
	default:
		return "IgnoreId"
	}
}
