package atom

import (
	"fmt"
	"strconv"
	"strings"
)

// Leaf is one step of a FieldPath: either a named field or an array index.
// Grounded on the teacher's Keyword value-object style (datalog/types.go):
// a small comparable struct with String().
type Leaf struct {
	name    string
	index   int
	isIndex bool
}

func Name(s string) Leaf  { return Leaf{name: s} }
func Index(i int) Leaf    { return Leaf{index: i, isIndex: true} }
func (l Leaf) IsIndex() bool  { return l.isIndex }
func (l Leaf) NameVal() string { return l.name }
func (l Leaf) IndexVal() int   { return l.index }

func (l Leaf) String() string {
	if l.isIndex {
		return strconv.Itoa(l.index)
	}
	return l.name
}

func (l Leaf) Equal(o Leaf) bool {
	return l.isIndex == o.isIndex && l.name == o.name && l.index == o.index
}

// FieldPath is a non-empty ordered sequence of Leaf.
type FieldPath []Leaf

// P is a convenience constructor for a path of Name leaves.
func P(names ...string) FieldPath {
	out := make(FieldPath, len(names))
	for i, n := range names {
		out[i] = Name(n)
	}
	return out
}

func (p FieldPath) String() string {
	parts := make([]string, len(p))
	for i, l := range p {
		parts[i] = l.String()
	}
	return strings.Join(parts, ".")
}

func (p FieldPath) Equal(o FieldPath) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if !p[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// HasPrefix reports whether p starts with prefix, using strict
// element-wise sequence comparison (§4.G: "a.bcd" is not a prefix of
// "a.b" even though the strings share a prefix).
func (p FieldPath) HasPrefix(prefix FieldPath) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if !p[i].Equal(prefix[i]) {
			return false
		}
	}
	return true
}

// Append returns a new path with more leaves appended.
func (p FieldPath) Append(more ...Leaf) FieldPath {
	out := make(FieldPath, 0, len(p)+len(more))
	out = append(out, p...)
	out = append(out, more...)
	return out
}

// Rest returns the path after dropping its first n leaves.
func (p FieldPath) Rest(n int) FieldPath {
	if n >= len(p) {
		return nil
	}
	return p[n:]
}

// InPrefixRelation reports whether a and b are in a prefix relationship in
// either direction, as used by Reshape's key invariant and by
// deleteUnusedFields' liveness test.
func InPrefixRelation(a, b FieldPath) bool {
	return a.HasPrefix(b) || b.HasPrefix(a)
}

// Scope discriminates a DocVar's root: the overall input document (ROOT)
// or the value currently being mapped over (CURRENT), mirroring MongoDB
// aggregation's "$$ROOT"/"$$CURRENT" system variables.
type Scope int

const (
	ScopeRoot Scope = iota
	ScopeCurrent
)

func (s Scope) String() string {
	if s == ScopeCurrent {
		return "CURRENT"
	}
	return "ROOT"
}

// DocVar is (scope, optional field path): ROOT() means the root document
// itself, ROOT(p) means "$p" in external (MongoDB expression) syntax.
type DocVar struct {
	Scope Scope
	Path  FieldPath // nil means "the whole scope value"
}

func RootVar() DocVar                  { return DocVar{Scope: ScopeRoot} }
func RootPath(p FieldPath) DocVar      { return DocVar{Scope: ScopeRoot, Path: p} }
func CurrentVar() DocVar               { return DocVar{Scope: ScopeCurrent} }
func CurrentPath(p FieldPath) DocVar   { return DocVar{Scope: ScopeCurrent, Path: p} }

// IdVar is the special DocVar ROOT("_id").
var IdVar = RootPath(P("_id"))

func (d DocVar) String() string {
	if d.Path == nil {
		if d.Scope == ScopeCurrent {
			return "$$CURRENT"
		}
		return "$$ROOT"
	}
	prefix := "$"
	if d.Scope == ScopeCurrent {
		prefix = "$$CURRENT."
	}
	return fmt.Sprintf("%s%s", prefix, d.Path.String())
}

func (d DocVar) Equal(o DocVar) bool {
	if d.Scope != o.Scope {
		return false
	}
	if (d.Path == nil) != (o.Path == nil) {
		return false
	}
	return d.Path == nil || d.Path.Equal(o.Path)
}

// WithPath returns a copy of d with path appended to its existing path.
func (d DocVar) WithPath(more FieldPath) DocVar {
	if d.Path == nil {
		return DocVar{Scope: d.Scope, Path: more}
	}
	return DocVar{Scope: d.Scope, Path: d.Path.Append(more...)}
}
