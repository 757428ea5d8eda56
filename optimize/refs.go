// Package optimize implements the Pipeline Optimizer of spec §4.F: a set
// of confluent, shape-preserving rewrite passes over a workflow.Workflow,
// applied to a fixed point. Grounded on the teacher's
// datalog/planner package (phase reordering, decorrelation, pruning passes
// threaded over an immutable plan tree) — the same bottom-up/top-down
// rewrite style, generalized from a relational query plan to a MongoDB
// aggregation pipeline.
package optimize

import "github.com/sqlmongo/compiler/atom"

// RefSet models Option<Set<DocVar>> from §4.F's deleteUnusedFields: AllUsed()
// means "conservatively assume every field is used" (propagated once an
// opaque $Map/$SimpleMap/$FlatMap/$Reduce stage is crossed).
type RefSet struct {
	all  bool
	refs []atom.DocVar
}

func AllUsed() RefSet { return RefSet{all: true} }

func NewRefSet(refs ...atom.DocVar) RefSet { return RefSet{refs: refs} }

// Union returns the set of refs from both sets, short-circuiting to AllUsed()
// if either side is AllUsed().
func (r RefSet) Union(o RefSet) RefSet {
	if r.all || o.all {
		return AllUsed()
	}
	out := make([]atom.DocVar, 0, len(r.refs)+len(o.refs))
	out = append(out, r.refs...)
	out = append(out, o.refs...)
	return RefSet{refs: out}
}

// With returns a copy of r with extra refs added.
func (r RefSet) With(extra ...atom.DocVar) RefSet {
	if r.all {
		return r
	}
	out := make([]atom.DocVar, 0, len(r.refs)+len(extra))
	out = append(out, r.refs...)
	out = append(out, extra...)
	return RefSet{refs: out}
}

// IsLive reports whether d has a defining or referencing counterpart
// already known to be live, per §4.F's prefix-in-either-direction test
// and §4.G's strict sequence-prefix semantics.
func (r RefSet) IsLive(d atom.DocVar) bool {
	if r.all {
		return true
	}
	for _, used := range r.refs {
		if used.Scope != d.Scope {
			continue
		}
		if atom.InPrefixRelation(d.Path, used.Path) {
			return true
		}
	}
	return false
}
