// Package compiler implements component D: the stateful lowering of an
// already-parsed, semantically-annotated SQL AST (package ast) into a
// LogicalPlan (package logical), using the function catalog (package
// catalog) to bind InvokeFunction nodes. Grounded on the teacher's
// datalog/planner package: a mutable *State threaded through a pipeline of
// phase functions, fresh-name generation via a monotonic counter, and
// save/restore scope guards around table-context pushes.
package compiler

import (
	"fmt"

	"github.com/sqlmongo/compiler/boundary"
	"github.com/sqlmongo/compiler/catalog"
	"github.com/sqlmongo/compiler/logical"
)

// Options carries tunables that do not change compilation semantics,
// grounded on the teacher's planner.PlannerOptions.
type Options struct {
	// EagerGroupingMemo is not consulted by the compiler: GROUP BY keys
	// are always memoized as soon as they are compiled, whatever its value.
	EagerGroupingMemo bool

	// MaxFreshNames bounds the fresh-name counter as an invariant check
	// (§7: optimizer/compiler invariant violations are bugs, not user
	// errors): Fresh panics once the counter reaches it, in every build.
	// A value of 0 or less disables the check.
	MaxFreshNames int
}

// DefaultOptions mirrors the teacher's zero-value-is-usable planner
// option convention.
func DefaultOptions() Options {
	return Options{EagerGroupingMemo: true, MaxFreshNames: 1_000_000}
}

// groupingMemo records the active GROUP BY's source plan name and the
// compiled key expressions, consulted by the grouped-reference rewrite of
// §4.D.
type groupingMemo struct {
	active     bool
	groupedSrc string
	keys       []logical.Plan
}

// State is the compiler's single mutable value, grounded on
// datalog/planner.Planner's field layout (tree, fields-in-scope,
// table-context stack, name counter, grouping memo).
type State struct {
	opts Options

	registry *catalog.Registry

	// fields is the list of column names directly addressable without a
	// table qualifier in the current scope.
	fields []string

	tableStack []*TableContext

	nameCounter int

	grouping groupingMemo

	// stats is the optional external collaborator §6 describes for
	// relation-existence checks; nil means the compiler trusts every FROM
	// reference (the behavior every caller got before WithCollectionStats
	// existed).
	stats boundary.CollectionStats
}

// NewState builds a fresh compiler state bound to registry for
// InvokeFunction resolution.
func NewState(registry *catalog.Registry, opts Options) *State {
	return &State{opts: opts, registry: registry}
}

// WithCollectionStats binds an external collection-stats source that
// compileFrom consults to reject a FROM clause naming a collection known
// not to exist, per §6 ("used only by the compiler ... to ask whether a
// relation reference is known to exist"). Returns s for chaining.
func (s *State) WithCollectionStats(stats boundary.CollectionStats) *State {
	s.stats = stats
	return s
}

// Fresh returns a monotonically increasing name guaranteed not to collide
// with user identifiers, which by validator precondition are never of the
// form "tmp<n>" (§4.D "Fresh names").
func (s *State) Fresh() string {
	if s.opts.MaxFreshNames > 0 && s.nameCounter >= s.opts.MaxFreshNames {
		panic(fmt.Sprintf("compiler: fresh name counter exceeded MaxFreshNames=%d", s.opts.MaxFreshNames))
	}
	n := s.nameCounter
	s.nameCounter++
	return fmt.Sprintf("tmp%d", n)
}

// CurrentTable returns the table context at the top of the stack, or nil
// if none is pushed.
func (s *State) CurrentTable() *TableContext {
	if len(s.tableStack) == 0 {
		return nil
	}
	return s.tableStack[len(s.tableStack)-1]
}

// PushTable pushes a new table context and returns a guard restoring the
// previous stack on Pop; callers use `defer guard.Pop()`, mirroring the
// teacher's `defer p.popTable()` RAII idiom (§4.D Design Notes / §9).
func (s *State) PushTable(tc *TableContext) *tableGuard {
	s.tableStack = append(s.tableStack, tc)
	return &tableGuard{s: s, depth: len(s.tableStack)}
}

type tableGuard struct {
	s     *State
	depth int
}

// Pop restores the table stack to its depth before the matching PushTable.
func (g *tableGuard) Pop() {
	if len(g.s.tableStack) >= g.depth {
		g.s.tableStack = g.s.tableStack[:g.depth-1]
	}
}

// WithFields pushes a new in-scope field list and returns a guard
// restoring the previous one.
func (s *State) WithFields(fields []string) func() {
	prev := s.fields
	s.fields = fields
	return func() { s.fields = prev }
}

// HasField reports whether name is directly addressable in the current
// scope without a table qualifier.
func (s *State) HasField(name string) bool {
	for _, f := range s.fields {
		if f == name {
			return true
		}
	}
	return false
}

// EnterGrouping activates the grouping memo for the duration of compiling
// a GROUP BY's dependent clauses (HAVING, SELECT, ORDER BY); returns a
// guard that deactivates it.
func (s *State) EnterGrouping(groupedSrc string, keys []logical.Plan) func() {
	prev := s.grouping
	s.grouping = groupingMemo{active: true, groupedSrc: groupedSrc, keys: keys}
	return func() { s.grouping = prev }
}

// Grouping reports the active grouping memo, if any.
func (s *State) Grouping() (src string, keys []logical.Plan, active bool) {
	return s.grouping.groupedSrc, s.grouping.keys, s.grouping.active
}

// IsMemoizedKey reports whether p is structurally identical to one of the
// active GROUP BY's key expressions (§4.D grouped-reference rewrite: a
// grouped reference equal to a key is wrapped in Arbitrary(...) by the
// caller rather than left as a raw multi-valued field access).
func (s *State) IsMemoizedKey(p logical.Plan) bool {
	if !s.grouping.active {
		return false
	}
	for _, k := range s.grouping.keys {
		if k.Equal(p) {
			return true
		}
	}
	return false
}

// Registry returns the function catalog this state resolves
// InvokeFunction nodes against.
func (s *State) Registry() *catalog.Registry { return s.registry }
