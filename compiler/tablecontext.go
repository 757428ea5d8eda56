package compiler

import (
	"github.com/sqlmongo/compiler/catalog"
	"github.com/sqlmongo/compiler/logical"
)

// TableContext tracks the relation(s) addressable in the current FROM
// scope, grounded on the teacher's planner.TableContext (root plan +
// named subtable map threaded through join compilation).
type TableContext struct {
	// Full is the merged record an unqualified identifier is projected
	// from.
	Full logical.Plan

	// Subtables maps a table/alias name to the plan producing just that
	// relation's record, for qualified references ("t.col" compiled as
	// Ident("col") resolved against subtable "t").
	Subtables map[string]logical.Plan
}

// NewLeafTable builds a TableContext for a single FROM-item bound to
// plan under name.
func NewLeafTable(name string, plan logical.Plan) *TableContext {
	return &TableContext{
		Full:      plan,
		Subtables: map[string]logical.Plan{name: plan},
	}
}

// MergeTables composes two table contexts under a JOIN: the merged Full
// record is ObjectConcat(lhs.Full, rhs.Full) (§4.D "TableContext
// composition"); the subtable set is the union, left winning on name
// collisions.
func MergeTables(registry *catalog.Registry, lhs, rhs *TableContext) *TableContext {
	concat, _ := registry.Lookup("ObjectConcat")
	full := logical.Invoke(concat, lhs.Full, rhs.Full)

	subtables := make(map[string]logical.Plan, len(lhs.Subtables)+len(rhs.Subtables))
	for k, v := range rhs.Subtables {
		subtables[k] = v
	}
	for k, v := range lhs.Subtables {
		subtables[k] = v
	}
	return &TableContext{Full: full, Subtables: subtables}
}
