package compiler

import (
	"github.com/sqlmongo/compiler/ast"
	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/compileerr"
	"github.com/sqlmongo/compiler/logical"
)

// resolveIdent implements §4.D's identifier-resolution rule: a name that
// is directly in scope projects off the current table's merged record;
// otherwise its relation is determined from semantic provenance. While a
// GROUP BY is active, a resolution matching one of the memoized key
// expressions is wrapped in Arbitrary(...) (§4.D grouped-reference
// rewrite): grouping collapses many rows sharing that key into one, so a
// raw per-row field access is no longer single-valued, but picking it
// back up from any one of the collapsed rows is sound precisely because
// every row in the group agrees on it.
func (s *State) resolveIdent(tree ast.Tree, node ast.Node, name string) (logical.Plan, error) {
	tc := s.CurrentTable()
	if tc == nil {
		return logical.Plan{}, compileerr.NewCompiledTableMissing(name)
	}

	var resolved logical.Plan
	if s.HasField(name) {
		resolved = s.objectProject(tc.Full, name)
	} else {
		relName, err := s.relationName(tree, node, name)
		if err != nil {
			return logical.Plan{}, err
		}

		sub, ok := tc.Subtables[relName]
		if !ok {
			return logical.Plan{}, compileerr.NewCompiledSubtableMissing(relName)
		}
		if relName == name {
			resolved = sub
		} else {
			resolved = s.objectProject(sub, name)
		}
	}

	if s.IsMemoizedKey(resolved) {
		fn, ok := s.registry.Lookup("Arbitrary")
		if !ok {
			return logical.Plan{}, compileerr.NewFunctionNotBound("Arbitrary")
		}
		return logical.Invoke(fn, resolved), nil
	}
	return resolved, nil
}

// relationName derives the single named relation node's provenance
// attributes, applying filename-match disambiguation when more than one
// candidate is present.
func (s *State) relationName(tree ast.Tree, node ast.Node, name string) (string, error) {
	attr := tree.Attr(node)
	switch len(attr.Provenance) {
	case 0:
		return "", compileerr.NewNoTableDefined(name)
	case 1:
		return attr.Provenance[0], nil
	default:
		for _, cand := range attr.Provenance {
			if cand == name {
				return cand, nil
			}
		}
		return "", compileerr.NewAmbiguousReference(name)
	}
}

func (s *State) objectProject(obj logical.Plan, key string) logical.Plan {
	fn, _ := s.registry.Lookup("ObjectProject")
	return logical.Invoke(fn, obj, logical.Constant(atom.Str(key)))
}
