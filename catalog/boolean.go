package catalog

import (
	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/logical"
)

// registerBoolean registers And, Or, Not, Cond, Coalesce, IsNull,
// Constantly, and their simplification identities (Testable Property 7).
func registerBoolean(r *Registry) {
	boolDomain := []atom.Type{atom.BoolT(), atom.BoolT()}

	r.Register(&Function{
		Name:   "And",
		Doc:    "And is n-ary logical conjunction.",
		Arity:  Variadic(2),
		Domain: boolDomain,
		Type:   func(args []atom.Type) (atom.Type, error) { return atom.BoolT(), nil },
		Simplify: func(args []logical.Plan) (logical.Plan, bool) {
			// AND(True, x) = x; AND(x, True) = x; AND(False, _) = False.
			var kept []logical.Plan
			for _, a := range args {
				if b, ok := asConstBool(a); ok {
					if !b {
						return logical.Constant(atom.Bool(false)), true
					}
					continue // drop a bare True operand
				}
				kept = append(kept, a)
			}
			switch len(kept) {
			case 0:
				return logical.Constant(atom.Bool(true)), true
			case 1:
				if len(kept) != len(args) {
					return kept[0], true
				}
				return logical.Plan{}, false
			default:
				if len(kept) != len(args) {
					return logical.Invoke(mustLookup(r, "And"), kept...), true
				}
				return logical.Plan{}, false
			}
		},
		Untype: domainUntype(boolDomain, atom.BoolT()),
	})

	r.Register(&Function{
		Name:   "Or",
		Doc:    "Or is n-ary logical disjunction.",
		Arity:  Variadic(2),
		Domain: boolDomain,
		Type:   func(args []atom.Type) (atom.Type, error) { return atom.BoolT(), nil },
		Simplify: func(args []logical.Plan) (logical.Plan, bool) {
			var kept []logical.Plan
			for _, a := range args {
				if b, ok := asConstBool(a); ok {
					if b {
						return logical.Constant(atom.Bool(true)), true
					}
					continue // drop a bare False operand
				}
				kept = append(kept, a)
			}
			switch len(kept) {
			case 0:
				return logical.Constant(atom.Bool(false)), true
			case 1:
				if len(kept) != len(args) {
					return kept[0], true
				}
				return logical.Plan{}, false
			default:
				if len(kept) != len(args) {
					return logical.Invoke(mustLookup(r, "Or"), kept...), true
				}
				return logical.Plan{}, false
			}
		},
		Untype: domainUntype(boolDomain, atom.BoolT()),
	})

	notDomain := []atom.Type{atom.BoolT()}
	r.Register(&Function{
		Name:   "Not",
		Doc:    "Not negates a boolean.",
		Arity:  Fixed(1),
		Domain: notDomain,
		Type: func(args []atom.Type) (atom.Type, error) {
			if d, ok := args[0].ConstValue(); ok && d.Kind() == atom.KindBool {
				return atom.ConstT(atom.Bool(!d.Bool())), nil
			}
			return atom.BoolT(), nil
		},
		Simplify: func(args []logical.Plan) (logical.Plan, bool) {
			if b, ok := asConstBool(args[0]); ok {
				return logical.Constant(atom.Bool(!b)), true
			}
			return logical.Plan{}, false
		},
		Untype: domainUntype(notDomain, atom.BoolT()),
	})

	r.Register(&Function{
		Name:  "Cond",
		Doc:   "Cond(test, then, else) is the ternary conditional.",
		Arity: Fixed(3),
		Type: func(args []atom.Type) (atom.Type, error) {
			return atom.Lub(args[1], args[2]), nil
		},
		Simplify: func(args []logical.Plan) (logical.Plan, bool) {
			if b, ok := asConstBool(args[0]); ok {
				if b {
					return args[1], true
				}
				return args[2], true
			}
			return logical.Plan{}, false
		},
		// Then/else branch types aren't known ahead of the expected result,
		// so only the test operand's type is fixed; the branches are left
		// to widen freely to whatever the caller expects.
		Untype: func(expected atom.Type) ([]atom.Type, error) {
			return []atom.Type{atom.BoolT(), expected, expected}, nil
		},
	})

	r.Register(&Function{
		Name:  "Coalesce",
		Doc:   "Coalesce returns the first non-null argument.",
		Arity: Variadic(2),
		Type: func(args []atom.Type) (atom.Type, error) {
			t := args[0]
			for _, a := range args[1:] {
				t = atom.Lub(t, a)
			}
			return t, nil
		},
		Simplify: func(args []logical.Plan) (logical.Plan, bool) {
			// COALESCE(Null, y) = y
			if isNullConst(args[0]) {
				if len(args) == 2 {
					return args[1], true
				}
				return logical.Invoke(mustLookup(r, "Coalesce"), args[1:]...), true
			}
			// COALESCE(x, Null) = x  (only safe to drop a trailing Null)
			if len(args) == 2 && isNullConst(args[1]) {
				return args[0], true
			}
			return logical.Plan{}, false
		},
		// Every operand may independently be Null, so each must only be
		// able to produce the expected type.
		Untype: func(expected atom.Type) ([]atom.Type, error) {
			return []atom.Type{expected, expected}, nil
		},
	})

	isNullDomain := []atom.Type{atom.Top()}
	r.Register(&Function{
		Name:   "IsNull",
		Doc:    "IsNull tests whether its argument is Null.",
		Arity:  Fixed(1),
		Domain: isNullDomain,
		Type:   func(args []atom.Type) (atom.Type, error) { return atom.BoolT(), nil },
		Simplify: func(args []logical.Plan) (logical.Plan, bool) {
			if d, ok := asConst(args[0]); ok {
				return logical.Constant(atom.Bool(d.IsNull())), true
			}
			return logical.Plan{}, false
		},
		Untype: domainUntype(isNullDomain, atom.BoolT()),
	})

	r.Register(&Function{
		Name:  "Constantly",
		Doc:   "Constantly(const, table) evaluates to const regardless of table; used to make constant SELECT projections survive set operations.",
		Arity: Fixed(2),
		Type:  func(args []atom.Type) (atom.Type, error) { return args[0], nil },
		// Identity on the const operand; the table operand is untyped
		// (it's only read for its row-stream cardinality, never its shape).
		Untype: func(expected atom.Type) ([]atom.Type, error) {
			return []atom.Type{expected, atom.Top()}, nil
		},
	})
}

func mustLookup(r *Registry, name string) *Function {
	f, ok := r.Lookup(name)
	if !ok {
		panic("catalog: " + name + " not registered yet (registration order bug)")
	}
	return f
}
