package catalog

import (
	"github.com/sqlmongo/compiler/atom"
)

// registerSetLib registers Filter, GroupBy, OrderBy, Distinct, DistinctBy,
// Take, Drop, Squash. These operate on the set-like value a SELECT's
// upstream relation represents during logical compilation (spec §4.D
// steps 2-9); their result type is, conservatively, the input type, since
// none of them add or remove fields from individual elements (GroupBy's
// result shape is decided by the compiler's surrounding Grouped rewrite,
// not by this function in isolation).
func registerSetLib(r *Registry) {
	identityArr := func(name string, arity Arity) *Function {
		return &Function{
			Name:  name,
			Doc:   name + " operates on the element sequence produced by its first argument.",
			Arity: arity,
			Type: func(args []atom.Type) (atom.Type, error) {
				return args[0], nil
			},
			// Identity on the first (sequence) argument; any trailing
			// predicate/key/count arguments are left open since the
			// expected result type says nothing about them.
			Untype: func(expected atom.Type) ([]atom.Type, error) {
				out := make([]atom.Type, arity.Min)
				out[0] = expected
				for i := 1; i < arity.Min; i++ {
					out[i] = atom.Top()
				}
				return out, nil
			},
		}
	}
	r.Register(identityArr("Filter", Fixed(2)))
	r.Register(identityArr("GroupBy", Fixed(2)))
	r.Register(identityArr("OrderBy", Fixed(3)))
	r.Register(identityArr("Distinct", Fixed(1)))
	r.Register(identityArr("DistinctBy", Fixed(2)))
	r.Register(identityArr("Take", Fixed(2)))
	r.Register(identityArr("Drop", Fixed(2)))
	r.Register(identityArr("Squash", Fixed(1)))
}
