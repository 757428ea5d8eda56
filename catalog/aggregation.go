package catalog

import (
	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/compileerr"
)

// registerAggregation registers Arbitrary (pick-one-of-the-values, used
// to project a grouped non-aggregated column per spec §4.D's
// grouped-reference rewrite) plus Sum, Avg, Count, Min, Max.
func registerAggregation(r *Registry) {
	r.Register(&Function{
		Name:  "Arbitrary",
		Doc:   "Arbitrary(x) picks one representative value of x within a group.",
		Arity: Fixed(1),
		Type:  func(args []atom.Type) (atom.Type, error) { return args[0], nil },
		// Identity-typed: whatever result is expected is exactly what the
		// single operand must supply.
		Untype: func(expected atom.Type) ([]atom.Type, error) {
			return []atom.Type{expected}, nil
		},
	})
	countDomain := []atom.Type{atom.Top()}
	r.Register(&Function{
		Name:   "Count",
		Doc:    "Count(x) counts rows within a group.",
		Arity:  Fixed(1),
		Domain: countDomain,
		Type:   func(args []atom.Type) (atom.Type, error) { return atom.IntT(), nil },
		Untype: domainUntype(countDomain, atom.IntT()),
	})
	numeric := atom.UnionT(atom.IntT(), atom.DecT())
	numericAgg := func(name string) *Function {
		return &Function{
			Name:   name,
			Doc:    name + " aggregates a numeric column within a group.",
			Arity:  Fixed(1),
			Domain: []atom.Type{numeric},
			Type: func(args []atom.Type) (atom.Type, error) {
				if !atom.Numeric(args[0]) {
					return atom.Type{}, compileerr.TypeError(numeric, args[0], name+" requires a numeric operand")
				}
				return args[0].DataType(), nil
			},
			// The result type mirrors whichever numeric operand type was
			// summed/averaged/min'd/max'd, so inverting it requires the
			// expected type itself to be numeric and feeds it straight
			// back as the one argument's required type.
			Untype: func(expected atom.Type) ([]atom.Type, error) {
				if !atom.Numeric(expected) {
					return nil, compileerr.TypeError(numeric, expected, name+" cannot produce a non-numeric result")
				}
				return []atom.Type{expected}, nil
			},
		}
	}
	r.Register(numericAgg("Sum"))
	r.Register(numericAgg("Avg"))
	r.Register(numericAgg("Min"))
	r.Register(numericAgg("Max"))
}
