package catalog

import (
	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/logical"
)

// registerRelational registers Eq, Neq, Lt, Lte, Gt, Gte, Between.
func registerRelational(r *Registry) {
	cmp := func(name string) *Function {
		domain := []atom.Type{atom.Top(), atom.Top()}
		return &Function{
			Name:   name,
			Doc:    name + " compares two operands of comparable type.",
			Arity:  Fixed(2),
			Domain: domain,
			Type: func(args []atom.Type) (atom.Type, error) {
				if !comparable(args[0], args[1]) {
					return atom.Type{}, atom.Typecheck(args[1], args[0])
				}
				ca, aok := args[0].ConstValue()
				cb, bok := args[1].ConstValue()
				if aok && bok {
					return atom.ConstT(atom.Bool(evalCompare(name, ca, cb))), nil
				}
				return atom.BoolT(), nil
			},
			Simplify: func(args []logical.Plan) (logical.Plan, bool) {
				ca, aok := asConst(args[0])
				cb, bok := asConst(args[1])
				if !aok || !bok {
					return logical.Plan{}, false
				}
				return logical.Constant(atom.Bool(evalCompare(name, ca, cb))), true
			},
			Untype: domainUntype(domain, atom.BoolT()),
		}
	}
	r.Register(cmp("Eq"))
	r.Register(cmp("Neq"))
	r.Register(cmp("Lt"))
	r.Register(cmp("Lte"))
	r.Register(cmp("Gt"))
	r.Register(cmp("Gte"))

	betweenDomain := []atom.Type{atom.Top(), atom.Top(), atom.Top()}
	r.Register(&Function{
		Name:   "Between",
		Doc:    "Between(x, lo, hi) tests lo <= x <= hi.",
		Arity:  Fixed(3),
		Domain: betweenDomain,
		Type: func(args []atom.Type) (atom.Type, error) {
			return atom.BoolT(), nil
		},
		Simplify: func(args []logical.Plan) (logical.Plan, bool) {
			x, xok := asConst(args[0])
			lo, lok := asConst(args[1])
			hi, hok := asConst(args[2])
			if !xok || !lok || !hok {
				return logical.Plan{}, false
			}
			pass := atom.CompareData(lo, x) <= 0 && atom.CompareData(x, hi) <= 0
			return logical.Constant(atom.Bool(pass)), true
		},
		Untype: domainUntype(betweenDomain, atom.BoolT()),
	})
}

func comparable(a, b atom.Type) bool {
	if atom.Numeric(a) && atom.Numeric(b) {
		return true
	}
	return a.DataType().Tag() == b.DataType().Tag()
}

func evalCompare(name string, a, b atom.Data) bool {
	c := atom.CompareData(a, b)
	switch name {
	case "Eq":
		return c == 0
	case "Neq":
		return c != 0
	case "Lt":
		return c < 0
	case "Lte":
		return c <= 0
	case "Gt":
		return c > 0
	case "Gte":
		return c >= 0
	default:
		return false
	}
}
