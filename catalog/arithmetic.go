package catalog

import (
	"math/big"

	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/compileerr"
	"github.com/sqlmongo/compiler/logical"
)

// registerArithmetic registers Add, Subtract, Multiply, Divide, Modulo,
// Negate, with the Dec-promotion rule, additive/multiplicative identities,
// div/mod-by-zero as a type error, and the Timestamp/Interval special
// cases of spec §4.C.
func registerArithmetic(r *Registry) {
	numeric := atom.UnionT(atom.IntT(), atom.DecT())
	binNumericDomain := []atom.Type{numeric, numeric}

	r.Register(&Function{
		Name:   "Add",
		Doc:    "Add(a, b) = a + b. Timestamp + Interval = Timestamp.",
		Arity:  Fixed(2),
		Domain: binNumericDomain,
		Type:   arithType("Add"),
		Simplify: identitySimplify(func(d atom.Data) bool { return isZero(d) }, true, true, arithFold("Add")),
		Untype:   domainUntype(binNumericDomain, numeric),
	})
	r.Register(&Function{
		Name:   "Subtract",
		Doc:    "Subtract(a, b) = a - b.",
		Arity:  Fixed(2),
		Domain: binNumericDomain,
		Type:   arithType("Subtract"),
		Simplify: identitySimplify(func(d atom.Data) bool { return isZero(d) }, false, true, arithFold("Subtract")),
		Untype:   domainUntype(binNumericDomain, numeric),
	})
	r.Register(&Function{
		Name:   "Multiply",
		Doc:    "Multiply(a, b) = a * b. Interval * Int = Interval.",
		Arity:  Fixed(2),
		Domain: binNumericDomain,
		Type:   arithType("Multiply"),
		Simplify: identitySimplify(func(d atom.Data) bool { return isOne(d) }, true, true, arithFold("Multiply")),
		Untype:   domainUntype(binNumericDomain, numeric),
	})
	r.Register(&Function{
		Name:   "Divide",
		Doc:    "Divide(a, b) = a / b; dividing by a literal 0 is a type error.",
		Arity:  Fixed(2),
		Domain: binNumericDomain,
		Type:   divModType("Divide"),
		Simplify: identitySimplify(func(d atom.Data) bool { return isOne(d) }, false, true, arithFold("Divide")),
		Untype:   domainUntype(binNumericDomain, numeric),
	})
	r.Register(&Function{
		Name:     "Modulo",
		Doc:      "Modulo(a, b) = a % b; modulo by a literal 0 is a type error.",
		Arity:    Fixed(2),
		Domain:   binNumericDomain,
		Type:     divModType("Modulo"),
		Simplify: arithFold("Modulo"),
		Untype:   domainUntype(binNumericDomain, numeric),
	})

	negateDomain := []atom.Type{numeric}
	r.Register(&Function{
		Name:   "Negate",
		Doc:    "Negate(a) = -a.",
		Arity:  Fixed(1),
		Domain: negateDomain,
		Type: func(args []atom.Type) (atom.Type, error) {
			if !atom.Numeric(args[0]) {
				return atom.Type{}, compileerr.TypeError(atom.UnionT(atom.IntT(), atom.DecT()), args[0], "Negate requires a numeric operand")
			}
			if d, ok := args[0].ConstValue(); ok {
				return atom.ConstT(negateData(d)), nil
			}
			return args[0].DataType(), nil
		},
		Simplify: func(args []logical.Plan) (logical.Plan, bool) {
			if d, ok := asConst(args[0]); ok {
				return logical.Constant(negateData(d)), true
			}
			return logical.Plan{}, false
		},
		Untype: domainUntype(negateDomain, numeric),
	})
}

func negateData(d atom.Data) atom.Data {
	if d.Kind() == atom.KindDec {
		return atom.Dec(d.Dec().Neg())
	}
	return atom.IntFromBig(new(big.Int).Neg(d.Int()))
}

// arithType builds the Typer for Add/Subtract/Multiply/Divide, handling
// the Dec-promotion rule and the Timestamp+Interval / Interval*Int special
// cases before falling back to plain numeric promotion.
func arithType(name string) Typer {
	return func(args []atom.Type) (atom.Type, error) {
		a, b := args[0].DataType(), args[1].DataType()

		if name == "Add" && a.Tag() == atom.TagTimestamp && b.Tag() == atom.TagInterval {
			return atom.TimestampT(), nil
		}
		if name == "Add" && a.Tag() == atom.TagInterval && b.Tag() == atom.TagTimestamp {
			return atom.TimestampT(), nil
		}
		if name == "Multiply" && a.Tag() == atom.TagInterval && b.Tag() == atom.TagInt {
			return atom.IntervalT(), nil
		}
		if name == "Multiply" && a.Tag() == atom.TagInt && b.Tag() == atom.TagInterval {
			return atom.IntervalT(), nil
		}

		if !atom.Numeric(args[0]) || !atom.Numeric(args[1]) {
			return atom.Type{}, compileerr.TypeError(atom.UnionT(atom.IntT(), atom.DecT()), atom.UnionT(args[0], args[1]), name+" requires numeric operands")
		}
		if ca, ok := args[0].ConstValue(); ok {
			if cb, ok := args[1].ConstValue(); ok {
				v, err := evalArith(name, ca, cb)
				if err != nil {
					return atom.Type{}, err
				}
				return atom.ConstT(v), nil
			}
		}
		return promote(args[0], args[1]), nil
	}
}

// divModType is arithType plus the static division/modulo-by-zero check.
func divModType(name string) Typer {
	base := arithType(name)
	return func(args []atom.Type) (atom.Type, error) {
		if d, ok := args[1].ConstValue(); ok && d.IsNumber() && isZero(d) {
			return atom.Type{}, compileerr.Genericf("%s by zero", name)
		}
		return base(args)
	}
}

func arithFold(name string) Simplifier {
	return func(args []logical.Plan) (logical.Plan, bool) {
		a, aok := asConst(args[0])
		b, bok := asConst(args[1])
		if !aok || !bok {
			return logical.Plan{}, false
		}
		v, err := evalArith(name, a, b)
		if err != nil {
			return logical.Plan{}, false
		}
		return logical.Constant(v), true
	}
}

func evalArith(name string, a, b atom.Data) (atom.Data, error) {
	if a.Kind() == atom.KindInt && b.Kind() == atom.KindInt && name != "Divide" {
		x, y := a.Int(), b.Int()
		switch name {
		case "Add":
			return atom.IntFromBig(new(big.Int).Add(x, y)), nil
		case "Subtract":
			return atom.IntFromBig(new(big.Int).Sub(x, y)), nil
		case "Multiply":
			return atom.IntFromBig(new(big.Int).Mul(x, y)), nil
		case "Modulo":
			if y.Sign() == 0 {
				return atom.Data{}, compileerr.Genericf("Modulo by zero")
			}
			return atom.IntFromBig(new(big.Int).Rem(x, y)), nil
		}
	}
	x, y := a.AsDecimal(), b.AsDecimal()
	switch name {
	case "Add":
		return atom.Dec(x.Add(y)), nil
	case "Subtract":
		return atom.Dec(x.Sub(y)), nil
	case "Multiply":
		return atom.Dec(x.Mul(y)), nil
	case "Divide":
		if y.IsZero() {
			return atom.Data{}, compileerr.Genericf("Divide by zero")
		}
		return atom.Dec(x.Div(y)), nil
	case "Modulo":
		if y.IsZero() {
			return atom.Data{}, compileerr.Genericf("Modulo by zero")
		}
		return atom.Dec(x.Mod(y)), nil
	default:
		return atom.Data{}, compileerr.Genericf("unknown arithmetic operator: %s", name)
	}
}

// identitySimplify builds a Simplifier that drops an identity-valued
// operand (per isIdentity) on the left and/or right, per spec Testable
// Property 7 ("x + 0 = x", "x * 1 = x"), falling back to constant folding
// when both operands are constants.
func identitySimplify(isIdentity func(atom.Data) bool, identityOnLeft, identityOnRight bool, fold Simplifier) Simplifier {
	return func(args []logical.Plan) (logical.Plan, bool) {
		if v, ok := fold(args); ok {
			return v, true
		}
		if identityOnRight {
			if d, ok := asConst(args[1]); ok && isIdentity(d) {
				return args[0], true
			}
		}
		if identityOnLeft {
			if d, ok := asConst(args[0]); ok && isIdentity(d) {
				return args[1], true
			}
		}
		return logical.Plan{}, false
	}
}
