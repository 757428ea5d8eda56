package catalog

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/compileerr"
	"github.com/sqlmongo/compiler/logical"
)

// asConst returns the constant Data held by p if p is a Constant node.
func asConst(p logical.Plan) (atom.Data, bool) {
	if p.Tag() != logical.TagConstant {
		return atom.Data{}, false
	}
	return p.ConstantValue(), true
}

func asConstBool(p logical.Plan) (bool, bool) {
	d, ok := asConst(p)
	if !ok || d.Kind() != atom.KindBool {
		return false, false
	}
	return d.Bool(), true
}

func isNullConst(p logical.Plan) bool {
	d, ok := asConst(p)
	return ok && d.IsNull()
}

func isZero(d atom.Data) bool {
	switch d.Kind() {
	case atom.KindInt:
		return d.Int().Sign() == 0
	case atom.KindDec:
		return d.Dec().IsZero()
	default:
		return false
	}
}

func isOne(d atom.Data) bool {
	switch d.Kind() {
	case atom.KindInt:
		return d.Int().Cmp(big.NewInt(1)) == 0
	case atom.KindDec:
		return d.Dec().Equal(decimal.NewFromInt(1))
	default:
		return false
	}
}

// promote decides the result Kind of a binary arithmetic op per spec
// §4.C: any numeric op with at least one Dec operand promotes to Dec.
func promote(a, b atom.Type) atom.Type {
	if a.DataType().Tag() == atom.TagDec || b.DataType().Tag() == atom.TagDec {
		return atom.DecT()
	}
	return atom.IntT()
}

// domainUntype builds an Untyper for a function whose codomain is fixed
// (independent of its arguments): it fails with a TypeError unless expected
// and codomain overlap (either could narrow to the other — codomain may
// itself be a union describing every type the function can produce, so a
// plain atom.Typecheck's one-directional containment is too strict), and
// otherwise hands back a copy of domain, inverting the function's declared
// parameter types per spec §4.C's "either yields a required argument-type
// list or fails with TypeError."
func domainUntype(domain []atom.Type, codomain atom.Type) Untyper {
	return func(expected atom.Type) ([]atom.Type, error) {
		if !atom.Contains(expected, codomain) && !atom.Contains(codomain, expected) {
			return nil, compileerr.TypeError(codomain, expected, "function cannot produce the expected type")
		}
		return append([]atom.Type(nil), domain...), nil
	}
}
