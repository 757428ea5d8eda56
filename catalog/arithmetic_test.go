package catalog

import (
	"testing"

	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/logical"
)

func lookupFn(t *testing.T, r *Registry, name string) *Function {
	t.Helper()
	fn, ok := r.Lookup(name)
	if !ok {
		t.Fatalf("expected %s to be registered", name)
	}
	return fn
}

func TestArityAccepts(t *testing.T) {
	if !Fixed(2).Accepts(2) || Fixed(2).Accepts(1) || Fixed(2).Accepts(3) {
		t.Errorf("Fixed(2) arity check wrong")
	}
	v := Variadic(1)
	if v.Accepts(0) || !v.Accepts(1) || !v.Accepts(50) {
		t.Errorf("Variadic(1) arity check wrong")
	}
}

func TestAddPromotesToDecWhenEitherOperandIsDec(t *testing.T) {
	r := Default()
	add := lookupFn(t, r, "Add")
	ty, err := add.Type([]atom.Type{atom.IntT(), atom.DecT()})
	if err != nil {
		t.Fatalf("Add.Type failed: %v", err)
	}
	if ty.Tag() != atom.TagDec {
		t.Errorf("expected Dec promotion, got %s", ty.String())
	}
}

func TestAddOfTwoIntsStaysInt(t *testing.T) {
	r := Default()
	add := lookupFn(t, r, "Add")
	ty, err := add.Type([]atom.Type{atom.IntT(), atom.IntT()})
	if err != nil {
		t.Fatalf("Add.Type failed: %v", err)
	}
	if ty.Tag() != atom.TagInt {
		t.Errorf("expected Int, got %s", ty.String())
	}
}

func TestAddRejectsNonNumeric(t *testing.T) {
	r := Default()
	add := lookupFn(t, r, "Add")
	if _, err := add.Type([]atom.Type{atom.StrT(), atom.IntT()}); err == nil {
		t.Errorf("expected a type error adding a Str to an Int")
	}
}

func TestDivideByLiteralZeroIsTypeError(t *testing.T) {
	r := Default()
	div := lookupFn(t, r, "Divide")
	zero := atom.ConstT(atom.Int(0))
	if _, err := div.Type([]atom.Type{atom.IntT(), zero}); err == nil {
		t.Errorf("expected Divide by a literal 0 to be a type error")
	}
}

func TestAddIdentitySimplifiesAwayZero(t *testing.T) {
	r := Default()
	add := lookupFn(t, r, "Add")
	x := logical.Free("x")
	zero := logical.Constant(atom.Int(0))

	simplified, ok := add.Simplify([]logical.Plan{x, zero})
	if !ok || !simplified.Equal(x) {
		t.Errorf("expected Add(x, 0) to simplify to x")
	}
	simplified, ok = add.Simplify([]logical.Plan{zero, x})
	if !ok || !simplified.Equal(x) {
		t.Errorf("expected Add(0, x) to simplify to x")
	}
}

func TestAddFoldsTwoConstants(t *testing.T) {
	r := Default()
	add := lookupFn(t, r, "Add")
	a := logical.Constant(atom.Int(2))
	b := logical.Constant(atom.Int(3))
	folded, ok := add.Simplify([]logical.Plan{a, b})
	if !ok {
		t.Fatalf("expected constant folding to apply")
	}
	if folded.ConstantValue().Int().Int64() != 5 {
		t.Errorf("expected 2+3=5, got %s", folded.ConstantValue().String())
	}
}

func TestMultiplyIdentitySimplifiesAwayOne(t *testing.T) {
	r := Default()
	mul := lookupFn(t, r, "Multiply")
	x := logical.Free("x")
	one := logical.Constant(atom.Int(1))
	simplified, ok := mul.Simplify([]logical.Plan{one, x})
	if !ok || !simplified.Equal(x) {
		t.Errorf("expected Multiply(1, x) to simplify to x")
	}
}

func TestSubtractIdentityOnlyAppliesOnRight(t *testing.T) {
	r := Default()
	sub := lookupFn(t, r, "Subtract")
	x := logical.Free("x")
	zero := logical.Constant(atom.Int(0))
	// x - 0 = x
	simplified, ok := sub.Simplify([]logical.Plan{x, zero})
	if !ok || !simplified.Equal(x) {
		t.Errorf("expected Subtract(x, 0) to simplify to x")
	}
	// 0 - x must NOT simplify to x (it's -x)
	if _, ok := sub.Simplify([]logical.Plan{zero, x}); ok {
		t.Errorf("expected Subtract(0, x) to not simplify via the identity rule")
	}
}

func TestNegateFoldsConstant(t *testing.T) {
	r := Default()
	neg := lookupFn(t, r, "Negate")
	five := logical.Constant(atom.Int(5))
	folded, ok := neg.Simplify([]logical.Plan{five})
	if !ok || folded.ConstantValue().Int().Int64() != -5 {
		t.Errorf("expected Negate(5) to fold to -5")
	}
}

func TestTimestampPlusIntervalIsTimestamp(t *testing.T) {
	r := Default()
	add := lookupFn(t, r, "Add")
	ty, err := add.Type([]atom.Type{atom.TimestampT(), atom.IntervalT()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty.Tag() != atom.TagTimestamp {
		t.Errorf("expected Timestamp, got %s", ty.String())
	}
}
