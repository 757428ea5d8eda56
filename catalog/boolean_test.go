package catalog

import (
	"testing"

	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/logical"
)

func TestAndDropsBareTrueOperands(t *testing.T) {
	r := Default()
	and := lookupFn(t, r, "And")
	x := logical.Free("x")
	tru := logical.Constant(atom.Bool(true))
	result, ok := and.Simplify([]logical.Plan{tru, x})
	if !ok || !result.Equal(x) {
		t.Errorf("expected And(true, x) to simplify to x")
	}
}

func TestAndShortCircuitsOnFalse(t *testing.T) {
	r := Default()
	and := lookupFn(t, r, "And")
	x := logical.Free("x")
	f := logical.Constant(atom.Bool(false))
	result, ok := and.Simplify([]logical.Plan{x, f})
	if !ok || result.ConstantValue().Bool() {
		t.Errorf("expected And(x, false) to simplify to false")
	}
}

func TestAndAllTrueOperandsSimplifiesToTrue(t *testing.T) {
	r := Default()
	and := lookupFn(t, r, "And")
	tru := logical.Constant(atom.Bool(true))
	result, ok := and.Simplify([]logical.Plan{tru, tru})
	if !ok || !result.ConstantValue().Bool() {
		t.Errorf("expected And(true, true) to simplify to true")
	}
}

func TestOrDropsBareFalseOperands(t *testing.T) {
	r := Default()
	or := lookupFn(t, r, "Or")
	x := logical.Free("x")
	f := logical.Constant(atom.Bool(false))
	result, ok := or.Simplify([]logical.Plan{f, x})
	if !ok || !result.Equal(x) {
		t.Errorf("expected Or(false, x) to simplify to x")
	}
}

func TestOrShortCircuitsOnTrue(t *testing.T) {
	r := Default()
	or := lookupFn(t, r, "Or")
	x := logical.Free("x")
	tru := logical.Constant(atom.Bool(true))
	result, ok := or.Simplify([]logical.Plan{x, tru})
	if !ok || !result.ConstantValue().Bool() {
		t.Errorf("expected Or(x, true) to simplify to true")
	}
}

func TestNotFoldsConstant(t *testing.T) {
	r := Default()
	not := lookupFn(t, r, "Not")
	f := logical.Constant(atom.Bool(false))
	result, ok := not.Simplify([]logical.Plan{f})
	if !ok || !result.ConstantValue().Bool() {
		t.Errorf("expected Not(false) to simplify to true")
	}
}

func TestCondPicksThenBranchWhenTestIsTrue(t *testing.T) {
	r := Default()
	cond := lookupFn(t, r, "Cond")
	tru := logical.Constant(atom.Bool(true))
	then := logical.Constant(atom.Int(1))
	els := logical.Constant(atom.Int(2))
	result, ok := cond.Simplify([]logical.Plan{tru, then, els})
	if !ok || result.ConstantValue().Int().Int64() != 1 {
		t.Errorf("expected Cond(true, 1, 2) to simplify to 1")
	}
}

func TestCoalesceSkipsLeadingNull(t *testing.T) {
	r := Default()
	coalesce := lookupFn(t, r, "Coalesce")
	null := logical.Constant(atom.Null())
	y := logical.Free("y")
	result, ok := coalesce.Simplify([]logical.Plan{null, y})
	if !ok || !result.Equal(y) {
		t.Errorf("expected Coalesce(null, y) to simplify to y")
	}
}

func TestCoalesceDropsTrailingNull(t *testing.T) {
	r := Default()
	coalesce := lookupFn(t, r, "Coalesce")
	x := logical.Free("x")
	null := logical.Constant(atom.Null())
	result, ok := coalesce.Simplify([]logical.Plan{x, null})
	if !ok || !result.Equal(x) {
		t.Errorf("expected Coalesce(x, null) to simplify to x")
	}
}

func TestIsNullFoldsOnConstant(t *testing.T) {
	r := Default()
	isNull := lookupFn(t, r, "IsNull")
	result, ok := isNull.Simplify([]logical.Plan{logical.Constant(atom.Null())})
	if !ok || !result.ConstantValue().Bool() {
		t.Errorf("expected IsNull(null) to simplify to true")
	}
	result, ok = isNull.Simplify([]logical.Plan{logical.Constant(atom.Int(1))})
	if !ok || result.ConstantValue().Bool() {
		t.Errorf("expected IsNull(1) to simplify to false")
	}
}
