package catalog

import (
	"testing"

	"github.com/sqlmongo/compiler/atom"
)

func TestArbitraryIsIdentityTyped(t *testing.T) {
	r := Default()
	fn := lookupFn(t, r, "Arbitrary")
	ty, err := fn.Type([]atom.Type{atom.StrT()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty.Tag() != atom.TagStr {
		t.Errorf("expected Arbitrary to be identity-typed, got %s", ty.String())
	}
}

func TestCountAlwaysReturnsInt(t *testing.T) {
	r := Default()
	fn := lookupFn(t, r, "Count")
	ty, err := fn.Type([]atom.Type{atom.StrT()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty.Tag() != atom.TagInt {
		t.Errorf("expected Count to return Int regardless of operand type, got %s", ty.String())
	}
}

func TestSumRejectsNonNumeric(t *testing.T) {
	r := Default()
	fn := lookupFn(t, r, "Sum")
	if _, err := fn.Type([]atom.Type{atom.StrT()}); err == nil {
		t.Errorf("expected Sum to reject a non-numeric column")
	}
}

func TestAvgAcceptsNumeric(t *testing.T) {
	r := Default()
	fn := lookupFn(t, r, "Avg")
	ty, err := fn.Type([]atom.Type{atom.IntT()})
	if err != nil {
		t.Errorf("expected Avg to accept Int, got error: %v", err)
	}
	if ty.Tag() != atom.TagInt {
		t.Errorf("expected Avg(Int) to type as Int, got %s", ty.String())
	}
}
