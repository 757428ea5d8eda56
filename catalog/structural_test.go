package catalog

import (
	"testing"

	"github.com/sqlmongo/compiler/atom"
)

func TestMakeObjectRequiresLiteralKey(t *testing.T) {
	r := Default()
	fn := lookupFn(t, r, "MakeObject")
	if _, err := fn.Type([]atom.Type{atom.StrT(), atom.IntT()}); err == nil {
		t.Errorf("expected a non-literal key to be rejected")
	}
	ty, err := fn.Type([]atom.Type{atom.ConstT(atom.Str("a")), atom.IntT()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order, fields, ok := ty.ObjFields()
	if !ok || len(order) != 1 || order[0] != "a" || fields["a"].Tag() != atom.TagInt {
		t.Errorf("expected single field 'a': Int, got %s", ty.String())
	}
}

func TestMakeArrayNTakesLubOfElements(t *testing.T) {
	r := Default()
	fn := lookupFn(t, r, "MakeArrayN")
	ty, err := fn.Type([]atom.Type{atom.IntT(), atom.DecT()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elem, ok := ty.ElemType()
	if !ok {
		t.Fatalf("expected an array type")
	}
	if elem.Tag() != atom.Lub(atom.IntT(), atom.DecT()).Tag() {
		t.Errorf("expected elem type to be Lub(Int, Dec), got %s", elem.String())
	}
}

func TestMakeArrayNEmptyIsArrayOfTop(t *testing.T) {
	r := Default()
	fn := lookupFn(t, r, "MakeArrayN")
	ty, err := fn.Type(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elem, ok := ty.ElemType()
	if !ok || elem.Tag() != atom.TagTop {
		t.Errorf("expected Array<Top> for zero elements, got %s", ty.String())
	}
}

func TestObjectConcatLaterFieldWins(t *testing.T) {
	r := Default()
	fn := lookupFn(t, r, "ObjectConcat")
	a := atom.ObjT([]string{"x"}, map[string]atom.Type{"x": atom.IntT()}, nil)
	b := atom.ObjT([]string{"x"}, map[string]atom.Type{"x": atom.StrT()}, nil)
	ty, err := fn.Type([]atom.Type{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, fields, _ := ty.ObjFields()
	if fields["x"].Tag() != atom.TagStr {
		t.Errorf("expected b's field to win the conflict, got %s", fields["x"].String())
	}
}

func TestObjectProjectResolvesKnownField(t *testing.T) {
	r := Default()
	fn := lookupFn(t, r, "ObjectProject")
	obj := atom.ObjT([]string{"name"}, map[string]atom.Type{"name": atom.StrT()}, nil)
	ty, err := fn.Type([]atom.Type{obj, atom.ConstT(atom.Str("name"))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty.Tag() != atom.TagStr {
		t.Errorf("expected Str, got %s", ty.String())
	}
}

func TestObjectProjectUnknownFieldIsTop(t *testing.T) {
	r := Default()
	fn := lookupFn(t, r, "ObjectProject")
	obj := atom.ObjT([]string{"name"}, map[string]atom.Type{"name": atom.StrT()}, nil)
	ty, err := fn.Type([]atom.Type{obj, atom.ConstT(atom.Str("missing"))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty.Tag() != atom.TagTop {
		t.Errorf("expected Top for an unknown field, got %s", ty.String())
	}
}

func TestDeleteFieldRemovesKey(t *testing.T) {
	r := Default()
	fn := lookupFn(t, r, "DeleteField")
	obj := atom.ObjT([]string{"a", "b"}, map[string]atom.Type{"a": atom.IntT(), "b": atom.StrT()}, nil)
	ty, err := fn.Type([]atom.Type{obj, atom.ConstT(atom.Str("a"))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order, fields, _ := ty.ObjFields()
	if len(order) != 1 || order[0] != "b" {
		t.Errorf("expected only 'b' to survive, got %v", order)
	}
	if _, ok := fields["a"]; ok {
		t.Errorf("expected 'a' removed")
	}
}
