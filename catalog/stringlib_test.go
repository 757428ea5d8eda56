package catalog

import (
	"testing"

	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/logical"
)

func TestConcatFoldsConstantStrings(t *testing.T) {
	r := Default()
	concat := lookupFn(t, r, "Concat")
	ty, err := concat.Type([]atom.Type{atom.ConstT(atom.Str("foo")), atom.ConstT(atom.Str("bar"))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := ty.ConstValue()
	if !ok || v.Str() != "foobar" {
		t.Errorf("expected Concat to fold to \"foobar\", got %s", ty.String())
	}
}

func TestConcatRejectsNonString(t *testing.T) {
	r := Default()
	concat := lookupFn(t, r, "Concat")
	if _, err := concat.Type([]atom.Type{atom.StrT(), atom.IntT()}); err == nil {
		t.Errorf("expected Concat to reject a non-string operand")
	}
}

func TestConcatSimplifyFoldsConstantPlans(t *testing.T) {
	r := Default()
	concat := lookupFn(t, r, "Concat")
	a := logical.Constant(atom.Str("a"))
	b := logical.Constant(atom.Str("b"))
	folded, ok := concat.Simplify([]logical.Plan{a, b})
	if !ok || folded.ConstantValue().Str() != "ab" {
		t.Errorf("expected Concat(a, b) to fold to \"ab\"")
	}
}

func TestSearchSimplifiesConstantMatch(t *testing.T) {
	r := Default()
	search := lookupFn(t, r, "Search")
	s := logical.Constant(atom.Str("hello"))
	p := logical.Constant(atom.Str("^h.*o$"))
	result, ok := search.Simplify([]logical.Plan{s, p})
	if !ok || !result.ConstantValue().Bool() {
		t.Errorf("expected Search(\"hello\", \"^h.*o$\") to simplify to true")
	}
}

func TestSearchSimplifiesConstantNonMatch(t *testing.T) {
	r := Default()
	search := lookupFn(t, r, "Search")
	s := logical.Constant(atom.Str("hello"))
	p := logical.Constant(atom.Str("^x"))
	result, ok := search.Simplify([]logical.Plan{s, p})
	if !ok || result.ConstantValue().Bool() {
		t.Errorf("expected Search(\"hello\", \"^x\") to simplify to false")
	}
}
