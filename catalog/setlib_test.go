package catalog

import (
	"testing"

	"github.com/sqlmongo/compiler/atom"
)

func TestSetLibFunctionsAreIdentityTyped(t *testing.T) {
	r := Default()
	in := atom.ObjT([]string{"a"}, map[string]atom.Type{"a": atom.IntT()}, nil)
	for _, name := range []string{"Filter", "GroupBy", "OrderBy", "Distinct", "DistinctBy", "Take", "Drop", "Squash"} {
		fn := lookupFn(t, r, name)
		args := make([]atom.Type, fn.Arity.Min)
		args[0] = in
		ty, err := fn.Type(args)
		if err != nil {
			t.Errorf("%s.Type failed: %v", name, err)
			continue
		}
		if ty.String() != in.String() {
			t.Errorf("%s expected identity on first argument, got %s", name, ty.String())
		}
	}
}

func TestSetLibArities(t *testing.T) {
	r := Default()
	cases := map[string]int{
		"Filter": 2, "GroupBy": 2, "OrderBy": 3, "Distinct": 1,
		"DistinctBy": 2, "Take": 2, "Drop": 2, "Squash": 1,
	}
	for name, n := range cases {
		fn := lookupFn(t, r, name)
		if !fn.Arity.Accepts(n) {
			t.Errorf("expected %s to accept arity %d", name, n)
		}
		if fn.Arity.Accepts(n + 1) {
			t.Errorf("expected %s to reject arity %d (it is Fixed)", name, n+1)
		}
	}
}
