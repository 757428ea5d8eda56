package optimize

import (
	"strings"
	"testing"

	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/workflow"
)

func projectField(name, ref string) *workflow.Reshape {
	r := workflow.NewReshape()
	r.Set(name, workflow.LeafShape(workflow.Var(atom.RootPath(atom.P(ref)))))
	return r
}

func TestDeleteUnusedFieldsDropsUnreferencedField(t *testing.T) {
	src := workflow.Read("people")
	shape := workflow.NewReshape()
	shape.Set("name", workflow.LeafShape(workflow.Var(atom.RootPath(atom.P("name")))))
	shape.Set("age", workflow.LeafShape(workflow.Var(atom.RootPath(atom.P("age")))))
	proj := workflow.RawProject(src, shape, workflow.ExcludeId)

	matched := workflow.RawMatch(proj, workflow.Op("$gt", workflow.Var(atom.RootPath(atom.P("name"))), workflow.Literal(atom.Str(""))))

	// A bare top-level $Match never narrows the live set on its own (it
	// only unions with whatever its consumer already needed), so the
	// dead "age" field only actually gets pruned once a final $Project
	// states what the consumer really needs.
	final := projectField("name", "name")
	sink := workflow.RawProject(matched, final, workflow.ExcludeId)

	pruned := DeleteUnusedFields(sink)
	// age is referenced nowhere downstream of the $Project, so it should
	// be gone; name is referenced by the $Match selector and the final
	// projection, so it survives.
	s := pruned.String()
	if strings.Contains(s, "age:") {
		t.Errorf("expected age field pruned, got %s", s)
	}
	if !strings.Contains(s, "name:") {
		t.Errorf("expected name field kept, got %s", s)
	}
}

func TestDeleteUnusedFieldsElidesEmptyProject(t *testing.T) {
	src := workflow.Read("people")
	shape := workflow.NewReshape()
	shape.Set("age", workflow.LeafShape(workflow.Var(atom.RootPath(atom.P("age")))))
	proj := workflow.Project(src, shape, workflow.ExcludeId)

	// DeleteUnusedFields seeds the walk with AllUsed() at the very top, so
	// proj alone would keep "age"; put a second $Project on top that only
	// references "name", so "age" is genuinely dead and proj empties out.
	other := workflow.NewReshape()
	other.Set("name", workflow.LeafShape(workflow.Var(atom.RootPath(atom.P("name")))))
	top := workflow.Project(proj, other, workflow.ExcludeId)

	pruned := DeleteUnusedFields(top)
	if strings.Contains(pruned.String(), "age:") {
		t.Errorf("expected the empty/unused age project elided, got %s", pruned.String())
	}
}

func TestCoalesceFusesTwoProjects(t *testing.T) {
	src := workflow.Read("people")
	inner := projectField("name", "name")
	inner.Set("age", workflow.LeafShape(workflow.Var(atom.RootPath(atom.P("age")))))
	step1 := workflow.RawProject(src, inner, workflow.ExcludeId)

	outer := projectField("age2", "age")
	step2 := workflow.RawProject(step1, outer, workflow.ExcludeId)

	fused, changed := Coalesce(step2)
	if !changed {
		t.Fatalf("expected Coalesce to report a change")
	}
	if fused.Tag() != workflow.StageProject {
		t.Fatalf("expected a single $Project, got %s", fused.Tag())
	}
	if fused.Source().Tag() != workflow.StageRead {
		t.Errorf("expected the two projects fused into one directly over $Read, got source tag %s", fused.Source().Tag())
	}
}

func TestCoalesceFusesMatchAnd(t *testing.T) {
	src := workflow.Read("people")
	m1 := workflow.Match(src, workflow.Op("$gt", workflow.Var(atom.RootPath(atom.P("age"))), workflow.Literal(atom.Int(1))))
	m2 := workflow.RawMatch(m1, workflow.Op("$lt", workflow.Var(atom.RootPath(atom.P("age"))), workflow.Literal(atom.Int(100))))

	fused, changed := Coalesce(m2)
	if !changed {
		t.Fatalf("expected a change")
	}
	if fused.Tag() != workflow.StageMatch {
		t.Fatalf("expected a single $Match, got %s", fused.Tag())
	}
	if fused.Selector().OpName() != "$and" {
		t.Errorf("expected the fused selector to be $and, got %s", fused.Selector().OpName())
	}
}

func TestReorderPushesLimitThroughProject(t *testing.T) {
	src := workflow.Read("people")
	shape := projectField("name", "name")
	proj := workflow.RawProject(src, shape, workflow.ExcludeId)
	lim := workflow.RawLimit(proj, 10)

	reordered := ReorderOps(lim)
	if reordered.Tag() != workflow.StageProject {
		t.Fatalf("expected $Limit pushed below $Project, got top tag %s", reordered.Tag())
	}
	if reordered.Source().Tag() != workflow.StageLimit {
		t.Errorf("expected $Limit directly above $Read, got %s", reordered.Source().Tag())
	}
}

func TestOptimizeConverges(t *testing.T) {
	src := workflow.Read("people")
	inner := projectField("name", "name")
	step1 := workflow.RawProject(src, inner, workflow.ExcludeId)
	outer := projectField("name2", "name")
	step2 := workflow.RawProject(step1, outer, workflow.ExcludeId)
	lim := workflow.RawLimit(step2, 5)

	result := Optimize(lim)
	if result == nil {
		t.Fatalf("expected a non-nil result")
	}
	// Must not panic or loop forever; a second Optimize call should be a
	// no-op (already at fixed point).
	again := Optimize(result)
	if again.String() != result.String() {
		t.Errorf("expected Optimize to be idempotent at a fixed point:\n%s\nvs\n%s", result.String(), again.String())
	}
}
