package shape

import (
	"testing"

	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/workflow"
)

func TestGet0EmptyStackReturnsRootVar(t *testing.T) {
	got, ok := Get0(atom.P("a", "b"), nil)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Tag() != workflow.ShapeLeaf {
		t.Fatalf("expected a leaf shape")
	}
	v := got.AsLeaf().VarRef().Path
	if v.String() != atom.P("a", "b").String() {
		t.Errorf("expected path a.b, got %s", v.String())
	}
}

func TestGet0ResolvesThroughRename(t *testing.T) {
	// upstream $Project{x: $var(root.y)}
	upstream := workflow.NewReshape()
	upstream.Set("x", workflow.LeafShape(workflow.Var(atom.RootPath(atom.P("y")))))

	got, ok := Get0(atom.P("x"), []*workflow.Reshape{upstream})
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Tag() != workflow.ShapeLeaf {
		t.Fatalf("expected leaf")
	}
	ref := got.AsLeaf().VarRef()
	if ref.Path.String() != atom.P("y").String() {
		t.Errorf("expected resolved path y, got %s", ref.Path.String())
	}
}

func TestGet0MissingFieldFails(t *testing.T) {
	upstream := workflow.NewReshape()
	upstream.Set("x", workflow.LeafShape(workflow.Var(atom.RootPath(atom.P("y")))))

	_, ok := Get0(atom.P("z"), []*workflow.Reshape{upstream})
	if ok {
		t.Fatalf("expected missing field to fail resolution")
	}
}

func TestInlineProjectDropsUnresolvableFields(t *testing.T) {
	upstream := workflow.NewReshape()
	upstream.Set("x", workflow.LeafShape(workflow.Var(atom.RootPath(atom.P("y")))))

	outer := workflow.NewReshape()
	outer.Set("x2", workflow.LeafShape(workflow.Var(atom.RootPath(atom.P("x")))))
	outer.Set("missing2", workflow.LeafShape(workflow.Var(atom.RootPath(atom.P("nope")))))

	inlined := InlineProject(outer, []*workflow.Reshape{upstream})
	if inlined.Len() != 1 {
		t.Fatalf("expected only the resolvable field to survive, got %d keys", inlined.Len())
	}
	got, ok := inlined.Get("x2")
	if !ok {
		t.Fatalf("expected x2 to be present")
	}
	if got.AsLeaf().VarRef().Path.String() != atom.P("y").String() {
		t.Errorf("expected x2 to resolve to y, got %s", got.AsLeaf().VarRef().Path.String())
	}
}

func TestFixExprSubstitutesNestedOps(t *testing.T) {
	upstream := workflow.NewReshape()
	upstream.Set("x", workflow.LeafShape(workflow.Var(atom.RootPath(atom.P("y")))))

	expr := workflow.Op("$gt", workflow.Var(atom.RootPath(atom.P("x"))), workflow.Literal(atom.Int(1)))
	fixed, ok := FixExpr([]*workflow.Reshape{upstream}, expr)
	if !ok {
		t.Fatalf("expected ok")
	}
	if fixed.OpArgs()[0].VarRef().Path.String() != atom.P("y").String() {
		t.Errorf("expected substituted arg to reference y, got %s", fixed.OpArgs()[0].VarRef().Path.String())
	}
}
