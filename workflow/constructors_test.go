package workflow

import (
	"testing"

	"github.com/sqlmongo/compiler/atom"
)

func TestMatchSmartConstructorFusesAdjacentMatch(t *testing.T) {
	src := Read("t")
	a := Op("$gt", Var(atom.RootPath(atom.P("age"))), Literal(atom.Int(1)))
	b := Op("$lt", Var(atom.RootPath(atom.P("age"))), Literal(atom.Int(100)))
	m1 := Match(src, a)
	m2 := Match(m1, b)

	if m2.Tag() != StageMatch {
		t.Fatalf("expected a single $Match, got %s", m2.Tag())
	}
	if m2.Source().Tag() != StageRead {
		t.Fatalf("expected the fused $Match to sit directly over $Read, got %s", m2.Source().Tag())
	}
	if m2.Selector().OpName() != "$and" {
		t.Errorf("expected fused selector to be $and, got %s", m2.Selector().OpName())
	}
}

func TestSkipSmartConstructorSumsAdjacentSkip(t *testing.T) {
	src := Read("t")
	s1 := Skip(src, 5)
	s2 := Skip(s1, 7)
	if s2.Tag() != StageSkip {
		t.Fatalf("expected a single $Skip, got %s", s2.Tag())
	}
	if s2.N() != 12 {
		t.Errorf("expected summed offset 12, got %d", s2.N())
	}
	if s2.Source().Tag() != StageRead {
		t.Errorf("expected fused $Skip directly over $Read, got %s", s2.Source().Tag())
	}
}

func TestSkipZeroIsElided(t *testing.T) {
	src := Read("t")
	if Skip(src, 0) != src {
		t.Errorf("expected Skip(src, 0) to elide to src unchanged")
	}
}

func TestLimitSmartConstructorTakesMinimum(t *testing.T) {
	src := Read("t")
	l1 := Limit(src, 10)
	tighter := Limit(l1, 5)
	if tighter.N() != 5 {
		t.Errorf("expected tighter limit to win, got %d", tighter.N())
	}
	looser := Limit(l1, 50)
	if looser.N() != 10 {
		t.Errorf("expected the existing tighter limit to survive a looser request, got %d", looser.N())
	}
}

func TestProjectSmartConstructorElidesEmptyOuterProject(t *testing.T) {
	src := Read("t")
	inner := NewReshape()
	inner.Set("x", LeafShape(Var(atom.RootPath(atom.P("x")))))
	proj := Project(src, inner, ExcludeId)

	empty := NewReshape()
	outer := Project(proj, empty, ExcludeId)
	if outer != proj {
		t.Errorf("expected an empty outer $Project over an existing $Project to elide to the inner project")
	}
}

func TestAndFlattensNestedAnd(t *testing.T) {
	a := Op("$gt", Var(atom.RootPath(atom.P("x"))), Literal(atom.Int(1)))
	b := Op("$lt", Var(atom.RootPath(atom.P("x"))), Literal(atom.Int(10)))
	c := Op("$ne", Var(atom.RootPath(atom.P("y"))), Literal(atom.Int(0)))

	ab := And(a, b)
	abc := And(ab, c)
	if abc.OpName() != "$and" {
		t.Fatalf("expected $and, got %s", abc.OpName())
	}
	if len(abc.OpArgs()) != 3 {
		t.Errorf("expected nested $and flattened into 3 args, got %d", len(abc.OpArgs()))
	}
}
