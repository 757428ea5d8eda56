package atom

import "testing"

func TestFieldPathEqual(t *testing.T) {
	a := P("a", "b", "c")
	b := P("a", "b", "c")
	c := P("a", "b")
	if !a.Equal(b) {
		t.Errorf("expected equal paths to compare equal")
	}
	if a.Equal(c) {
		t.Errorf("expected paths of different length to be unequal")
	}
}

func TestFieldPathHasPrefixIsElementWiseNotStringWise(t *testing.T) {
	// "a.bcd" must NOT be considered a prefix-match of "a.b" even though
	// the raw strings "a.b" and "a.bcd" share a character prefix.
	abcd := P("a", "bcd")
	ab := P("a", "b")
	if abcd.HasPrefix(ab) {
		t.Errorf("expected element-wise prefix check to reject a string-level coincidence")
	}
	abc := P("a", "b", "c")
	if !abc.HasPrefix(ab) {
		t.Errorf("expected a.b.c to have prefix a.b")
	}
}

func TestInPrefixRelationIsSymmetric(t *testing.T) {
	short := P("a")
	long := P("a", "b")
	if !InPrefixRelation(short, long) || !InPrefixRelation(long, short) {
		t.Errorf("expected InPrefixRelation to hold in either direction")
	}
	if InPrefixRelation(P("x"), P("y")) {
		t.Errorf("expected unrelated paths to not be in a prefix relation")
	}
}

func TestDocVarEqual(t *testing.T) {
	a := RootPath(P("x", "y"))
	b := RootPath(P("x", "y"))
	c := CurrentPath(P("x", "y"))
	if !a.Equal(b) {
		t.Errorf("expected equal DocVars to compare equal")
	}
	if a.Equal(c) {
		t.Errorf("expected different scopes to be unequal")
	}
	if !RootVar().Equal(DocVar{Scope: ScopeRoot}) {
		t.Errorf("expected a pathless RootVar to equal the zero-path DocVar")
	}
}

func TestDocVarWithPathAppends(t *testing.T) {
	base := RootPath(P("a"))
	extended := base.WithPath(P("b"))
	if extended.Path.String() != "a.b" {
		t.Errorf("expected a.b, got %s", extended.Path.String())
	}
	rootOnly := RootVar().WithPath(P("z"))
	if rootOnly.Path.String() != "z" {
		t.Errorf("expected WithPath off a pathless var to just be the new path, got %s", rootOnly.Path.String())
	}
}

func TestDataEqual(t *testing.T) {
	if !Equal(Int(5), Int(5)) {
		t.Errorf("expected Int(5) == Int(5)")
	}
	if Equal(Int(5), Int(6)) {
		t.Errorf("expected Int(5) != Int(6)")
	}
	if Equal(Int(5), Str("5")) {
		t.Errorf("expected values of different Kind to be unequal")
	}
}

func TestCompareDataOrdersInts(t *testing.T) {
	if CompareData(Int(1), Int(2)) >= 0 {
		t.Errorf("expected 1 < 2")
	}
	if CompareData(Int(2), Int(2)) != 0 {
		t.Errorf("expected 2 == 2")
	}
	if CompareData(Int(3), Int(2)) <= 0 {
		t.Errorf("expected 3 > 2")
	}
}

func TestTypeContainsTopAndBottom(t *testing.T) {
	if !Contains(Top(), IntT()) {
		t.Errorf("expected Top to contain Int")
	}
	if !Contains(IntT(), Bottom()) {
		t.Errorf("expected any type to contain Bottom")
	}
	if Contains(IntT(), StrT()) {
		t.Errorf("expected Int to not contain Str")
	}
}

func TestLubOfIdenticalTypesIsItself(t *testing.T) {
	if Lub(IntT(), IntT()).Tag() != TagInt {
		t.Errorf("expected Lub(Int, Int) = Int")
	}
}

func TestLubOfArraysLubsElements(t *testing.T) {
	a := ArrT(IntT())
	b := ArrT(DecT())
	lub := Lub(a, b)
	elem, ok := lub.ElemType()
	if !ok {
		t.Fatalf("expected an array type")
	}
	if !Numeric(elem) {
		t.Errorf("expected the Lub of Int and Dec array elements to remain numeric, got %s", elem.String())
	}
}

func TestNumericRecognizesIntDecAndUnion(t *testing.T) {
	if !Numeric(IntT()) || !Numeric(DecT()) {
		t.Errorf("expected Int and Dec to be numeric")
	}
	if !Numeric(UnionT(IntT(), DecT())) {
		t.Errorf("expected a union of Int|Dec to be numeric")
	}
	if Numeric(UnionT(IntT(), StrT())) {
		t.Errorf("expected a union containing Str to not be numeric")
	}
}

func TestTypecheckAcceptsCompatibleAndRejectsIncompatible(t *testing.T) {
	if err := Typecheck(IntT(), Top()); err != nil {
		t.Errorf("expected Int to typecheck against Top: %v", err)
	}
	if err := Typecheck(StrT(), IntT()); err == nil {
		t.Errorf("expected Str to fail typechecking against Int")
	}
}

func TestConstTypeContainsOnlyEqualConst(t *testing.T) {
	five := ConstT(Int(5))
	otherFive := ConstT(Int(5))
	six := ConstT(Int(6))
	if !Contains(five, otherFive) {
		t.Errorf("expected Const(5) to contain Const(5)")
	}
	if Contains(five, six) {
		t.Errorf("expected Const(5) to not contain Const(6)")
	}
}
