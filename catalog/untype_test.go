package catalog

import (
	"testing"

	"github.com/sqlmongo/compiler/atom"
)

func TestAddUntypeRejectsNonNumericExpected(t *testing.T) {
	r := Default()
	add := lookupFn(t, r, "Add")
	if _, err := add.Untype(atom.StrT()); err == nil {
		t.Errorf("expected Untype to reject a non-numeric expected type for Add")
	}
}

func TestAddUntypeAcceptsNumericExpected(t *testing.T) {
	r := Default()
	add := lookupFn(t, r, "Add")
	domain, err := add.Untype(atom.IntT())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(domain) != 2 {
		t.Errorf("expected a 2-element domain, got %v", domain)
	}
}

func TestNegateUntypeRejectsNonNumericExpected(t *testing.T) {
	r := Default()
	negate := lookupFn(t, r, "Negate")
	if _, err := negate.Untype(atom.BoolT()); err == nil {
		t.Errorf("expected Untype to reject a non-numeric expected type for Negate")
	}
}

func TestDateUntypeRejectsNonDateExpected(t *testing.T) {
	r := Default()
	date := lookupFn(t, r, "Date")
	if _, err := date.Untype(atom.IntT()); err == nil {
		t.Errorf("expected Untype to reject a non-Date expected type for Date")
	}
	domain, err := date.Untype(atom.DateT())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(domain) != 1 || domain[0].Tag() != atom.TagStr {
		t.Errorf("expected Date's Untype to require a Str operand, got %v", domain)
	}
}

func TestToTimestampUntypeAcceptsTimestampExpected(t *testing.T) {
	r := Default()
	toTs := lookupFn(t, r, "ToTimestamp")
	domain, err := toTs.Untype(atom.TimestampT())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(domain) != 1 || domain[0].Tag() != atom.TagInt {
		t.Errorf("expected ToTimestamp's Untype to require an Int operand, got %v", domain)
	}
}

func TestArbitraryUntypeIsIdentity(t *testing.T) {
	r := Default()
	arb := lookupFn(t, r, "Arbitrary")
	domain, err := arb.Untype(atom.StrT())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(domain) != 1 || domain[0].Tag() != atom.TagStr {
		t.Errorf("expected Arbitrary's Untype to echo the expected type, got %v", domain)
	}
}

func TestSumUntypeRejectsNonNumericExpected(t *testing.T) {
	r := Default()
	sum := lookupFn(t, r, "Sum")
	if _, err := sum.Untype(atom.StrT()); err == nil {
		t.Errorf("expected Sum's Untype to reject a non-numeric expected type")
	}
	domain, err := sum.Untype(atom.DecT())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(domain) != 1 || domain[0].Tag() != atom.TagDec {
		t.Errorf("expected Sum's Untype to require a matching Dec operand, got %v", domain)
	}
}

func TestCountUntypeRejectsNonIntExpected(t *testing.T) {
	r := Default()
	count := lookupFn(t, r, "Count")
	if _, err := count.Untype(atom.StrT()); err == nil {
		t.Errorf("expected Count's Untype to reject a non-Int expected type")
	}
	domain, err := count.Untype(atom.IntT())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(domain) != 1 {
		t.Errorf("expected a 1-element domain, got %v", domain)
	}
}

func TestDefaultUntypeIsPermissiveFallback(t *testing.T) {
	r := NewRegistry()
	r.Register(&Function{Name: "Adhoc", Arity: Fixed(1), Domain: []atom.Type{atom.StrT()}})
	fn := lookupFn(t, r, "Adhoc")
	domain, err := fn.Untype(atom.IntT())
	if err != nil {
		t.Fatalf("expected the default Untype fallback never to error, got %v", err)
	}
	if len(domain) != 1 || domain[0].Tag() != atom.TagStr {
		t.Errorf("expected the default Untype fallback to echo Domain verbatim, got %v", domain)
	}
}
