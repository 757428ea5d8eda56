package catalog

import (
	"testing"

	"github.com/sqlmongo/compiler/atom"
)

func TestDateParserFoldsConstantLiteral(t *testing.T) {
	r := Default()
	date := lookupFn(t, r, "Date")
	ty, err := date.Type([]atom.Type{atom.ConstT(atom.Str("2024-01-15"))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ty.ConstValue(); !ok {
		t.Errorf("expected Date of a constant string literal to fold to a constant, got %s", ty.String())
	}
}

func TestDateParserRejectsNonString(t *testing.T) {
	r := Default()
	date := lookupFn(t, r, "Date")
	if _, err := date.Type([]atom.Type{atom.IntT()}); err == nil {
		t.Errorf("expected Date to reject a non-string operand")
	}
}

func TestDateParserNonConstStringTypesAsDate(t *testing.T) {
	r := Default()
	date := lookupFn(t, r, "Date")
	ty, err := date.Type([]atom.Type{atom.StrT()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty.Tag() != atom.TagDate {
		t.Errorf("expected non-constant Date(str) to type as Date, got %s", ty.String())
	}
}

func TestExtractRequiresTemporalOperand(t *testing.T) {
	r := Default()
	extract := lookupFn(t, r, "Extract")
	if _, err := extract.Type([]atom.Type{atom.StrT(), atom.StrT()}); err == nil {
		t.Errorf("expected Extract to reject a non-temporal second operand")
	}
	ty, err := extract.Type([]atom.Type{atom.StrT(), atom.TimestampT()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty.Tag() != atom.TagInt {
		t.Errorf("expected Extract to return Int, got %s", ty.String())
	}
}

func TestTimeOfDayRequiresTimestamp(t *testing.T) {
	r := Default()
	tod := lookupFn(t, r, "TimeOfDay")
	if _, err := tod.Type([]atom.Type{atom.DateT()}); err == nil {
		t.Errorf("expected TimeOfDay to reject a non-Timestamp operand")
	}
	ty, err := tod.Type([]atom.Type{atom.TimestampT()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ty.Tag() != atom.TagTime {
		t.Errorf("expected TimeOfDay(Timestamp) to type as Time, got %s", ty.String())
	}
}

func TestToTimestampFoldsConstantEpoch(t *testing.T) {
	r := Default()
	toTs := lookupFn(t, r, "ToTimestamp")
	ty, err := toTs.Type([]atom.Type{atom.ConstT(atom.Int(0))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := ty.ConstValue()
	if !ok || v.Kind() != atom.KindTimestamp {
		t.Errorf("expected ToTimestamp(Const(0)) to fold to a constant Timestamp, got %s", ty.String())
	}
}

func TestToTimestampRejectsNonInt(t *testing.T) {
	r := Default()
	toTs := lookupFn(t, r, "ToTimestamp")
	if _, err := toTs.Type([]atom.Type{atom.StrT()}); err == nil {
		t.Errorf("expected ToTimestamp to reject a non-Int operand")
	}
}
