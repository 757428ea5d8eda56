// Package compileerr implements the error taxonomy of spec §7: a closed
// set of kinds, each carrying the structured fields relevant to that kind
// rather than an opaque message, mirroring how the teacher's executor
// package (datalog/executor/executor_utils.go) prefers typed fields over
// ad-hoc fmt.Errorf strings for anything a caller might want to inspect.
package compileerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind enumerates the error taxonomy of spec §7.
type Kind int

const (
	FunctionNotBound Kind = iota
	CompiledTableMissing
	CompiledSubtableMissing
	NoTableDefined
	AmbiguousReference
	ExpectedLiteral
	KindTypeError
	KindDateFormatError
	GenericErrorKind
)

func (k Kind) String() string {
	switch k {
	case FunctionNotBound:
		return "FunctionNotBound"
	case CompiledTableMissing:
		return "CompiledTableMissing"
	case CompiledSubtableMissing:
		return "CompiledSubtableMissing"
	case NoTableDefined:
		return "NoTableDefined"
	case AmbiguousReference:
		return "AmbiguousReference"
	case ExpectedLiteral:
		return "ExpectedLiteral"
	case KindTypeError:
		return "TypeError"
	case KindDateFormatError:
		return "DateFormatError"
	case GenericErrorKind:
		return "GenericError"
	default:
		return "UnknownError"
	}
}

// Error is the single error type for every compilation-logic violation.
// Fields are populated according to Kind; unused fields stay zero.
type Error struct {
	Kind Kind

	// FunctionNotBound, CompiledTableMissing/Subtable, NoTableDefined,
	// AmbiguousReference, ExpectedLiteral: Name carries the identifier.
	Name string

	// KindTypeError: Expected/Observed hold atom.Type values. Declared as
	// `any` (instead of atom.Type) to avoid an import cycle between
	// package atom (which raises DateFormatError while parsing literals)
	// and this package.
	Expected any
	Observed any
	Hint     string

	// KindDateFormatError
	DateKind  string
	DateInput string

	// GenericErrorKind
	Msg   string
	cause error
}

func (e *Error) Error() string {
	switch e.Kind {
	case FunctionNotBound:
		return fmt.Sprintf("function not bound: %s", e.Name)
	case CompiledTableMissing:
		return fmt.Sprintf("compiled table missing: %s", e.Name)
	case CompiledSubtableMissing:
		return fmt.Sprintf("compiled subtable missing: %s", e.Name)
	case NoTableDefined:
		return fmt.Sprintf("no table defined for identifier: %s", e.Name)
	case AmbiguousReference:
		return fmt.Sprintf("ambiguous reference: %s", e.Name)
	case ExpectedLiteral:
		return fmt.Sprintf("expected a literal: %s", e.Name)
	case KindTypeError:
		if e.Hint != "" {
			return fmt.Sprintf("type error: expected %v, observed %v (%s)", e.Expected, e.Observed, e.Hint)
		}
		return fmt.Sprintf("type error: expected %v, observed %v", e.Expected, e.Observed)
	case KindDateFormatError:
		return fmt.Sprintf("date format error (%s): %q: %s", e.DateKind, e.DateInput, e.Hint)
	case GenericErrorKind:
		if e.cause != nil {
			return fmt.Sprintf("%s: %v", e.Msg, e.cause)
		}
		return e.Msg
	default:
		return "unknown compile error"
	}
}

// Unwrap exposes the wrapped cause of a GenericError, if any, so callers
// may use errors.Is/errors.As across the boundary.
func (e *Error) Unwrap() error { return e.cause }

func NewFunctionNotBound(name string) error {
	return &Error{Kind: FunctionNotBound, Name: name}
}

func NewCompiledTableMissing(name string) error {
	return &Error{Kind: CompiledTableMissing, Name: name}
}

func NewCompiledSubtableMissing(name string) error {
	return &Error{Kind: CompiledSubtableMissing, Name: name}
}

func NewNoTableDefined(identifier string) error {
	return &Error{Kind: NoTableDefined, Name: identifier}
}

func NewAmbiguousReference(identifier string) error {
	return &Error{Kind: AmbiguousReference, Name: identifier}
}

func NewExpectedLiteral(where string) error {
	return &Error{Kind: ExpectedLiteral, Name: where}
}

// TypeError builds a TypeError; expected/observed are typically atom.Type
// values, passed as `any` to avoid the import cycle noted above.
func TypeError(expected, observed any, hint string) error {
	return &Error{Kind: KindTypeError, Expected: expected, Observed: observed, Hint: hint}
}

// DateFormatError builds a DateFormatError.
func DateFormatError(kind, input, hint string) error {
	return &Error{Kind: KindDateFormatError, DateKind: kind, DateInput: input, Hint: hint}
}

// Generic wraps any other compilation-logic violation, attaching a stack
// trace via github.com/pkg/errors so debug builds can report where the
// violation originated (the dependency is already present transitively
// through dgraph-io/badger in the teacher's module graph; this promotes
// it to direct, named use).
func Generic(msg string, cause error) error {
	var wrapped error
	if cause != nil {
		wrapped = errors.WithStack(cause)
	}
	return &Error{Kind: GenericErrorKind, Msg: msg, cause: wrapped}
}

// Genericf is the fmt.Errorf-style constructor for GenericError used where
// there is no underlying cause to wrap.
func Genericf(format string, args ...any) error {
	return &Error{Kind: GenericErrorKind, Msg: fmt.Sprintf(format, args...)}
}

// As reports whether err is (or wraps) a *Error of the given kind.
func As(err error, kind Kind) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, ce.Kind == kind
	}
	return nil, false
}
