// Package catalog implements the Function Catalog of spec §4.C: named
// operators with a domain arity, a partial simplifier, a partial typer,
// and an untyper (contravariant domain inference). Grounded on the
// teacher's function/predicate/aggregate triad
// (datalog/query/function.go, predicate.go, aggregate.go) and its
// name-indexed constructor registry (datalog/query/function_registry.go).
package catalog

import (
	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/logical"
)

// Simplifier is a partial function over argument trees; it returns
// (simplified, true) when a rewrite rule applies, or (zero, false)
// otherwise.
type Simplifier func(args []logical.Plan) (logical.Plan, bool)

// Typer is a partial function from argument types to a result type; it
// may fail with a TypeError.
type Typer func(args []atom.Type) (atom.Type, error)

// Untyper infers required argument types from an expected result type.
type Untyper func(expected atom.Type) ([]atom.Type, error)

// Arity describes how many arguments a Function accepts: a fixed count,
// or a variadic minimum.
type Arity struct {
	Min      int
	Max      int // -1 means unbounded (variadic)
}

func Fixed(n int) Arity    { return Arity{Min: n, Max: n} }
func Variadic(min int) Arity { return Arity{Min: min, Max: -1} }

func (a Arity) Accepts(n int) bool {
	return n >= a.Min && (a.Max < 0 || n <= a.Max)
}

// Function is one entry of the catalog.
type Function struct {
	Name   string
	Doc    string
	Arity  Arity
	Domain []atom.Type // declared parameter types, used when no narrower Typer result applies

	Simplify Simplifier
	Type     Typer
	Untype   Untyper
}

// FuncName implements logical.Function so a *Function can be used directly
// as the function reference carried by logical.Invoke.
func (f *Function) FuncName() string { return f.Name }

// defaultTyper returns Domain-insensitive codomain when all Typers are nil;
// every registered Function below supplies a real Typer, but ad hoc
// functions built by tests may rely on this no-op default (see
// SPEC_FULL.md property 9).
func defaultTyper(codomain atom.Type) Typer {
	return func(args []atom.Type) (atom.Type, error) { return codomain, nil }
}

func noopSimplify(args []logical.Plan) (logical.Plan, bool) { return logical.Plan{}, false }

// defaultUntype is the fallback for functions that declare no Untype of
// their own: it hands back a copy of Domain unconditionally. Every
// function whose result type is fixed or simply invertible (relational,
// arithmetic, date parsers, aggregation) supplies a real Untype built with
// domainUntype instead; this fallback only backs genuinely polymorphic
// catalog entries (and ad hoc Functions built by tests) where no single
// expected-type check would be meaningful.
func defaultUntype(domain []atom.Type) Untyper {
	return func(expected atom.Type) ([]atom.Type, error) {
		return append([]atom.Type(nil), domain...), nil
	}
}

// Registry is a name-indexed catalog of functions, grounded on
// function_registry.go's map-of-constructors pattern.
type Registry struct {
	funcs map[string]*Function
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]*Function)}
}

// Register adds fn to the registry, keyed by fn.Name. Every field the
// caller leaves nil is filled with a safe default so Simplify/Type/Untype
// are never nil (property 9 of SPEC_FULL.md).
func (r *Registry) Register(fn *Function) {
	if fn.Simplify == nil {
		fn.Simplify = noopSimplify
	}
	if fn.Type == nil {
		fn.Type = defaultTyper(atom.Top())
	}
	if fn.Untype == nil {
		fn.Untype = defaultUntype(fn.Domain)
	}
	r.funcs[fn.Name] = fn
}

// Lookup resolves a function by name, returning (nil, false) if unbound.
// Callers that need an error (rather than a bool) should wrap this with
// compileerr.NewFunctionNotBound.
func (r *Registry) Lookup(name string) (*Function, bool) {
	f, ok := r.funcs[name]
	return f, ok
}

// All returns every registered function, for introspection/debug tooling.
func (r *Registry) All() []*Function {
	out := make([]*Function, 0, len(r.funcs))
	for _, f := range r.funcs {
		out = append(out, f)
	}
	return out
}

// Default builds the registry described in spec §4.C.
func Default() *Registry {
	r := NewRegistry()
	registerRelational(r)
	registerJoin(r)
	registerBoolean(r)
	registerArithmetic(r)
	registerDateLib(r)
	registerStringLib(r)
	registerStructural(r)
	registerSetLib(r)
	registerAggregation(r)
	return r
}
