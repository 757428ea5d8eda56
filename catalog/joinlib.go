package catalog

import "github.com/sqlmongo/compiler/atom"

// registerJoin registers Join(left, right, predicate, kind), the function
// §4.D's FROM step invokes for every JOIN clause; kind is a Const(Str)
// literal among "Inner"/"LeftOuter"/"RightOuter"/"FullOuter".
func registerJoin(r *Registry) {
	joinDomain := []atom.Type{atom.Top(), atom.Top(), atom.BoolT(), atom.StrT()}
	r.Register(&Function{
		Name:   "Join",
		Doc:    "Join(left, right, predicate, kind) composes two relations under a join predicate.",
		Arity:  Fixed(4),
		Domain: joinDomain,
		Type: func(args []atom.Type) (atom.Type, error) {
			// The merged shape is produced by the surrounding
			// TableContext's ObjectConcat, not recomputed here; a
			// standalone Join invocation's result type is left
			// conservatively open.
			return atom.Top(), nil
		},
		// The result type is always Top regardless of operands, so the
		// only thing Untype can validate is that Top was in fact expected;
		// the declared domain is handed back unconditionally.
		Untype: domainUntype(joinDomain, atom.Top()),
	})
}
