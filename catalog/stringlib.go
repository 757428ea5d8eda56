package catalog

import (
	"regexp"
	"strings"

	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/compileerr"
	"github.com/sqlmongo/compiler/logical"
)

// registerStringLib registers Concat and Search.
func registerStringLib(r *Registry) {
	concatDomain := []atom.Type{atom.StrT(), atom.StrT()}
	r.Register(&Function{
		Name:   "Concat",
		Doc:    "Concat concatenates its string arguments.",
		Arity:  Variadic(1),
		Domain: concatDomain,
		Type: func(args []atom.Type) (atom.Type, error) {
			for _, a := range args {
				if !atom.Contains(atom.StrT(), a) {
					return atom.Type{}, compileerr.TypeError(atom.StrT(), a, "Concat requires string operands")
				}
			}
			allConst := true
			var b strings.Builder
			for _, a := range args {
				d, ok := a.ConstValue()
				if !ok || d.Kind() != atom.KindStr {
					allConst = false
					break
				}
				b.WriteString(d.Str())
			}
			if allConst {
				return atom.ConstT(atom.Str(b.String())), nil
			}
			return atom.StrT(), nil
		},
		Simplify: func(args []logical.Plan) (logical.Plan, bool) {
			var b strings.Builder
			for _, a := range args {
				d, ok := asConst(a)
				if !ok || d.Kind() != atom.KindStr {
					return logical.Plan{}, false
				}
				b.WriteString(d.Str())
			}
			return logical.Constant(atom.Str(b.String())), true
		},
		Untype: domainUntype(concatDomain, atom.StrT()),
	})

	searchDomain := []atom.Type{atom.StrT(), atom.StrT()}
	r.Register(&Function{
		Name:   "Search",
		Doc:    "Search(str, regex) tests whether str matches the (already-anchored) regex. Used to lower SQL LIKE.",
		Arity:  Fixed(2),
		Domain: searchDomain,
		Type: func(args []atom.Type) (atom.Type, error) {
			if !atom.Contains(atom.StrT(), args[0]) {
				return atom.Type{}, compileerr.TypeError(atom.StrT(), args[0], "Search requires a string operand")
			}
			if !atom.Contains(atom.StrT(), args[1]) {
				return atom.Type{}, compileerr.TypeError(atom.StrT(), args[1], "Search requires a string regex operand")
			}
			return atom.BoolT(), nil
		},
		Simplify: func(args []logical.Plan) (logical.Plan, bool) {
			s, sok := asConst(args[0])
			p, pok := asConst(args[1])
			if !sok || !pok || s.Kind() != atom.KindStr || p.Kind() != atom.KindStr {
				return logical.Plan{}, false
			}
			re, err := regexp.Compile(p.Str())
			if err != nil {
				return logical.Plan{}, false
			}
			return logical.Constant(atom.Bool(re.MatchString(s.Str()))), true
		},
		Untype: domainUntype(searchDomain, atom.BoolT()),
	})
}
