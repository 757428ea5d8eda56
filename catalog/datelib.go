package catalog

import (
	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/compileerr"
	"github.com/sqlmongo/compiler/logical"
)

// registerDateLib registers the Date/Time/Timestamp/Interval literal
// parsers, Extract, TimeOfDay, and ToTimestamp, per spec §4.C.
func registerDateLib(r *Registry) {
	parser := func(name string, parse func(string) (atom.Data, error), codomain atom.Type) *Function {
		domain := []atom.Type{atom.StrT()}
		return &Function{
			Name:   name,
			Doc:    name + " parses an ISO-8601 literal string.",
			Arity:  Fixed(1),
			Domain: domain,
			Type: func(args []atom.Type) (atom.Type, error) {
				if !atom.Contains(atom.StrT(), args[0]) {
					return atom.Type{}, compileerr.TypeError(atom.StrT(), args[0], name+" requires a string literal")
				}
				if s, ok := args[0].ConstValue(); ok {
					v, err := parse(s.Str())
					if err != nil {
						return atom.Type{}, err
					}
					return atom.ConstT(v), nil
				}
				return codomain, nil
			},
			Simplify: func(args []logical.Plan) (logical.Plan, bool) {
				s, ok := asConst(args[0])
				if !ok || s.Kind() != atom.KindStr {
					return logical.Plan{}, false
				}
				v, err := parse(s.Str())
				if err != nil {
					return logical.Plan{}, false
				}
				return logical.Constant(v), true
			},
			Untype: domainUntype(domain, codomain),
		}
	}
	r.Register(parser("Date", atom.ParseDate, atom.DateT()))
	r.Register(parser("Time", atom.ParseTime, atom.TimeT()))
	r.Register(parser("Timestamp", atom.ParseTimestamp, atom.TimestampT()))
	r.Register(parser("Interval", atom.ParseInterval, atom.IntervalT()))

	temporalUnion := atom.UnionT(atom.TimestampT(), atom.DateT(), atom.TimeT(), atom.IntervalT())
	extractDomain := []atom.Type{atom.StrT(), temporalUnion}
	r.Register(&Function{
		Name:   "Extract",
		Doc:    "Extract(field, temporal) pulls a numeric field (e.g. \"year\", \"hour\") out of a temporal value.",
		Arity:  Fixed(2),
		Domain: extractDomain,
		Type: func(args []atom.Type) (atom.Type, error) {
			if !atom.Temporal(args[1]) {
				return atom.Type{}, compileerr.TypeError(temporalUnion, args[1], "Extract requires a temporal operand")
			}
			return atom.IntT(), nil
		},
		Untype: domainUntype(extractDomain, atom.IntT()),
	})

	timeOfDayDomain := []atom.Type{atom.TimestampT()}
	r.Register(&Function{
		Name:   "TimeOfDay",
		Doc:    "TimeOfDay(timestamp) returns the Time component of a Timestamp.",
		Arity:  Fixed(1),
		Domain: timeOfDayDomain,
		Type: func(args []atom.Type) (atom.Type, error) {
			if args[0].DataType().Tag() != atom.TagTimestamp {
				return atom.Type{}, compileerr.TypeError(atom.TimestampT(), args[0], "TimeOfDay requires a Timestamp")
			}
			return atom.TimeT(), nil
		},
		Simplify: func(args []logical.Plan) (logical.Plan, bool) {
			ts, ok := asConst(args[0])
			if !ok || ts.Kind() != atom.KindTimestamp {
				return logical.Plan{}, false
			}
			v, err := atom.TimeOfDay(ts)
			if err != nil {
				return logical.Plan{}, false
			}
			return logical.Constant(v), true
		},
		Untype: domainUntype(timeOfDayDomain, atom.TimeT()),
	})

	toTimestampDomain := []atom.Type{atom.IntT()}
	r.Register(&Function{
		Name:   "ToTimestamp",
		Doc:    "ToTimestamp(epochMs) builds a Timestamp from epoch milliseconds.",
		Arity:  Fixed(1),
		Domain: toTimestampDomain,
		Type: func(args []atom.Type) (atom.Type, error) {
			if !atom.Contains(atom.IntT(), args[0]) {
				return atom.Type{}, compileerr.TypeError(atom.IntT(), args[0], "ToTimestamp requires an Int")
			}
			if d, ok := args[0].ConstValue(); ok && d.Kind() == atom.KindInt {
				return atom.ConstT(atom.ToTimestamp(d.Int().Int64())), nil
			}
			return atom.TimestampT(), nil
		},
		Simplify: func(args []logical.Plan) (logical.Plan, bool) {
			d, ok := asConst(args[0])
			if !ok || d.Kind() != atom.KindInt {
				return logical.Plan{}, false
			}
			return logical.Constant(atom.ToTimestamp(d.Int().Int64())), true
		},
		Untype: domainUntype(toTimestampDomain, atom.TimestampT()),
	})
}
