package catalog

import (
	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/compileerr"
	"github.com/sqlmongo/compiler/logical"
)

// registerStructural registers MakeObject, MakeArray, ObjectConcat,
// ArrayConcat, ObjectProject, DeleteField, Splice.
func registerStructural(r *Registry) {
	makeObjectDomain := []atom.Type{atom.StrT(), atom.Top()}
	r.Register(&Function{
		Name:   "MakeObject",
		Doc:    "MakeObject(key, value) builds a single-field object; the key must be a string literal.",
		Arity:  Fixed(2),
		Domain: makeObjectDomain,
		Type: func(args []atom.Type) (atom.Type, error) {
			key, ok := args[0].ConstValue()
			if !ok || key.Kind() != atom.KindStr {
				return atom.Type{}, compileerr.NewExpectedLiteral("MakeObject key")
			}
			return atom.ObjT([]string{key.Str()}, map[string]atom.Type{key.Str(): args[1]}, nil), nil
		},
		// The key's literal-ness can't be recovered from an expected Obj
		// shape alone, so only the value slot narrows: whatever field type
		// the caller expects is what the value argument must supply.
		Untype: func(expected atom.Type) ([]atom.Type, error) {
			_, fields, ok := expected.ObjFields()
			if !ok || len(fields) != 1 {
				return append([]atom.Type(nil), makeObjectDomain...), nil
			}
			for _, t := range fields {
				return []atom.Type{atom.StrT(), t}, nil
			}
			return append([]atom.Type(nil), makeObjectDomain...), nil
		},
	})

	makeArrayDomain := []atom.Type{atom.Top()}
	r.Register(&Function{
		Name:   "MakeArray",
		Doc:    "MakeArray(value) builds a single-element array.",
		Arity:  Fixed(1),
		Domain: makeArrayDomain,
		Type: func(args []atom.Type) (atom.Type, error) {
			return atom.ArrT(args[0]), nil
		},
		Untype: func(expected atom.Type) ([]atom.Type, error) {
			if elem, ok := atom.ArrayLike(expected); ok {
				return []atom.Type{elem}, nil
			}
			return append([]atom.Type(nil), makeArrayDomain...), nil
		},
	})

	r.Register(&Function{
		Name:  "MakeArrayN",
		Doc:   "MakeArrayN(elems...) builds an N-element array; used for GROUP BY/ORDER BY key lists and SET literals.",
		Arity: Variadic(0),
		Type: func(args []atom.Type) (atom.Type, error) {
			if len(args) == 0 {
				return atom.ArrT(atom.Top()), nil
			}
			elem := args[0]
			for _, a := range args[1:] {
				elem = atom.Lub(elem, a)
			}
			return atom.ArrT(elem), nil
		},
		Untype: func(expected atom.Type) ([]atom.Type, error) {
			elem, ok := atom.ArrayLike(expected)
			if !ok {
				elem = atom.Top()
			}
			return []atom.Type{elem, elem}, nil
		},
	})

	objConcatDomain := []atom.Type{atom.ObjT(nil, nil, atomTopPtr()), atom.ObjT(nil, nil, atomTopPtr())}
	r.Register(&Function{
		Name:   "ObjectConcat",
		Doc:    "ObjectConcat(a, b) merges two objects; b's fields win on key conflict.",
		Arity:  Variadic(2),
		Domain: objConcatDomain,
		Type: func(args []atom.Type) (atom.Type, error) {
			order, fields := []string{}, map[string]atom.Type{}
			var rest *atom.Type
			for _, a := range args {
				o, f, ok := a.ObjFields()
				if !ok {
					return atom.Type{}, compileerr.TypeError(atom.ObjT(nil, nil, nil), a, "ObjectConcat requires object operands")
				}
				for _, k := range o {
					if _, seen := fields[k]; !seen {
						order = append(order, k)
					}
					fields[k] = f[k]
				}
			}
			return atom.ObjT(order, fields, rest), nil
		},
		Untype: domainUntype(objConcatDomain, atom.ObjT(nil, nil, atomTopPtr())),
	})

	arrConcatDomain := []atom.Type{atom.ArrT(atom.Top()), atom.ArrT(atom.Top())}
	r.Register(&Function{
		Name:   "ArrayConcat",
		Doc:    "ArrayConcat(a, b) concatenates two arrays.",
		Arity:  Variadic(2),
		Domain: arrConcatDomain,
		Type: func(args []atom.Type) (atom.Type, error) {
			t := args[0]
			for _, a := range args[1:] {
				e1, _ := t.ElemType()
				e2, ok := a.ElemType()
				if !ok {
					return atom.Type{}, compileerr.TypeError(atom.ArrT(atom.Top()), a, "ArrayConcat requires array operands")
				}
				t = atom.ArrT(atom.Lub(e1, e2))
			}
			return t, nil
		},
		Untype: domainUntype(arrConcatDomain, atom.ArrT(atom.Top())),
	})

	objProjectDomain := []atom.Type{atom.ObjT(nil, nil, atomTopPtr()), atom.StrT()}
	r.Register(&Function{
		Name:   "ObjectProject",
		Doc:    "ObjectProject(obj, key) reads a single field; key must be a string literal.",
		Arity:  Fixed(2),
		Domain: objProjectDomain,
		Type: func(args []atom.Type) (atom.Type, error) {
			key, ok := args[1].ConstValue()
			if !ok || key.Kind() != atom.KindStr {
				return atom.Type{}, compileerr.NewExpectedLiteral("ObjectProject key")
			}
			_, fields, ok := args[0].ObjFields()
			if !ok {
				return atom.Top(), nil // rest/unknown-shaped object: can't narrow further
			}
			if t, ok := fields[key.Str()]; ok {
				return t, nil
			}
			return atom.Top(), nil
		},
		// The result type is only ever Top (or the statically-known field
		// type, which this Untype has no key literal to look up), so the
		// declared domain is the most that can be said in general.
		Untype: domainUntype(objProjectDomain, atom.Top()),
	})

	deleteFieldDomain := []atom.Type{atom.ObjT(nil, nil, atomTopPtr()), atom.StrT()}
	r.Register(&Function{
		Name:   "DeleteField",
		Doc:    "DeleteField(obj, key) removes a field; key must be a string literal.",
		Arity:  Fixed(2),
		Domain: deleteFieldDomain,
		Type: func(args []atom.Type) (atom.Type, error) {
			key, ok := args[1].ConstValue()
			if !ok || key.Kind() != atom.KindStr {
				return atom.Type{}, compileerr.NewExpectedLiteral("DeleteField key")
			}
			order, fields, ok := args[0].ObjFields()
			if !ok {
				return args[0], nil
			}
			newOrder := make([]string, 0, len(order))
			newFields := make(map[string]atom.Type, len(fields))
			for _, k := range order {
				if k == key.Str() {
					continue
				}
				newOrder = append(newOrder, k)
				newFields[k] = fields[k]
			}
			return atom.ObjT(newOrder, newFields, nil), nil
		},
		Untype: func(expected atom.Type) ([]atom.Type, error) {
			if _, _, ok := expected.ObjFields(); !ok {
				return nil, compileerr.TypeError(atom.ObjT(nil, nil, nil), expected, "DeleteField cannot produce a non-object result")
			}
			return []atom.Type{expected, atom.StrT()}, nil
		},
	})

	r.Register(&Function{
		Name:  "Splice",
		Doc:   "Splice(obj) marks an object for unnamed merge into the enclosing SELECT record; type-transparent.",
		Arity: Fixed(1),
		Type:  func(args []atom.Type) (atom.Type, error) { return args[0], nil },
		Untype: func(expected atom.Type) ([]atom.Type, error) {
			return []atom.Type{expected}, nil
		},
	})
}

// atomTopPtr returns a pointer to a fresh Top Type, for building an
// open-object Domain entry (ObjT's rest parameter).
func atomTopPtr() *atom.Type {
	t := atom.Top()
	return &t
}
