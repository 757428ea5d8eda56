package atom

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sqlmongo/compiler/compileerr"
)

// TypeTag discriminates the Type lattice's variants.
type TypeTag int

const (
	TagTop TypeTag = iota
	TagBottom
	TagBool
	TagInt
	TagDec
	TagStr
	TagTimestamp
	TagDate
	TagTime
	TagInterval
	TagObj
	TagArr
	TagUnion
	TagConst
)

// Type is the structural type lattice of spec §3: Top, Bottom, primitives,
// Obj(fields, rest), Arr(elements), unions, and Const(Data) singletons.
type Type struct {
	tag TypeTag

	// TagObj
	fields map[string]Type
	order  []string
	rest   *Type // optional rest-value type for open objects

	// TagArr
	elem *Type

	// TagUnion
	members []Type

	// TagConst
	constVal *Data
}

func Top() Type    { return Type{tag: TagTop} }
func Bottom() Type { return Type{tag: TagBottom} }
func BoolT() Type  { return Type{tag: TagBool} }
func IntT() Type   { return Type{tag: TagInt} }
func DecT() Type   { return Type{tag: TagDec} }
func StrT() Type   { return Type{tag: TagStr} }
func TimestampT() Type { return Type{tag: TagTimestamp} }
func DateT() Type      { return Type{tag: TagDate} }
func TimeT() Type      { return Type{tag: TagTime} }
func IntervalT() Type  { return Type{tag: TagInterval} }

func ArrT(elem Type) Type { return Type{tag: TagArr, elem: &elem} }

func ObjT(order []string, fields map[string]Type, rest *Type) Type {
	return Type{tag: TagObj, order: append([]string(nil), order...), fields: fields, rest: rest}
}

func ConstT(d Data) Type { return Type{tag: TagConst, constVal: &d} }

func UnionT(members ...Type) Type {
	flat := flattenUnion(members)
	if len(flat) == 1 {
		return flat[0]
	}
	return Type{tag: TagUnion, members: flat}
}

func flattenUnion(ts []Type) []Type {
	var out []Type
	seen := map[string]bool{}
	for _, t := range ts {
		if t.tag == TagUnion {
			for _, m := range t.members {
				k := m.String()
				if !seen[k] {
					seen[k] = true
					out = append(out, m)
				}
			}
			continue
		}
		k := t.String()
		if !seen[k] {
			seen[k] = true
			out = append(out, t)
		}
	}
	return out
}

func (t Type) Tag() TypeTag { return t.tag }

// ConstValue returns the literal Data held by a Const(Data) type.
func (t Type) ConstValue() (Data, bool) {
	if t.tag != TagConst {
		return Data{}, false
	}
	return *t.constVal, true
}

// ElemType returns the element type of an Arr type.
func (t Type) ElemType() (Type, bool) {
	if t.tag != TagArr {
		return Type{}, false
	}
	return *t.elem, true
}

// ObjFields returns an Obj type's field order and per-field types.
func (t Type) ObjFields() ([]string, map[string]Type, bool) {
	if t.tag != TagObj {
		return nil, nil, false
	}
	return t.order, t.fields, true
}

// DataType returns the underlying non-const primitive/structural type of a
// Const singleton, or t itself otherwise. Invariant: Const(d) <: d.DataType().
func (t Type) DataType() Type {
	if t.tag != TagConst {
		return t
	}
	switch t.constVal.Kind() {
	case KindNull:
		return Bottom() // Null has no dedicated primitive type in this lattice
	case KindBool:
		return BoolT()
	case KindInt:
		return IntT()
	case KindDec:
		return DecT()
	case KindStr:
		return StrT()
	case KindTimestamp:
		return TimestampT()
	case KindDate:
		return DateT()
	case KindTime:
		return TimeT()
	case KindInterval:
		return IntervalT()
	case KindArr:
		elems := t.constVal.Arr()
		if len(elems) == 0 {
			return ArrT(Bottom())
		}
		elemTypes := make([]Type, len(elems))
		for i, e := range elems {
			elemTypes[i] = ConstT(e)
		}
		return ArrT(UnionT(elemTypes...))
	case KindObj:
		o := t.constVal.Obj()
		fields := make(map[string]Type, o.Len())
		for _, k := range o.Keys() {
			v, _ := o.Get(k)
			fields[k] = ConstT(v)
		}
		return ObjT(o.Keys(), fields, nil)
	default:
		return Top()
	}
}

func (t Type) String() string {
	switch t.tag {
	case TagTop:
		return "Top"
	case TagBottom:
		return "Bottom"
	case TagBool:
		return "Bool"
	case TagInt:
		return "Int"
	case TagDec:
		return "Dec"
	case TagStr:
		return "Str"
	case TagTimestamp:
		return "Timestamp"
	case TagDate:
		return "Date"
	case TagTime:
		return "Time"
	case TagInterval:
		return "Interval"
	case TagArr:
		return fmt.Sprintf("Arr(%s)", t.elem.String())
	case TagObj:
		parts := make([]string, 0, len(t.order))
		for _, k := range t.order {
			parts = append(parts, fmt.Sprintf("%s: %s", k, t.fields[k].String()))
		}
		rest := ""
		if t.rest != nil {
			rest = fmt.Sprintf(", ...%s", t.rest.String())
		}
		return fmt.Sprintf("Obj{%s%s}", strings.Join(parts, ", "), rest)
	case TagUnion:
		parts := make([]string, len(t.members))
		for i, m := range t.members {
			parts[i] = m.String()
		}
		sort.Strings(parts)
		return strings.Join(parts, " | ")
	case TagConst:
		return fmt.Sprintf("Const(%s)", t.constVal.String())
	default:
		return "<invalid type>"
	}
}

// Equal reports (syntactic) type equality, used by union deduplication and
// by tests; it is not the same as lattice equivalence under Contains.
func (t Type) Equal(other Type) bool { return t.String() == other.String() }

// Contains reports whether b is a subtype of a (a contains b, "A contains B").
func Contains(a, b Type) bool {
	if a.tag == TagTop || b.tag == TagBottom {
		return true
	}
	if b.tag == TagTop {
		return a.tag == TagTop
	}
	if a.tag == TagBottom {
		return b.tag == TagBottom
	}
	if b.tag == TagUnion {
		for _, m := range b.members {
			if !Contains(a, m) {
				return false
			}
		}
		return true
	}
	if a.tag == TagUnion {
		for _, m := range a.members {
			if Contains(m, b) {
				return true
			}
		}
		return false
	}
	if a.tag == TagConst && b.tag == TagConst {
		// A Const only contains an equal Const; check this before the
		// general b-unwrap below, which would otherwise always widen b
		// first and make two equal Consts compare as Const vs. DataType.
		return Equal(*a.constVal, *b.constVal)
	}
	if b.tag == TagConst {
		return Contains(a, b.DataType())
	}
	if a.tag == TagConst {
		return false
	}
	if a.tag != b.tag {
		return false
	}
	switch a.tag {
	case TagArr:
		return Contains(*a.elem, *b.elem)
	case TagObj:
		for _, k := range a.order {
			bv, ok := b.fields[k]
			if !ok {
				if a.rest == nil {
					return false
				}
				continue
			}
			if !Contains(a.fields[k], bv) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Lub computes the least upper bound of two types.
func Lub(a, b Type) Type {
	if Contains(a, b) {
		return a
	}
	if Contains(b, a) {
		return b
	}
	if a.tag == TagConst && b.tag == TagConst {
		return Lub(a.DataType(), b.DataType())
	}
	if a.tag == TagConst {
		a = a.DataType()
	}
	if b.tag == TagConst {
		b = b.DataType()
	}
	if a.tag == TagArr && b.tag == TagArr {
		return ArrT(Lub(*a.elem, *b.elem))
	}
	if a.tag == TagObj && b.tag == TagObj {
		fields := map[string]Type{}
		var order []string
		for _, k := range a.order {
			av := a.fields[k]
			if bv, ok := b.fields[k]; ok {
				fields[k] = Lub(av, bv)
			} else {
				fields[k] = av
			}
			order = append(order, k)
		}
		for _, k := range b.order {
			if _, ok := fields[k]; !ok {
				fields[k] = b.fields[k]
				order = append(order, k)
			}
		}
		return ObjT(order, fields, nil)
	}
	return UnionT(a, b)
}

// Glb computes the greatest lower bound of two types.
func Glb(a, b Type) Type {
	if Contains(a, b) {
		return b
	}
	if Contains(b, a) {
		return a
	}
	return Bottom()
}

// Typecheck returns a structured TypeError if observed is not contained by
// expected; otherwise nil (success carries no further information, per
// spec §4.A).
func Typecheck(observed, expected Type) error {
	if Contains(expected, observed) {
		return nil
	}
	return compileerr.TypeError(expected, observed, "")
}

// ArrayLike reports whether t denotes an array-shaped type and, if so,
// returns its element type.
func ArrayLike(t Type) (Type, bool) {
	dt := t
	if dt.tag == TagConst {
		dt = dt.DataType()
	}
	if dt.tag != TagArr {
		return Type{}, false
	}
	return *dt.elem, true
}

// Numeric reports whether t is exactly Int, Dec, or a union thereof.
func Numeric(t Type) bool {
	dt := t
	if dt.tag == TagConst {
		dt = dt.DataType()
	}
	switch dt.tag {
	case TagInt, TagDec:
		return true
	case TagUnion:
		for _, m := range dt.members {
			if !Numeric(m) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Temporal reports whether t is Timestamp|Date|Time|Interval (or a union).
func Temporal(t Type) bool {
	dt := t
	if dt.tag == TagConst {
		dt = dt.DataType()
	}
	switch dt.tag {
	case TagTimestamp, TagDate, TagTime, TagInterval:
		return true
	case TagUnion:
		for _, m := range dt.members {
			if !Temporal(m) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
