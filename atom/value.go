// Package atom defines the data and type model shared by every later stage
// of the compiler: the scalar/temporal/collection value union (Data) and
// the structural type lattice (Type) that describes it.
package atom

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags the variant held by a Data value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindDec
	KindStr
	KindTimestamp
	KindDate
	KindTime
	KindInterval
	KindArr
	KindObj
	KindSet
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindDec:
		return "Dec"
	case KindStr:
		return "Str"
	case KindTimestamp:
		return "Timestamp"
	case KindDate:
		return "Date"
	case KindTime:
		return "Time"
	case KindInterval:
		return "Interval"
	case KindArr:
		return "Arr"
	case KindObj:
		return "Obj"
	case KindSet:
		return "Set"
	default:
		return "Unknown"
	}
}

// Data is the tagged union described in spec §3. Only one of the typed
// fields is meaningful, selected by Kind. Int uses math/big.Int for
// arbitrary precision (the standard library has no third-party competitor
// for this in the retrieved corpus); Dec uses
// shopspring/decimal, grounded on zhukovaskychina-xmysql-server's go.mod.
type Data struct {
	kind Kind

	boolVal bool
	intVal  *big.Int
	decVal  decimal.Decimal
	strVal  string

	timestampVal time.Time // KindTimestamp: UTC instant
	dateVal      LocalDate // KindDate
	timeVal      LocalTime // KindTime
	intervalVal  time.Duration

	arrVal []Data
	objVal *Obj
	setVal *Set
}

// LocalDate is a calendar date with no time-of-day or zone component.
type LocalDate struct {
	Year  int
	Month int
	Day   int
}

func (d LocalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// LocalTime is a wall-clock time with no date or zone component.
type LocalTime struct {
	Hour, Minute, Second, Nanosecond int
}

func (t LocalTime) String() string {
	if t.Nanosecond == 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hour, t.Minute, t.Second, t.Nanosecond/1e6)
}

// Obj is an insertion-ordered string->Data mapping.
type Obj struct {
	keys   []string
	values map[string]Data
}

// NewObj builds an Obj from ordered key/value pairs.
func NewObj() *Obj {
	return &Obj{values: make(map[string]Data)}
}

// Set inserts or overwrites a key, preserving original insertion position.
func (o *Obj) Set(key string, v Data) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value for key and whether it was present.
func (o *Obj) Get(key string) (Data, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns keys in insertion order.
func (o *Obj) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len reports the number of fields.
func (o *Obj) Len() int { return len(o.keys) }

// Set is an unordered collection of Data values (duplicates collapse by
// structural equality, per spec §3).
type Set struct {
	items []Data
}

// NewSet builds a Set from a variadic list, deduplicating structurally.
func NewSet(items ...Data) *Set {
	s := &Set{}
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts an item if not already structurally present.
func (s *Set) Add(v Data) {
	for _, existing := range s.items {
		if Equal(existing, v) {
			return
		}
	}
	s.items = append(s.items, v)
}

// Items returns the set's members in (implementation-defined) insertion
// order; order is not semantically significant for Set.
func (s *Set) Items() []Data {
	out := make([]Data, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Set) Len() int { return len(s.items) }

// Constructors mirroring the teacher's datalog.Value helper style
// (datalog/value.go: String/Int/Float/Bool/Time/...).

func Null() Data                  { return Data{kind: KindNull} }
func Bool(b bool) Data            { return Data{kind: KindBool, boolVal: b} }
func Str(s string) Data           { return Data{kind: KindStr, strVal: s} }
func Int(i int64) Data            { return Data{kind: KindInt, intVal: big.NewInt(i)} }
func IntFromBig(i *big.Int) Data  { return Data{kind: KindInt, intVal: new(big.Int).Set(i)} }
func Dec(d decimal.Decimal) Data  { return Data{kind: KindDec, decVal: d} }
func DecFromFloat(f float64) Data { return Data{kind: KindDec, decVal: decimal.NewFromFloat(f)} }
func Timestamp(t time.Time) Data  { return Data{kind: KindTimestamp, timestampVal: t.UTC()} }
func Date(d LocalDate) Data       { return Data{kind: KindDate, dateVal: d} }
func Time(t LocalTime) Data       { return Data{kind: KindTime, timeVal: t} }
func Interval(d time.Duration) Data {
	return Data{kind: KindInterval, intervalVal: d}
}
func Arr(items ...Data) Data { return Data{kind: KindArr, arrVal: items} }
func ObjOf(o *Obj) Data      { return Data{kind: KindObj, objVal: o} }
func SetOf(s *Set) Data      { return Data{kind: KindSet, setVal: s} }

func (d Data) Kind() Kind { return d.kind }

func (d Data) IsNull() bool { return d.kind == KindNull }

func (d Data) Bool() bool               { return d.boolVal }
func (d Data) Int() *big.Int            { return d.intVal }
func (d Data) Dec() decimal.Decimal     { return d.decVal }
func (d Data) Str() string              { return d.strVal }
func (d Data) TimestampVal() time.Time  { return d.timestampVal }
func (d Data) DateVal() LocalDate       { return d.dateVal }
func (d Data) TimeVal() LocalTime       { return d.timeVal }
func (d Data) IntervalVal() time.Duration { return d.intervalVal }
func (d Data) Arr() []Data              { return d.arrVal }
func (d Data) Obj() *Obj                { return d.objVal }
func (d Data) Set() *Set                { return d.setVal }

// IsNumber reports Int|Dec per the spec's Number invariant.
func (d Data) IsNumber() bool { return d.kind == KindInt || d.kind == KindDec }

// IsTemporal reports Timestamp|Date|Time|Interval.
func (d Data) IsTemporal() bool {
	switch d.kind {
	case KindTimestamp, KindDate, KindTime, KindInterval:
		return true
	default:
		return false
	}
}

// AsDecimal widens an Int or Dec atom to a decimal.Decimal, used by the
// arithmetic catalog functions' Dec-promotion rule.
func (d Data) AsDecimal() decimal.Decimal {
	switch d.kind {
	case KindInt:
		return decimal.NewFromBigInt(d.intVal, 0)
	case KindDec:
		return d.decVal
	default:
		return decimal.Zero
	}
}

// String renders a Data atom for debugging/explain output only; it is not
// the wire/BSON encoding (see workflow.ToBSON for that).
func (d Data) String() string {
	switch d.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", d.boolVal)
	case KindInt:
		return d.intVal.String()
	case KindDec:
		return d.decVal.String()
	case KindStr:
		return fmt.Sprintf("%q", d.strVal)
	case KindTimestamp:
		return d.timestampVal.Format(time.RFC3339Nano)
	case KindDate:
		return d.dateVal.String()
	case KindTime:
		return d.timeVal.String()
	case KindInterval:
		return d.intervalVal.String()
	case KindArr:
		return fmt.Sprintf("%v", d.arrVal)
	case KindObj:
		return fmt.Sprintf("%v", d.objVal.keys)
	case KindSet:
		return fmt.Sprintf("#{%d items}", d.setVal.Len())
	default:
		return "<invalid>"
	}
}

// Equal reports structural equality of two Data atoms, used by Set
// deduplication and by the Const(Data) singleton-type comparisons.
func Equal(a, b Data) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindInt:
		return a.intVal.Cmp(b.intVal) == 0
	case KindDec:
		return a.decVal.Equal(b.decVal)
	case KindStr:
		return a.strVal == b.strVal
	case KindTimestamp:
		return a.timestampVal.Equal(b.timestampVal)
	case KindDate:
		return a.dateVal == b.dateVal
	case KindTime:
		return a.timeVal == b.timeVal
	case KindInterval:
		return a.intervalVal == b.intervalVal
	case KindArr:
		if len(a.arrVal) != len(b.arrVal) {
			return false
		}
		for i := range a.arrVal {
			if !Equal(a.arrVal[i], b.arrVal[i]) {
				return false
			}
		}
		return true
	case KindObj:
		if a.objVal.Len() != b.objVal.Len() {
			return false
		}
		for _, k := range a.objVal.Keys() {
			av, _ := a.objVal.Get(k)
			bv, ok := b.objVal.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindSet:
		if a.setVal.Len() != b.setVal.Len() {
			return false
		}
		for _, av := range a.setVal.Items() {
			found := false
			for _, bv := range b.setVal.Items() {
				if Equal(av, bv) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	default:
		return false
	}
}
