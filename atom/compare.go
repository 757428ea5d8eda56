package atom

import "time"

// kindOrder establishes a total order across Kinds so values of unlike
// kind still compare deterministically, mirroring the teacher's
// datalog/compare.go cross-type ordering strategy for sortable Values.
var kindOrder = map[Kind]int{
	KindNull: 0, KindBool: 1, KindInt: 2, KindDec: 2, KindStr: 3,
	KindTimestamp: 4, KindDate: 5, KindTime: 6, KindInterval: 7,
	KindArr: 8, KindObj: 9, KindSet: 10,
}

// CompareData orders two Data atoms for Eq/Lt/.../ORDER BY purposes.
// Int and Dec compare numerically against each other. Returns -1, 0, or 1.
func CompareData(a, b Data) int {
	if a.IsNumber() && b.IsNumber() {
		return a.AsDecimal().Cmp(b.AsDecimal())
	}
	if a.kind != b.kind {
		ao, bo := kindOrder[a.kind], kindOrder[b.kind]
		switch {
		case ao < bo:
			return -1
		case ao > bo:
			return 1
		default:
			return 0
		}
	}
	switch a.kind {
	case KindNull:
		return 0
	case KindBool:
		return boolCmp(a.boolVal, b.boolVal)
	case KindStr:
		return stringCmp(a.strVal, b.strVal)
	case KindTimestamp:
		return timeCmp(a.timestampVal, b.timestampVal)
	case KindDate:
		return dateCmp(a.dateVal, b.dateVal)
	case KindTime:
		return timeOfDayCmp(a.timeVal, b.timeVal)
	case KindInterval:
		return durationCmp(a.intervalVal, b.intervalVal)
	case KindArr:
		return arrCmp(a.arrVal, b.arrVal)
	default:
		// Obj/Set have no total order in the spec; treat as equal so
		// callers that need strict ordering (ORDER BY) reject them at
		// type-check time instead of here.
		return 0
	}
}

func boolCmp(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func stringCmp(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func timeCmp(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

func dateCmp(a, b LocalDate) int {
	switch {
	case a.Year != b.Year:
		return intCmp(a.Year, b.Year)
	case a.Month != b.Month:
		return intCmp(a.Month, b.Month)
	default:
		return intCmp(a.Day, b.Day)
	}
}

func timeOfDayCmp(a, b LocalTime) int {
	switch {
	case a.Hour != b.Hour:
		return intCmp(a.Hour, b.Hour)
	case a.Minute != b.Minute:
		return intCmp(a.Minute, b.Minute)
	case a.Second != b.Second:
		return intCmp(a.Second, b.Second)
	default:
		return intCmp(a.Nanosecond, b.Nanosecond)
	}
}

func durationCmp(a, b time.Duration) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func intCmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func arrCmp(a, b []Data) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := CompareData(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
