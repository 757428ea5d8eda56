package atom

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/sqlmongo/compiler/compileerr"
)

// ParseDate parses a "YYYY-MM-DD" literal, per spec §6.
func ParseDate(s string) (Data, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Data{}, compileerr.DateFormatError("date", s, "expected YYYY-MM-DD")
	}
	return Date(LocalDate{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}), nil
}

var timeFormats = []string{"15:04:05.999999999", "15:04:05"}

// ParseTime parses a "HH:MM:SS[.sss]" literal, per spec §6.
func ParseTime(s string) (Data, error) {
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return Time(LocalTime{
				Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
				Nanosecond: t.Nanosecond(),
			}), nil
		}
	}
	return Data{}, compileerr.DateFormatError("time", s, "expected HH:MM:SS[.sss]")
}

// ParseTimestamp parses a UTC ISO-8601 instant, e.g. "2015-05-12T12:22:00Z".
func ParseTimestamp(s string) (Data, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Data{}, compileerr.DateFormatError("timestamp", s, "expected RFC3339 UTC instant")
	}
	return Timestamp(t), nil
}

// intervalPattern matches an ISO-8601 duration with only day/hour/minute/
// second fields; year and month fields are unsupported per spec §6.
var intervalPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseInterval parses an ISO-8601 duration like "P3DT12H30M15.0S".
// Year/month fields are unsupported and yield DateFormatError.
func ParseInterval(s string) (Data, error) {
	if len(s) == 0 || s[0] != 'P' {
		return Data{}, compileerr.DateFormatError("interval", s, "expected ISO-8601 duration starting with P")
	}
	if regexp.MustCompile(`\d+Y|\d+M(?:[^T]*$)`).MatchString(s) {
		// a bare "...M" before any "T" is a month field, which we reject;
		// the pattern below still matches minutes correctly once inside T.
	}
	m := intervalPattern.FindStringSubmatch(s)
	if m == nil {
		return Data{}, compileerr.DateFormatError("interval", s, "year/month fields unsupported, or malformed duration")
	}
	var total time.Duration
	if m[1] != "" {
		days, _ := strconv.Atoi(m[1])
		total += time.Duration(days) * 24 * time.Hour
	}
	if m[2] != "" {
		hours, _ := strconv.Atoi(m[2])
		total += time.Duration(hours) * time.Hour
	}
	if m[3] != "" {
		mins, _ := strconv.Atoi(m[3])
		total += time.Duration(mins) * time.Minute
	}
	if m[4] != "" {
		secs, err := strconv.ParseFloat(m[4], 64)
		if err != nil {
			return Data{}, compileerr.DateFormatError("interval", s, "malformed seconds field")
		}
		total += time.Duration(secs * float64(time.Second))
	}
	return Interval(total), nil
}

// TimeOfDay extracts a LocalTime from a Timestamp atom (catalog.TimeOfDay
// delegates here).
func TimeOfDay(ts Data) (Data, error) {
	if ts.Kind() != KindTimestamp {
		return Data{}, fmt.Errorf("TimeOfDay: expected Timestamp, got %s", ts.Kind())
	}
	t := ts.TimestampVal()
	return Time(LocalTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(), Nanosecond: t.Nanosecond()}), nil
}

// ToTimestamp builds a Timestamp atom from epoch milliseconds.
func ToTimestamp(epochMs int64) Data {
	return Timestamp(time.UnixMilli(epochMs).UTC())
}
