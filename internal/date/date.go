// Package date provides a calendar date with day granularity.
//
// All projection math works on Date rather than time.Time so that the
// time-of-day of "now" can never shift a due date by one day.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

const readFormat = "2006-1-2" // permissive, accepts 2024-7-1

// Format is the ISO-8601 layout used to write dates.
const Format = "2006-01-02"

// Date represents a calendar day. The zero value means "unset".
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month, and day.
// Out of range values overflow like time.Date does (e.g. Feb 30 -> Mar 1 or 2).
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// FromTime strips the time-of-day of t, in t's own location.
func FromTime(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return New(t.Date())
}

// time returns the canonical midnight UTC instant of the day.
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time { return d.time() }

// Year returns the year of d.
func (d Date) Year() int { return d.y }

// Month returns the month of d.
func (d Date) Month() time.Month { return d.m }

// Day returns the day of the month of d.
func (d Date) Day() int { return d.d }

// IsZero reports whether d is the unset date.
func (d Date) IsZero() bool { return d == Date{} }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.Compare(x) > 0 }

// Equal reports whether d and x are the same day.
func (d Date) Equal(x Date) bool { return d == x }

// Compare returns -1, 0 or +1 depending on whether d is before, equal or after x.
func (d Date) Compare(x Date) int {
	switch {
	case d.y != x.y:
		return cmp(d.y, x.y)
	case d.m != x.m:
		return cmp(int(d.m), int(x.m))
	default:
		return cmp(d.d, x.d)
	}
}

func cmp(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Add returns the date i days after d (before when i is negative).
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

const secondsPerDay = 24 * 60 * 60

// DaysUntil returns the signed number of whole days from d to x.
// Both days sit at midnight UTC, so the Unix difference is an exact multiple
// of a day; time.Duration would saturate past about 292 years.
func (d Date) DaysUntil(x Date) int {
	return int((x.time().Unix() - d.time().Unix()) / secondsPerDay)
}

// MonthIndex returns a monotonic month counter (year*12 + month-1).
func (d Date) MonthIndex() int { return d.y*12 + int(d.m) - 1 }

// AddMonthsClamped moves d by n months and places it on dayOfMonth, clamped to the
// length of the target month. Day 31 in February lands on the 28th or 29th.
func (d Date) AddMonthsClamped(n int, dayOfMonth int) Date {
	idx := d.MonthIndex() + n
	return FromMonthIndex(idx, dayOfMonth)
}

// FromMonthIndex builds the date at dayOfMonth (clamped to [1, DaysIn]) of the month
// identified by idx, as returned by MonthIndex.
func FromMonthIndex(idx int, dayOfMonth int) Date {
	y := idx / 12
	m := idx % 12
	if m < 0 {
		m += 12
		y--
	}
	month := time.Month(m + 1)
	return Date{y, month, ClampDay(dayOfMonth, DaysIn(y, month))}
}

// DaysIn returns the number of days of the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay bounds day to [1, max].
func ClampDay(day, max int) int {
	if day < 1 {
		return 1
	}
	if day > max {
		return max
	}
	return day
}

// CycleKey returns the "YYYY-MM" key of the month containing d.
func (d Date) CycleKey() string { return fmt.Sprintf("%04d-%02d", d.y, int(d.m)) }

// String formats the date as 2006-01-02. The zero date formats as "".
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(Format)
}

// Parse parses a Date from a string. It accepts single-digit months and days.
func Parse(str string) (Date, error) {
	on, err := time.Parse(readFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, Format, err)
	}
	return New(on.Date()), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// MarshalText writes d as 2006-01-02, or empty for the zero date.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText parses text with Parse. Empty text yields the zero date.
func (d *Date) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON writes d as a JSON string.
func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

// UnmarshalJSON reads d from a JSON string.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(str))
}

var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
