// Package date models the uncertain, partial dates found in genealogical
// records: a YMD may lack its month or day, a DateRange brackets the
// possible values of one date, and a DatePeriod spans from one range to
// another.
//
// Equality and ordering deliberately disagree. Equal compares components
// exactly, while Compare orders by an approximate instant, so two values
// that are not Equal may still Compare as 0. Sorting uses Compare;
// de-duplication uses Equal.
package date

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// YMD is a proleptic-Gregorian date whose month and day may be unknown
// (zero). Negative years are BC; there is no year 0. The zero YMD is not a
// valid date and stands for "absent" wherever a YMD is optional.
type YMD struct {
	year   int
	month  int
	day    int
	circa  bool
	julian bool
}

// NewYMD validates and returns a date. Pass 0 for an unknown month or day.
func NewYMD(year, month, day int) (YMD, error) {
	if year == 0 || year <= -10000 || year >= 10000 {
		return YMD{}, &InvalidDateError{Field: "year", Value: year}
	}
	if month < 0 || month > 12 {
		return YMD{}, &InvalidDateError{Field: "month", Value: month}
	}
	if day < 0 || day > 31 {
		return YMD{}, &InvalidDateError{Field: "day", Value: day}
	}
	return YMD{year: year, month: month, day: day}, nil
}

// MustYMD is NewYMD for values known to be valid. It panics otherwise.
func MustYMD(year, month, day int) YMD {
	d, err := NewYMD(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// Year returns a new YMD with only the year known.
func Year(year int) YMD { return MustYMD(year, 0, 0) }

var (
	minimum = YMD{year: -9999, month: 1, day: 1}
	maximum = YMD{year: 9999, month: 12, day: 31}
)

// Minimum is January 1, 9999 BC, the earliest representable date.
func Minimum() YMD { return minimum }

// Maximum is December 31, AD 9999, the latest representable date.
func Maximum() YMD { return maximum }

func (d YMD) Year() int  { return d.year }
func (d YMD) Month() int { return d.month }
func (d YMD) Day() int   { return d.day }

// Circa reports whether the date is an approximation.
func (d YMD) Circa() bool { return d.circa }

// Julian reports whether the date prefers to be shown in the Julian
// calendar. The stored fields are Gregorian regardless.
func (d YMD) Julian() bool { return d.julian }

// WithCirca returns a copy of d with the circa flag set to c.
func (d YMD) WithCirca(c bool) YMD {
	d.circa = c
	return d
}

// WithJulian returns a copy of d with the Julian display preference set to j.
func (d YMD) WithJulian(j bool) YMD {
	d.julian = j
	return d
}

// IsZero reports whether d is the zero (absent) YMD.
func (d YMD) IsZero() bool { return d.year == 0 }

// IsExact reports whether month and day are known and the date is not circa.
func (d YMD) IsExact() bool {
	return d.month != 0 && d.day != 0 && !d.circa
}

// Approx returns an instant usable for computation, never for display.
// A missing month and day means July 3 (mid-year); a missing day means the
// 15th. The time is noon UTC.
func (d YMD) Approx() time.Time {
	m, dd := d.month, d.day
	switch {
	case m == 0 && dd == 0:
		m, dd = 7, 3
	case dd == 0:
		dd = 15
	case m == 0:
		m = 7
	}
	return time.Date(astronomical(d.year), time.Month(m), dd, 12, 0, 0, 0, time.UTC)
}

// astronomical maps a historical year (1 BC = -1) to an astronomical year
// (1 BC = 0).
func astronomical(year int) int {
	if year < 0 {
		return year + 1
	}
	return year
}

func historical(year int) int {
	if year <= 0 {
		return year - 1
	}
	return year
}

// fromTime returns the exact date of t in UTC.
func fromTime(t time.Time) YMD {
	t = t.UTC()
	return YMD{year: historical(t.Year()), month: int(t.Month()), day: t.Day()}
}

// Equal compares year, month and day. The circa and julian flags are not
// part of a date's identity.
func (d YMD) Equal(o YMD) bool {
	return d.year == o.year && d.month == o.month && d.day == o.day
}

// Compare orders by approximate instant. It is not consistent with Equal.
func (d YMD) Compare(o YMD) int {
	return d.Approx().Compare(o.Approx())
}

// String formats the date for display: "2006-11-06", "2000-05", "1066",
// "-0030-01-01", with a "c. " prefix when circa. The extreme sentinels
// show as "[before]" and "[after]".
func (d YMD) String() string {
	if d.Equal(maximum) {
		return "[after]"
	}
	if d.Equal(minimum) {
		return "[before]"
	}

	var sb strings.Builder
	if d.circa {
		sb.WriteString("c. ")
	}
	if d.year < 0 {
		sb.WriteByte('-')
	}
	y := d.year
	if y < 0 {
		y = -y
	}
	fmt.Fprintf(&sb, "%04d", y)
	if d.month > 0 {
		fmt.Fprintf(&sb, "-%02d", d.month)
		if d.day > 0 {
			fmt.Fprintf(&sb, "-%02d", d.day)
		}
	}
	return sb.String()
}

// InvalidDateError reports a YMD component out of range.
type InvalidDateError struct {
	Field string
	Value int
}

func (e *InvalidDateError) Error() string {
	return "invalid " + e.Field + ": " + strconv.Itoa(e.Value)
}

func (e *InvalidDateError) Unwrap() error { return ErrInvalidDate }
