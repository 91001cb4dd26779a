package date

import "time"

// DateRange is a date known only to fall somewhere between Earliest and
// Latest, inclusive. A range is exact when both bounds are Equal. The zero
// DateRange is treated as Unknown by DatePeriod.
type DateRange struct {
	earliest YMD
	latest   YMD
}

// Unknown spans every representable date.
var Unknown = DateRange{earliest: minimum, latest: maximum}

// Exact returns the range holding the single date d.
func Exact(d YMD) DateRange {
	return DateRange{earliest: d, latest: d}
}

// NewDateRange builds a range from its bounds. A zero bound defaults to
// Minimum or Maximum respectively. Bounds whose approximate instants are
// out of order yield ErrDatesOutOfOrder; they are never swapped or clamped.
func NewDateRange(earliest, latest YMD) (DateRange, error) {
	if earliest.IsZero() {
		earliest = minimum
	}
	if latest.IsZero() {
		latest = maximum
	}
	if latest.Compare(earliest) < 0 {
		return DateRange{}, &OutOfOrderError{Earliest: earliest, Latest: latest}
	}
	return DateRange{earliest: earliest, latest: latest}, nil
}

func (r DateRange) Earliest() YMD { return r.earliest }
func (r DateRange) Latest() YMD   { return r.latest }

// IsZero reports whether r is the zero DateRange (not the same as Unknown).
func (r DateRange) IsZero() bool { return r.earliest.IsZero() && r.latest.IsZero() }

// IsExact reports whether the range holds a single date.
func (r DateRange) IsExact() bool { return r.earliest.Equal(r.latest) }

// IsUnknown reports whether r is the full Unknown range.
func (r DateRange) IsUnknown() bool { return r.Equal(Unknown) }

// Approx returns a representative instant for ordering. An open bound
// (Minimum or Maximum) defers to the other bound, and the fully Unknown
// range sits at the Unix epoch.
func (r DateRange) Approx() time.Time {
	lowOpen := r.earliest.Equal(minimum)
	highOpen := r.latest.Equal(maximum)
	switch {
	case lowOpen && highOpen:
		return time.Unix(0, 0).UTC()
	case lowOpen:
		return r.latest.Approx()
	case highOpen, r.IsExact():
		return r.earliest.Approx()
	}
	lo := r.earliest.Approx().UnixMilli()
	hi := r.latest.Approx().UnixMilli()
	return time.UnixMilli(lo + (hi-lo)/2).UTC()
}

// Equal compares both bounds component-wise.
func (r DateRange) Equal(o DateRange) bool {
	return r.earliest.Equal(o.earliest) && r.latest.Equal(o.latest)
}

// Compare orders by approximate instant. It is not consistent with Equal.
func (r DateRange) Compare(o DateRange) int {
	return r.Approx().Compare(o.Approx())
}

func (r DateRange) String() string {
	switch {
	case r.IsExact():
		return r.earliest.String()
	case r.IsUnknown():
		return "[unknown]"
	}
	return r.earliest.String() + "?" + r.latest.String()
}
