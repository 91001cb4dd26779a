package date

// DatePeriod runs from Start to End, either of which may itself be an
// uncertain range. A single-date period has Start equal to End.
type DatePeriod struct {
	start DateRange
	end   DateRange
}

// NewDatePeriod returns the period from start to end. A zero DateRange for
// either side means Unknown.
func NewDatePeriod(start, end DateRange) DatePeriod {
	if start.IsZero() {
		start = Unknown
	}
	if end.IsZero() {
		end = Unknown
	}
	return DatePeriod{start: start, end: end}
}

// Single returns the period lasting just the date (range) d.
func Single(d DateRange) DatePeriod { return NewDatePeriod(d, d) }

func (p DatePeriod) Start() DateRange { return p.start }
func (p DatePeriod) End() DateRange   { return p.end }

// IsSingle reports whether start and end are the same range.
func (p DatePeriod) IsSingle() bool { return p.start.Equal(p.end) }

// Equal compares start and end component-wise.
func (p DatePeriod) Equal(o DatePeriod) bool {
	return p.start.Equal(o.start) && p.end.Equal(o.end)
}

// Compare orders by start, falling back to end when the starts tie or this
// period's start is Unknown.
func (p DatePeriod) Compare(o DatePeriod) int {
	d := p.start.Compare(o.start)
	if d == 0 || p.start.IsUnknown() {
		d = p.end.Compare(o.end)
	}
	return d
}

// Overlaps reports whether the two periods intersect, treating each as a
// closed interval ordered by Compare.
func (p DatePeriod) Overlaps(o DatePeriod) bool {
	return p.start.Compare(o.end) <= 0 && o.start.Compare(p.end) <= 0
}

func (p DatePeriod) String() string {
	if p.IsSingle() {
		return p.start.String()
	}
	return p.start.String() + "-" + p.end.String()
}

// MarshalText renders the period as String does, so it encodes as a JSON
// string.
func (p DatePeriod) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
