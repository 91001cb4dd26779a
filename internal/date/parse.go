package date

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// dateValue is the participle grammar for a GEDCOM DATE value.
// Examples: "1 JAN 2001", "ABT 1400", "BET 1840 AND 1846",
// "FROM 3 JUL 1966 TO 3 AUG 1966", "@#DJULIAN@ 11 FEB 1731/2", "32 BC".
//
//nolint:govet // participle grammar tags are not standard struct tags
type dateValue struct {
	Between *betweenPart `  "BET" @@`
	From    *fromPart    `| "FROM" @@`
	To      *calDate     `| "TO" @@`
	Before  *calDate     `| "BEF" @@`
	After   *calDate     `| "AFT" @@`
	About   *calDate     `| ("ABT" | "CAL" | "EST") @@`
	Interp  *interpPart  `| "INT" @@`
	Phrase  *string      `| @Phrase`
	Plain   *calDate     `| @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type betweenPart struct {
	Low  *calDate `@@`
	High *calDate `"AND" @@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type fromPart struct {
	Start *calDate `@@`
	End   *calDate `( "TO" @@ )?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type interpPart struct {
	Date   *calDate `@@`
	Phrase string   `@Phrase?`
}

//nolint:govet // participle grammar tags are not standard struct tags
type calDate struct {
	Calendar string     `@Escape?`
	Full     *fullDate  `( @@`
	Partial  *monthYear `| @@`
	YearOnly *yearPart  `| @@ )`
}

//nolint:govet // participle grammar tags are not standard struct tags
type fullDate struct {
	Day   string    `@Int`
	Month string    `@Month`
	Year  *yearPart `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type monthYear struct {
	Month string    `@Month`
	Year  *yearPart `@@`
}

//nolint:govet // participle grammar tags are not standard struct tags
type yearPart struct {
	Year string `@Int`
	Alt  string `( "/" @Int )?`
	Era  string `@("BC" | "B.C." | "BCE" | "AD" | "A.D." | "CE")?`
}

var dateLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Escape", Pattern: `@#D[^@]*@`},
	{Name: "Phrase", Pattern: `\([^)]*\)`},
	{Name: "Month", Pattern: `(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)\b`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Slash", Pattern: `/`},
	{Name: "Word", Pattern: `[A-Z][A-Z.]*`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var dateParser = participle.MustBuild[dateValue](
	participle.Lexer(dateLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(4),
)

var months = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
	"JUL": 7, "AUG": 8, "SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

const (
	calendarGregorian = "@#DGREGORIAN@"
	calendarJulian    = "@#DJULIAN@"
)

// ParsePeriod interprets a GEDCOM DATE value. Approximations (ABT, CAL,
// EST) set circa; BEF and AFT leave the other bound open; BET..AND builds
// a range; FROM..TO builds a period. Julian dates, explicit or implied by
// a slashed year such as "1731/2", are stored as Gregorian with the Julian
// display flag set.
func ParsePeriod(s string) (DatePeriod, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return DatePeriod{}, fmt.Errorf("%w: empty value", ErrUnparseableDate)
	}
	v, err := dateParser.ParseString("", s)
	if err != nil {
		return DatePeriod{}, fmt.Errorf("%w: %q: %v", ErrUnparseableDate, s, err)
	}
	return v.period()
}

func (v *dateValue) period() (DatePeriod, error) {
	switch {
	case v.Between != nil:
		lo, err := v.Between.Low.ymd(false)
		if err != nil {
			return DatePeriod{}, err
		}
		hi, err := v.Between.High.ymd(false)
		if err != nil {
			return DatePeriod{}, err
		}
		r, err := NewDateRange(lo, hi)
		if err != nil {
			return DatePeriod{}, err
		}
		return Single(r), nil

	case v.From != nil:
		start, err := v.From.Start.ymd(false)
		if err != nil {
			return DatePeriod{}, err
		}
		end := Unknown
		if v.From.End != nil {
			e, err := v.From.End.ymd(false)
			if err != nil {
				return DatePeriod{}, err
			}
			end = Exact(e)
		}
		return NewDatePeriod(Exact(start), end), nil

	case v.To != nil:
		end, err := v.To.ymd(false)
		if err != nil {
			return DatePeriod{}, err
		}
		return NewDatePeriod(Unknown, Exact(end)), nil

	case v.Before != nil:
		d, err := v.Before.ymd(false)
		if err != nil {
			return DatePeriod{}, err
		}
		r, err := NewDateRange(YMD{}, d)
		if err != nil {
			return DatePeriod{}, err
		}
		return Single(r), nil

	case v.After != nil:
		d, err := v.After.ymd(false)
		if err != nil {
			return DatePeriod{}, err
		}
		r, err := NewDateRange(d, YMD{})
		if err != nil {
			return DatePeriod{}, err
		}
		return Single(r), nil

	case v.About != nil:
		return single(v.About, true)
	case v.Interp != nil:
		return single(v.Interp.Date, false)
	case v.Plain != nil:
		return single(v.Plain, false)
	}
	return DatePeriod{}, fmt.Errorf("%w: date phrase only", ErrUnparseableDate)
}

func single(c *calDate, circa bool) (DatePeriod, error) {
	d, err := c.ymd(circa)
	if err != nil {
		return DatePeriod{}, err
	}
	return Single(Exact(d)), nil
}

func (c *calDate) ymd(circa bool) (YMD, error) {
	if c.Calendar != "" && c.Calendar != calendarGregorian && c.Calendar != calendarJulian {
		return YMD{}, fmt.Errorf("%w: unsupported calendar %s", ErrUnparseableDate, c.Calendar)
	}

	var dayStr, monthStr string
	var yp *yearPart
	switch {
	case c.Full != nil:
		dayStr, monthStr, yp = c.Full.Day, c.Full.Month, c.Full.Year
	case c.Partial != nil:
		monthStr, yp = c.Partial.Month, c.Partial.Year
	default:
		yp = c.YearOnly
	}

	year, err := strconv.Atoi(yp.Year)
	if err != nil {
		return YMD{}, fmt.Errorf("%w: year %q", ErrUnparseableDate, yp.Year)
	}
	julian := c.Calendar == calendarJulian
	if yp.Alt != "" {
		if c.Calendar == calendarGregorian {
			return YMD{}, fmt.Errorf("%w: slashed year %s/%s in Gregorian calendar", ErrUnparseableDate, yp.Year, yp.Alt)
		}
		julian = true
		if year, err = laterOfDualYear(year, yp.Alt); err != nil {
			return YMD{}, err
		}
	}
	if strings.HasPrefix(yp.Era, "B") {
		year = -year
	}

	day := 0
	if dayStr != "" {
		if day, err = strconv.Atoi(dayStr); err != nil {
			return YMD{}, fmt.Errorf("%w: day %q", ErrUnparseableDate, dayStr)
		}
	}

	d, err := NewYMD(year, months[monthStr], day)
	if err != nil {
		return YMD{}, err
	}
	if julian && d.month != 0 && d.day != 0 {
		if d, err = julianToGregorian(d.year, d.month, d.day); err != nil {
			return YMD{}, err
		}
	}
	return d.WithJulian(julian).WithCirca(circa), nil
}

// laterOfDualYear resolves an old-style year like 1731/2 or 1699/00 to the
// later (new-style) year.
func laterOfDualYear(year int, alt string) (int, error) {
	n, err := strconv.Atoi(alt)
	if err != nil || len(alt) > 4 {
		return 0, fmt.Errorf("%w: dual year %d/%s", ErrUnparseableDate, year, alt)
	}
	mod := 1
	for range alt {
		mod *= 10
	}
	later := year - year%mod + n
	if later < year {
		later += mod
	}
	return later, nil
}
