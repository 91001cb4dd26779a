package date

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYMDString(t *testing.T) {
	tests := []struct {
		name string
		d    YMD
		want string
	}{
		{"full", MustYMD(2006, 11, 6), "2006-11-06"},
		{"bc", MustYMD(-30, 1, 1), "-0030-01-01"},
		{"four digit padding", MustYMD(400, 11, 6), "0400-11-06"},
		{"two digit year", MustYMD(37, 11, 6), "0037-11-06"},
		{"month only", MustYMD(2000, 5, 0), "2000-05"},
		{"year only", Year(1066), "1066"},
		{"circa", Year(1400).WithCirca(true), "c. 1400"},
		{"minimum", Minimum(), "[before]"},
		{"maximum", Maximum(), "[after]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.String())
		})
	}
}

func TestNewYMDValidation(t *testing.T) {
	_, err := NewYMD(0, 1, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDate))

	var ide *InvalidDateError
	require.ErrorAs(t, err, &ide)
	assert.Equal(t, "year", ide.Field)

	_, err = NewYMD(1900, 13, 1)
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = NewYMD(1900, 1, 32)
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = NewYMD(10000, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidDate)

	assert.Panics(t, func() { MustYMD(0, 0, 0) })
}

func TestYMDEqualIgnoresFlags(t *testing.T) {
	a := MustYMD(1732, 2, 22)
	assert.True(t, a.Equal(MustYMD(1732, 2, 22)))
	assert.True(t, a.Equal(a.WithCirca(true).WithJulian(true)))
	assert.False(t, a.Equal(MustYMD(1732, 2, 21)))
	assert.False(t, Year(1732).Equal(MustYMD(1732, 2, 0)))
}

func TestYMDCompareNotConsistentWithEqual(t *testing.T) {
	// A year-only date approximates to July 3 of that year.
	y := Year(2000)
	jul3 := MustYMD(2000, 7, 3)
	assert.Equal(t, 0, y.Compare(jul3))
	assert.False(t, y.Equal(jul3))

	assert.Equal(t, -1, Year(1999).Compare(y))
	assert.Equal(t, 1, MustYMD(2000, 12, 0).Compare(y))
}

func TestYMDApprox(t *testing.T) {
	assert.Equal(t, time.Date(1850, time.March, 15, 12, 0, 0, 0, time.UTC), MustYMD(1850, 3, 0).Approx())
	assert.Equal(t, time.Date(1850, time.July, 9, 12, 0, 0, 0, time.UTC), MustYMD(1850, 0, 9).Approx())
	// 1 BC is astronomical year 0.
	assert.Equal(t, 0, MustYMD(-1, 1, 1).Approx().Year())
	assert.Equal(t, -31, MustYMD(-32, 1, 1).Approx().Year())
}

func TestYMDIsExact(t *testing.T) {
	assert.True(t, MustYMD(1900, 1, 1).IsExact())
	assert.False(t, MustYMD(1900, 1, 1).WithCirca(true).IsExact())
	assert.False(t, MustYMD(1900, 1, 0).IsExact())
	assert.False(t, Year(1900).IsExact())
}

func TestDateRangeBounds(t *testing.T) {
	r, err := NewDateRange(YMD{}, Year(1900))
	require.NoError(t, err)
	assert.True(t, r.Earliest().Equal(Minimum()))
	assert.True(t, r.Latest().Equal(Year(1900)))
	assert.Equal(t, "[before]?1900", r.String())

	r, err = NewDateRange(Year(1900), YMD{})
	require.NoError(t, err)
	assert.True(t, r.Latest().Equal(Maximum()))

	r, err = NewDateRange(YMD{}, YMD{})
	require.NoError(t, err)
	assert.True(t, r.IsUnknown())
	assert.Equal(t, "[unknown]", r.String())
}

func TestDateRangeOutOfOrder(t *testing.T) {
	_, err := NewDateRange(Year(1900), Year(1800))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDatesOutOfOrder)

	var oe *OutOfOrderError
	require.ErrorAs(t, err, &oe)
	assert.True(t, oe.Earliest.Equal(Year(1900)))
	assert.True(t, oe.Latest.Equal(Year(1800)))
}

func TestDateRangeExact(t *testing.T) {
	r, err := NewDateRange(Year(1900), Year(1900))
	require.NoError(t, err)
	assert.True(t, r.IsExact())
	assert.Equal(t, "1900", r.String())
	assert.True(t, r.Equal(Exact(Year(1900))))
}

func TestDateRangeApprox(t *testing.T) {
	assert.Equal(t, time.Unix(0, 0).UTC(), Unknown.Approx())

	before, err := NewDateRange(YMD{}, MustYMD(1900, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, MustYMD(1900, 1, 1).Approx(), before.Approx())

	after, err := NewDateRange(MustYMD(1900, 1, 1), YMD{})
	require.NoError(t, err)
	assert.Equal(t, MustYMD(1900, 1, 1).Approx(), after.Approx())

	between, err := NewDateRange(MustYMD(1900, 1, 1), MustYMD(1900, 1, 3))
	require.NoError(t, err)
	assert.Equal(t, MustYMD(1900, 1, 2).Approx(), between.Approx())
}

func TestDatePeriod(t *testing.T) {
	p := NewDatePeriod(DateRange{}, DateRange{})
	assert.True(t, p.Start().IsUnknown())
	assert.True(t, p.End().IsUnknown())

	s := Single(Exact(MustYMD(1966, 7, 3)))
	assert.True(t, s.IsSingle())
	assert.Equal(t, "1966-07-03", s.String())

	fromTo := NewDatePeriod(Exact(MustYMD(1966, 7, 3)), Exact(MustYMD(1966, 8, 3)))
	assert.False(t, fromTo.IsSingle())
	assert.Equal(t, "1966-07-03-1966-08-03", fromTo.String())
}

func TestDatePeriodCompare(t *testing.T) {
	a := Single(Exact(Year(1800)))
	b := Single(Exact(Year(1900)))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))

	// Same start: the end decides.
	short := NewDatePeriod(Exact(Year(1800)), Exact(Year(1810)))
	long := NewDatePeriod(Exact(Year(1800)), Exact(Year(1850)))
	assert.Equal(t, -1, short.Compare(long))

	// Unknown start: the end decides.
	to := NewDatePeriod(Unknown, Exact(Year(1700)))
	assert.Equal(t, -1, to.Compare(a))
}

func TestDatePeriodOverlapsSymmetric(t *testing.T) {
	periods := []DatePeriod{
		Single(Exact(Year(1800))),
		NewDatePeriod(Exact(Year(1790)), Exact(Year(1810))),
		NewDatePeriod(Exact(Year(1805)), Exact(Year(1900))),
		Single(Exact(Year(1950))),
		Single(Unknown),
	}
	for i, p := range periods {
		for j, q := range periods {
			assert.Equal(t, p.Overlaps(q), q.Overlaps(p), "periods %d and %d", i, j)
		}
		assert.True(t, p.Overlaps(p), "period %d overlaps itself", i)
	}
	assert.True(t, periods[0].Overlaps(periods[1]))
	assert.False(t, periods[0].Overlaps(periods[3]))
}

func TestJulianToGregorian(t *testing.T) {
	d, err := julianToGregorian(1732, 2, 11)
	require.NoError(t, err)
	assert.Equal(t, "1732-02-22", d.String())
	d, err = julianToGregorian(1582, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, "1582-10-15", d.String())

	_, err = julianToGregorian(9999, 12, 31)
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = julianToGregorian(-9999, 1, 1)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		circa  bool
		julian bool
	}{
		{in: "1 JAN 2001", want: "2001-01-01"},
		{in: "09 DEC 2000", want: "2000-12-09"},
		{in: "1492", want: "1492"},
		{in: "DEC 1941", want: "1941-12"},
		{in: "dec 1941", want: "1941-12"},
		{in: "ABT 1400", want: "c. 1400", circa: true},
		{in: "EST 1400", want: "c. 1400", circa: true},
		{in: "INT 31 MAR 1850 (Easter 1850)", want: "1850-03-31"},
		{in: "32 BC", want: "-0032"},
		{in: "1860 AD", want: "1860"},
		{in: "@#DJULIAN@ 11 FEB 1731/2", want: "1732-02-22", julian: true},
		{in: "11 FEB 1731/2", want: "1732-02-22", julian: true},
		{in: "@#DJULIAN@ 1700", want: "1700", julian: true},
		{in: "@#DGREGORIAN@2 FEB 2222", want: "2222-02-02"},
		{in: "BEF 1900", want: "[before]?1900"},
		{in: "AFT 1900", want: "1900?[after]"},
		{in: "BET 1840 AND 1846", want: "1840?1846"},
		{in: "FROM 3 JUL 1966 TO 3 AUG 1966", want: "1966-07-03-1966-08-03"},
		{in: "FROM 1966", want: "1966-[unknown]"},
		{in: "TO 1966", want: "[unknown]-1966"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePeriod(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.String())
			if p.IsSingle() && p.Start().IsExact() {
				d := p.Start().Earliest()
				assert.Equal(t, tt.circa, d.Circa())
				assert.Equal(t, tt.julian, d.Julian())
			}
		})
	}
}

func TestParsePeriodErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"1 JAN 0",
		"25 JUL",
		"(sometime)",
		"@#DGREGORIAN@ 11 FEB 1731/2",
		"@#DHEBREW@ 1 TSH 5700",
		"BET 1900 AND 1800",
		"yesterday",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParsePeriod(in)
			assert.Error(t, err)
		})
	}

	_, err := ParsePeriod("BET 1900 AND 1800")
	assert.ErrorIs(t, err, ErrDatesOutOfOrder)
	_, err = ParsePeriod("1 JAN 0")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = ParsePeriod("25 JUL")
	assert.ErrorIs(t, err, ErrUnparseableDate)

	// Julian dates at the ends of the year range shift outside it
	for _, in := range []string{
		"@#DJULIAN@ 31 DEC 9999",
		"@#DJULIAN@ 1 JAN 9999 BC",
		"BEF @#DJULIAN@ 1 JAN 9999 BC",
		"AFT @#DJULIAN@ 31 DEC 9999",
	} {
		_, err := ParsePeriod(in)
		assert.ErrorIs(t, err, ErrInvalidDate, in)
		assert.NotErrorIs(t, err, ErrDatesOutOfOrder, in)
	}
}

func TestLaterOfDualYear(t *testing.T) {
	y, err := laterOfDualYear(1731, "2")
	require.NoError(t, err)
	assert.Equal(t, 1732, y)

	y, err = laterOfDualYear(1699, "00")
	require.NoError(t, err)
	assert.Equal(t, 1700, y)

	y, err = laterOfDualYear(1709, "10")
	require.NoError(t, err)
	assert.Equal(t, 1710, y)
}
