package date

import "time"

// unixEpochJDN is the Julian Day Number of 1970-01-01.
const unixEpochJDN = 2440588

// julianToGregorian converts a Julian-calendar date (historical year) to
// the proleptic Gregorian calendar. The result is checked against the
// representable range, which the shift between calendars can leave.
func julianToGregorian(year, month, day int) (YMD, error) {
	y := astronomical(year)
	a := (14 - month) / 12
	yy := y + 4800 - a
	mm := month + 12*a - 3
	jdn := day + (153*mm+2)/5 + 365*yy + floorDiv(yy, 4) - 32083

	t := time.Date(1970, time.January, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, jdn-unixEpochJDN)
	g := fromTime(t)
	return NewYMD(g.year, g.month, g.day)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
