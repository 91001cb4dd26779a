package date

import (
	"errors"
	"fmt"
)

var (
	// ErrDatesOutOfOrder: a range whose latest bound precedes its earliest.
	ErrDatesOutOfOrder = errors.New("dates out of order")
	// ErrInvalidDate: a year, month or day out of range.
	ErrInvalidDate = errors.New("invalid date")
	// ErrUnparseableDate: a date value the grammar does not accept.
	ErrUnparseableDate = errors.New("unparseable date")
)

// OutOfOrderError carries the offending bounds of a rejected DateRange.
type OutOfOrderError struct {
	Earliest YMD
	Latest   YMD
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("latest date (%s) is less than earliest date (%s)", e.Latest, e.Earliest)
}

func (e *OutOfOrderError) Unwrap() error { return ErrDatesOutOfOrder }
