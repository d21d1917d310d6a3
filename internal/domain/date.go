package domain

import "fmt"

// Date is a league calendar date. Month values <= 0 mark an unscheduled date.
type Date struct {
	Year  int
	Month int
	Day   int
}

// NewDate builds a Date from year, month and day.
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Unscheduled reports whether the month is missing.
func (d Date) Unscheduled() bool {
	return d.Month <= 0
}

// Compare returns -1, 0 or +1 when d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(d.Month - o.Month)
	default:
		return sign(d.Day - o.Day)
	}
}

// OnOrBefore reports whether a scheduled date d falls on or before current.
// Unscheduled dates within the current year never qualify.
func (d Date) OnOrBefore(current Date) bool {
	if d.Year != current.Year {
		return d.Year < current.Year
	}
	if d.Month == current.Month {
		return d.Day <= current.Day
	}
	return d.Month > 0 && d.Month < current.Month
}

// String formats the date as D/M/Y.
func (d Date) String() string {
	return fmt.Sprintf("%d/%d/%d", d.Day, d.Month, d.Year)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
