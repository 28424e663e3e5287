package core

import (
	"errors"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date in ISO 8601 YYYY-MM-DD form. The format is
// fixed-width, so lexicographic order is chronological order and the
// YYYY-MM prefix identifies the month. The empty string means "no date".
type Date string

var ErrInvalidDate = errors.New("invalid date")

// NewDate builds a Date from a time.Time, dropping the time of day.
func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Today returns the current local date.
func Today() Date {
	return NewDate(time.Now())
}

// ParseDate validates s as an ISO date.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", ErrInvalidDate
	}
	return Date(s), nil
}

func (d Date) IsZero() bool { return d == "" }

func (d Date) Validate() error {
	_, err := ParseDate(string(d))
	return err
}

// Time returns the date at midnight UTC, or the zero time when d is not
// a valid date.
func (d Date) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// MonthKey returns the YYYY-MM prefix, or "" for an empty or short value.
func (d Date) MonthKey() string {
	if len(d) < 7 {
		return ""
	}
	return string(d[:7])
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return NewDate(d.Time().AddDate(0, 0, n))
}

// DaysUntil returns the number of whole days from d to other.
func (d Date) DaysUntil(other Date) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

// DaysInMonth returns the number of calendar days in a YYYY-MM month,
// or 0 when the key is not a valid month.
func DaysInMonth(monthKey string) int {
	t, err := time.Parse("2006-01", monthKey)
	if err != nil {
		return 0
	}
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// CurrentMonthKey returns the YYYY-MM key of the current month.
func CurrentMonthKey() string {
	return Today().MonthKey()
}
