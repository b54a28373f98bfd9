package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidMonthKey is returned when a month key is not in "{year}-{monthIndex}" form.
var ErrInvalidMonthKey = errors.New("invalid month key")

// MonthKey identifies a calendar month. Its string form is "{year}-{zeroBasedMonth}",
// so August 2024 is "2024-7". Settings documents are keyed by this string and
// payments are bucketed by it.
type MonthKey struct {
	Year  int
	Month time.Month
}

// ParseMonthKey parses the canonical string form. Anything that would not format
// back to the same string (padding, signs, out-of-range months) is rejected.
func ParseMonthKey(s string) (MonthKey, error) {
	yearPart, monthPart, ok := strings.Cut(s, "-")
	if !ok {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil || year < 1000 || year > 9999 {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	index, err := strconv.Atoi(monthPart)
	if err != nil || index < 0 || index > 11 {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	key := MonthKey{Year: year, Month: time.Month(index + 1)}
	if key.String() != s {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	return key, nil
}

// MonthKeyOf returns the month containing t, evaluated in UTC.
func MonthKeyOf(t time.Time) MonthKey {
	t = t.UTC()
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// String formats the key with a zero-based month index.
func (k MonthKey) String() string {
	return fmt.Sprintf("%d-%d", k.Year, int(k.Month)-1)
}

// Previous returns the calendar month before k.
func (k MonthKey) Previous() MonthKey {
	if k.Month == time.January {
		return MonthKey{Year: k.Year - 1, Month: time.December}
	}
	return MonthKey{Year: k.Year, Month: k.Month - 1}
}

// Start is the first instant of the month in UTC.
func (k MonthKey) Start() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the last second of the month in UTC. Payments use it as their due date.
func (k MonthKey) End() time.Time {
	return k.Start().AddDate(0, 1, 0).Add(-time.Second)
}

// Contains reports whether t falls inside the month.
func (k MonthKey) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(k.Start()) && !t.After(k.End())
}
