package util

import (
	"errors"
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date format (use YYYY-MM-DD or RFC3339)")

// ParseDateRange parses optional start/end bounds. Date-only ends include the
// whole day, so endExclusive is the following midnight. Reversed bounds are
// swapped.
func ParseDateRange(startStr, endStr *string) (start time.Time, hasStart bool, endExclusive time.Time, hasEnd bool, err error) {
	rawStart, startOk, _, err := parseBound(startStr)
	if err != nil {
		return time.Time{}, false, time.Time{}, false, err
	}
	rawEnd, endOk, endDateOnly, err := parseBound(endStr)
	if err != nil {
		return time.Time{}, false, time.Time{}, false, err
	}

	if startOk && endOk && rawEnd.Before(rawStart) {
		rawStart, rawEnd = rawEnd, rawStart
	}

	if startOk {
		start, hasStart = rawStart, true
	}
	if endOk {
		endExclusive, hasEnd = rawEnd, true
		if endDateOnly {
			endExclusive = rawEnd.AddDate(0, 0, 1)
		}
	}
	return start, hasStart, endExclusive, hasEnd, nil
}

func parseBound(s *string) (t time.Time, ok bool, dateOnly bool, err error) {
	if s == nil {
		return time.Time{}, false, false, nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return time.Time{}, false, false, nil
	}
	if tt, e := time.Parse(time.RFC3339, v); e == nil {
		return tt, true, false, nil
	}
	if tt, e := time.Parse(DayLayout, v); e == nil {
		return tt, true, true, nil
	}
	return time.Time{}, false, false, ErrInvalidDate
}

// ParseDay accepts exactly "YYYY-MM-DD" or an RFC3339 timestamp and returns
// UTC midnight of the calendar day as written. Anything trailing a date is
// rejected.
func ParseDay(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if t, err := time.Parse(DayLayout, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return DateOnly(t), nil
	}
	return time.Time{}, ErrInvalidDate
}

func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DayLayout)
}

// MonthBounds returns the first and last day of a month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}
