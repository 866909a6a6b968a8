// utils/dates.go
package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidDateRange = errors.New("invalid date range")

const dateLayout = "2006-01-02"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// EndOfDay is the last millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// ParseDate accepts YYYY-MM-DD or RFC3339. A bare date is interpreted in loc
// and moved to the end of the day when endOfDay is set.
func ParseDate(value string, endOfDay bool, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("date is required")
	}
	if t, err := time.ParseInLocation(dateLayout, value, loc); err == nil {
		if endOfDay {
			return EndOfDay(t), nil
		}
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", value)
	}
	if endOfDay {
		return EndOfDay(t.In(loc)), nil
	}
	return t, nil
}

// ParseDateRange parses an inclusive [start, end] pair. The end is extended
// through 23:59:59.999 of its calendar day.
func ParseDateRange(start, end string, loc *time.Location) (time.Time, time.Time, error) {
	from, err := ParseDate(start, false, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate: %v", ErrInvalidDateRange, err)
	}
	to, err := ParseDate(end, true, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: endDate: %v", ErrInvalidDateRange, err)
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate is after endDate", ErrInvalidDateRange)
	}
	return from, to, nil
}
