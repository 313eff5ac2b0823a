package utils

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ValidateDate accepts an empty value or a calendar date in YYYY-MM-DD form.
func ValidateDate(value string) error {
	if strings.TrimSpace(value) == "" {
		return nil
	}

	if _, err := time.Parse(DateLayout, value); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return nil
}

// NormalizeClock accepts an empty value or a 24h wall clock time and returns
// it in zero padded HH:MM form, which is what time inputs round-trip.
func NormalizeClock(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}

	parsed, err := time.Parse(ClockLayout, value)
	if err != nil {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	return parsed.Format(ClockLayout), nil
}

// DateOnly truncates t to midnight in loc.
func DateOnly(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DayOffset returns the calendar date days after now in loc, formatted YYYY-MM-DD.
// Calendar arithmetic keeps DST transitions from shifting the day.
func DayOffset(now time.Time, loc *time.Location, days int) string {
	return DateOnly(now, loc).AddDate(0, 0, days).Format(DateLayout)
}
