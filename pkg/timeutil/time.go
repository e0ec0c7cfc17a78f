package timeutil

import (
	"time"

	apperrors "github.com/giftbridge/settlement-service/pkg/errors"
)

// Now returns the current time in UTC.
// Always use this instead of time.Now() to keep timestamps timezone-consistent.
func Now() time.Time {
	return time.Now().UTC()
}

// ParseDate parses a date string and returns a UTC time
func ParseDate(layout, value string) (time.Time, error) {
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// StartOfDay returns midnight UTC of t's day
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MonthBounds returns the first instant of t's month and the first instant of
// the next month, the half-open [start, end) period used for monthly
// settlements.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	year, month, _ := t.UTC().Date()
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// ValidatePeriod checks that a settlement period is well-formed
func ValidatePeriod(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperrors.Validation("period", "start and end are required")
	}
	if !end.After(start) {
		return apperrors.Validation("period", "end must be after start")
	}
	return nil
}
