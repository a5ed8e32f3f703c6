package utils

import (
	"fmt"
	"time"
)

// Wire formats: minute precision on input, second precision on output.
const (
	DateFormat       = "2006-01-02"
	DateTimeFormat   = "2006-01-02 15:04"
	StoredTimeFormat = "2006-01-02 15:04:05"
	ClockFormat      = "15:04"
)

// ParseDate parses a "YYYY-MM-DD" date at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateFormat, s, loc)
}

// ParseDateTime parses a "YYYY-MM-DD HH:MM" datetime in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateTimeFormat, s, loc)
}

// FormatStored renders a datetime in the stored/output wire format.
func FormatStored(t time.Time) string {
	return t.Format(StoredTimeFormat)
}

// OnDate places a "HH:MM" clock value on the given calendar date in loc.
func OnDate(date time.Time, clock string, loc *time.Location) (time.Time, error) {
	c, err := time.ParseInLocation(ClockFormat, clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour(), c.Minute(), 0, 0, loc), nil
}

// Overlaps reports whether the half-open intervals [start1,end1) and
// [start2,end2) intersect. Touching endpoints do not collide.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}
