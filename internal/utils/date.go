package utils

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate accepts either a plain calendar date ("2006-01-02") or a full
// RFC 3339 timestamp and returns the parsed time in UTC.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected %s or RFC 3339", value, dateLayout)
}

// EndOfDay pushes a plain calendar date to the last instant of that day so
// inclusive end bounds cover the whole day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}
