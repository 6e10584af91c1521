package models

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// DateKey truncates a time to its UTC date-only ISO form.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// DateOnly strips a time-of-day suffix from an ISO timestamp, leaving the
// YYYY-MM-DD prefix untouched if the value is already date-only.
func DateOnly(v string) string {
	if i := strings.IndexByte(v, 'T'); i >= 0 {
		return v[:i]
	}
	if i := strings.IndexByte(v, ' '); i >= 0 {
		return v[:i]
	}
	return strings.TrimSpace(v)
}

// AddDays shifts a date key by n calendar days. Unparseable input is
// returned unchanged so callers stay total over malformed records.
func AddDays(date string, n int) string {
	t, err := time.Parse(dateLayout, DateOnly(date))
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(dateLayout)
}

// ParseDate returns the UTC midnight instant for a date key.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(dateLayout, DateOnly(date))
}
