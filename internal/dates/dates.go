// Package dates normalizes the heterogeneous date strings found on
// scanned maritime certificates into UTC instants.
package dates

import (
	"errors"
	"strings"
	"time"
)

// ErrUnparseable is the sentinel for input no layout could resolve.
// Callers decide whether that is fatal; this package never panics on
// malformed input.
var ErrUnparseable = errors.New("dates: unparseable date")

// DisplayLayout is the day-first layout used everywhere a date is shown.
const DisplayLayout = "02/01/2006"

// layouts tried in order after the slash-delimited forms.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05", // SQL-style timestamp
	"2006-01-02",
	"2 January 2006",
	"02 January 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"January 2006", // month-name only, day defaults to 1
	"Jan 2006",
	"Jan. 2006",
}

// Parse resolves a raw date string to a UTC instant.
//
// Slash-delimited NN/NN/YYYY input prefers the day-first reading;
// month-first is attempted only when day-first is not a valid calendar
// date. Timezone-less input is treated as UTC, never local time.
func Parse(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, ErrUnparseable
	}

	if strings.Contains(s, "/") {
		if t, err := time.ParseInLocation("02/01/2006", s, time.UTC); err == nil {
			return t, nil
		}
		if t, err := time.ParseInLocation("01/02/2006", s, time.UTC); err == nil {
			return t, nil
		}
		return time.Time{}, ErrUnparseable
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrUnparseable
}

// ParseAny accepts already-typed instants as well as strings. Instants
// keep their wall clock and are re-anchored to UTC when they carry no
// offset information of their own.
func ParseAny(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return time.Time{}, ErrUnparseable
		}
		return t.UTC(), nil
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, ErrUnparseable
		}
		return t.UTC(), nil
	case string:
		return Parse(t)
	case nil:
		return time.Time{}, ErrUnparseable
	default:
		return time.Time{}, ErrUnparseable
	}
}

// Display renders a date in the day-first layout used on survey schedules.
func Display(t time.Time) string {
	return t.UTC().Format(DisplayLayout)
}
