package parse

import (
	"fmt"
	"strings"
	"time"
)

// MinuteLayout is the date-time form used by the booking forms (no zone).
const MinuteLayout = "2006-01-02T15:04"

// layouts accepted from users and from the backend, most specific first.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	MinuteLayout,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Timestamp parses an ISO-8601 date-time. Values without an offset are read in loc.
func Timestamp(raw string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp: %q", raw)
}

// FormatMinute renders t in loc truncated to minute precision.
func FormatMinute(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Truncate(time.Minute).Format(MinuteLayout)
}

// Before reports whether a is strictly earlier than b. Both must parse.
func Before(a, b string, loc *time.Location) (bool, error) {
	ta, err := Timestamp(a, loc)
	if err != nil {
		return false, err
	}
	tb, err := Timestamp(b, loc)
	if err != nil {
		return false, err
	}
	return ta.Before(tb), nil
}

// DefaultWindow returns tomorrow 09:00-10:00 in loc, relative to now.
func DefaultWindow(now time.Time, loc *time.Location) (string, string) {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day()+1, 9, 0, 0, 0, loc)
	end := start.Add(time.Hour)
	return start.Format(MinuteLayout), end.Format(MinuteLayout)
}
