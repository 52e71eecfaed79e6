package utils

import (
	"strings"
	"time"
)

const (
	LayoutDate     = "2006-01-02"
	LayoutDateTime = "2006-01-02 15:04:05"
	LayoutMonth    = "2006-01"
)

// ParseDate parses YYYY-MM-DD in local timezone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(LayoutDate, strings.TrimSpace(s), time.Local)
}

// ParseDateOrDateTime accepts "YYYY-MM-DD", "YYYY-MM-DD HH:MM[:SS]" or RFC3339,
// which is everything the booking forms have sent so far.
func ParseDateOrDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := []string{LayoutDateTime, "2006-01-02 15:04", "2006-01-02T15:04", LayoutDate}
	for _, l := range layouts {
		if t, err := time.ParseInLocation(l, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Parse(time.RFC3339, s)
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(LayoutDate)
}

// FormatDateTime formats time to "YYYY-MM-DD HH:MM:SS" in local timezone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(LayoutDateTime)
}

// StartOfDay truncates to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.In(time.Local).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// EndOfDay returns the last second of t's local day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Second)
}

// MonthRange returns the first and last second of t's month.
func MonthRange(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.In(time.Local).Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.Local)
	return start, start.AddDate(0, 1, 0).Add(-time.Second)
}
