package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayOf truncates a timestamp to start-of-day UTC. All effective-date and
// deduplication comparisons happen at this granularity.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last instant of the day containing t (UTC).
func EndOfDay(t time.Time) time.Time {
	return DayOf(t).Add(24*time.Hour - time.Nanosecond)
}

// SameDay reports whether two timestamps fall on the same UTC day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}

// spreadsheetEpoch is day zero of the 1900 date system (serial 1 = 1900-01-01,
// with the historical off-by-one for the phantom 1900 leap day baked in).
var spreadsheetEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// textual day-month-year layouts accepted from imports, tried in order.
var dayLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2.1.2006",
	"02/01/06",
	"2/1/06",
	"2006-01-02",
}

// ParseDay parses an imported date cell: textual day-month-year (separators
// "/", "-", "."), ISO, or a spreadsheet serial number. The result is always
// truncated to start-of-day UTC.
func ParseDay(s string) (time.Time, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	// Spreadsheet serial: an integer count of days since 1899-12-30.
	// Bounds keep genuine years (e.g. "2024") from being read as serials.
	if n, err := strconv.Atoi(cleaned); err == nil {
		if n < 20000 || n > 80000 {
			return time.Time{}, fmt.Errorf("date serial %d out of range", n)
		}
		return spreadsheetEpoch.AddDate(0, 0, n), nil
	}

	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return DayOf(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
