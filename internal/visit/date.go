package visit

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format for visit dates.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date in DateLayout, normalized to midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("visit: invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a date in DateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
