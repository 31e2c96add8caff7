package recurrence

import (
	"errors"
	"strings"
	"time"
)

// Frequency represents supported recurrence intervals.
type Frequency string

const (
	// FrequencyNone indicates a single, non-recurring booking.
	FrequencyNone Frequency = ""
	// FrequencyDaily repeats every day.
	FrequencyDaily Frequency = "daily"
	// FrequencyWeekly repeats every week.
	FrequencyWeekly Frequency = "weekly"
	// FrequencyBiweekly repeats every two weeks.
	FrequencyBiweekly Frequency = "biweekly"
	// FrequencyMonthly repeats every month.
	FrequencyMonthly Frequency = "monthly"
)

// ErrUnknownRule indicates a stored recurrence rule string is outside the
// supported vocabulary.
var ErrUnknownRule = errors.New("recurrence: unknown rule")

// SerializeRule renders the compact rule string persisted on the series
// anchor. FrequencyNone serializes to the empty string (stored as NULL).
func SerializeRule(freq Frequency) string {
	switch freq {
	case FrequencyDaily:
		return "FREQ=DAILY"
	case FrequencyWeekly:
		return "FREQ=WEEKLY"
	case FrequencyBiweekly:
		return "FREQ=WEEKLY;INTERVAL=2"
	case FrequencyMonthly:
		return "FREQ=MONTHLY"
	default:
		return ""
	}
}

// ParseRule is the inverse of SerializeRule. An absent rule means the
// booking does not recur. The vocabulary is deliberately small; this is not
// an RRULE parser.
func ParseRule(rule string) (Frequency, error) {
	rule = strings.TrimSpace(rule)
	switch {
	case rule == "":
		return FrequencyNone, nil
	case strings.Contains(rule, "FREQ=DAILY"):
		return FrequencyDaily, nil
	case strings.Contains(rule, "FREQ=WEEKLY"):
		if strings.Contains(rule, "INTERVAL=2") {
			return FrequencyBiweekly, nil
		}
		return FrequencyWeekly, nil
	case strings.Contains(rule, "FREQ=MONTHLY"):
		return FrequencyMonthly, nil
	default:
		return FrequencyNone, ErrUnknownRule
	}
}

// AddPeriod advances a date by one recurrence period. Monthly uses Go's
// AddDate normalization, so a series anchored near month end drifts through
// short months instead of snapping back; this drift then compounds because
// expansion chains each date off the previous one.
func AddPeriod(date time.Time, freq Frequency) time.Time {
	switch freq {
	case FrequencyDaily:
		return date.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return date.AddDate(0, 0, 7)
	case FrequencyBiweekly:
		return date.AddDate(0, 0, 14)
	case FrequencyMonthly:
		return date.AddDate(0, 1, 0)
	default:
		return date
	}
}
