// Package availability answers advisory "is this member free" questions
// used to group staff options and render warnings. It never blocks a save.
package availability

import "time"

// Rule describes one weekday window for a team member. Times are
// fixed-width zero-padded "HH:MM" strings, which makes lexicographic
// comparison equivalent to temporal comparison.
type Rule struct {
	MemberID  string
	Weekday   time.Weekday
	Start     string
	End       string
	Available bool
}

// Member is the minimal staff record the advisor partitions.
type Member struct {
	ID          string
	DisplayName string
	PayRate     float64
}

// IsAvailable reports whether the member has a rule covering the given
// date's weekday whose window contains the time. No rule for that weekday
// means unavailable (fail-closed), as does a rule marked unavailable. The
// window is half-open: [Start, End).
func IsAvailable(memberID string, date time.Time, hhmm string, rules []Rule) bool {
	weekday := date.Weekday()
	for _, rule := range rules {
		if rule.MemberID != memberID || rule.Weekday != weekday {
			continue
		}
		if !rule.Available {
			return false
		}
		return rule.Start <= hhmm && hhmm < rule.End
	}
	return false
}

// Partition splits members into available and unavailable groups for a
// visit slot. Used purely to label options and drive a non-blocking
// warning banner.
func Partition(members []Member, date time.Time, hhmm string, rules []Rule) (available, unavailable []Member) {
	for _, member := range members {
		if IsAvailable(member.ID, date, hhmm, rules) {
			available = append(available, member)
		} else {
			unavailable = append(unavailable, member)
		}
	}
	return available, unavailable
}
