// Package visit defines the visit domain records shared by the recurrence,
// series, pricing and persistence layers. Every field carries an explicit
// default; there are no optional-by-omission row maps anywhere downstream.
package visit

import (
	"sort"
	"time"
)

// Assignment links a team member to a visit with a per-visit payout.
// MemberID refers to a staff member, not an authentication principal.
type Assignment struct {
	MemberID    string
	PayRate     float64
	DisplayName string
}

// Template carries the default attributes applied to a freshly generated
// instance. It is owned by the caller's form state and read-only input to
// the expander.
type Template struct {
	ServiceID       string
	Price           float64
	DurationMinutes int
	PayRate         float64
	StartTime       string // "HH:MM"
	AddonIDs        []string
	Assignments     []Assignment
}

// Instance is one concrete dated visit in a series projection.
type Instance struct {
	ID              string
	Date            time.Time // midnight, UTC
	Time            string    // "HH:MM"
	ServiceID       string
	Price           float64
	DurationMinutes int
	PayRate         float64
	AddonIDs        []string
	Assignments     []Assignment
}

// Persisted reports whether the instance corresponds to a stored row. The
// draft-prefix on the ID is the sole insert-vs-update signal.
func (in Instance) Persisted() bool {
	return in.ID != "" && !IsDraftID(in.ID)
}

// Clone returns a deep copy of the instance. Addon sets and assignment
// lists are copied so edits to one instance can never mutate a sibling.
func (in Instance) Clone() Instance {
	out := in
	out.AddonIDs = CopyAddonIDs(in.AddonIDs)
	out.Assignments = CopyAssignments(in.Assignments)
	return out
}

// DiscountKind enumerates the supported discount interpretations.
type DiscountKind string

const (
	// DiscountNone indicates no discount is applied.
	DiscountNone DiscountKind = ""
	// DiscountFixed subtracts a fixed amount from the subtotal.
	DiscountFixed DiscountKind = "fixed"
	// DiscountPercent subtracts a percentage of the subtotal.
	DiscountPercent DiscountKind = "percent"
)

// Discount is applied once to the aggregate series total, never per visit.
type Discount struct {
	Kind   DiscountKind
	Value  float64
	Reason string
}

// CopyAddonIDs returns an independent, sorted, de-duplicated copy of an
// addon id set.
func CopyAddonIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// CopyAssignments returns an independent copy of an assignment list.
func CopyAssignments(assignments []Assignment) []Assignment {
	if len(assignments) == 0 {
		return nil
	}
	out := make([]Assignment, len(assignments))
	copy(out, assignments)
	return out
}

// DateOnly normalizes a timestamp to midnight UTC on the same calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
