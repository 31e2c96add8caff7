package series

import (
	"sort"

	"github.com/example/visit-scheduler/internal/visit"
)

// AddonDiff captures the link-row changes for one persisted booking. Links
// present on both sides are left alone: price_at_time is a snapshot and is
// never retroactively corrected on unchanged links.
type AddonDiff struct {
	Add    []string
	Remove []string
}

// Empty reports whether the diff carries no work.
func (d AddonDiff) Empty() bool {
	return len(d.Add) == 0 && len(d.Remove) == 0
}

// AssignmentDiff captures assignment link changes for one persisted
// booking, keyed by member. Assignments are diffed per instance exactly
// like addons; a changed pay rate on an existing link is an update.
type AssignmentDiff struct {
	Add             []visit.Assignment
	Update          []visit.Assignment
	RemoveMemberIDs []string
}

// Empty reports whether the diff carries no work.
func (d AssignmentDiff) Empty() bool {
	return len(d.Add) == 0 && len(d.Update) == 0 && len(d.RemoveMemberIDs) == 0
}

// Plan is the full write set computed by Reconcile. It is pure data: the
// store applies it inside a single transaction. Inserted instances still
// carry their draft ids; the applier mints real identifiers and creates the
// nested link rows only after each new booking id is known.
type Plan struct {
	Inserts   []visit.Instance
	Updates   []visit.Instance
	DeleteIDs []string

	// Keyed by persisted booking id; only surviving persisted bookings
	// appear here. New bookings get their links written wholesale at
	// insert time.
	AddonDiffs      map[string]AddonDiff
	AssignmentDiffs map[string]AssignmentDiff
}

// Empty reports whether applying the plan would touch no rows.
func (p Plan) Empty() bool {
	if len(p.Inserts) > 0 || len(p.Updates) > 0 || len(p.DeleteIDs) > 0 {
		return false
	}
	for _, d := range p.AddonDiffs {
		if !d.Empty() {
			return false
		}
	}
	for _, d := range p.AssignmentDiffs {
		if !d.Empty() {
			return false
		}
	}
	return true
}

// Reconcile diffs the in-memory projection against the persisted series
// state and emits disjoint, exhaustive insert/update/delete sets.
//
// Classification of booking rows is driven solely by the id: a draft id is
// an insert, a persisted id present in storage is an update candidate, and
// a stored id with no surviving in-memory instance is a delete. An update
// is only emitted when a day-of-visit field actually changed, which keeps
// reconciliation idempotent: a second pass over an unchanged projection
// yields an empty plan.
//
// Link rows for surviving bookings are diffed per instance. Deleted
// bookings need no link diff; their link rows are removed with the row.
func Reconcile(current []visit.Instance, persisted []visit.Instance) Plan {
	plan := Plan{
		AddonDiffs:      make(map[string]AddonDiff),
		AssignmentDiffs: make(map[string]AssignmentDiff),
	}

	persistedByID := make(map[string]visit.Instance, len(persisted))
	for _, in := range persisted {
		persistedByID[in.ID] = in
	}

	surviving := make(map[string]struct{}, len(current))
	for _, in := range current {
		if visit.IsDraftID(in.ID) || in.ID == "" {
			plan.Inserts = append(plan.Inserts, in.Clone())
			continue
		}

		surviving[in.ID] = struct{}{}
		stored, ok := persistedByID[in.ID]
		if !ok {
			// Unknown persisted-style id: the row vanished under us.
			// Treat it as an insert so the visit is not silently lost.
			plan.Inserts = append(plan.Inserts, in.Clone())
			continue
		}

		if !coreFieldsEqual(in, stored) {
			plan.Updates = append(plan.Updates, in.Clone())
		}

		if diff := diffAddons(stored.AddonIDs, in.AddonIDs); !diff.Empty() {
			plan.AddonDiffs[in.ID] = diff
		}
		if diff := diffAssignments(stored.Assignments, in.Assignments); !diff.Empty() {
			plan.AssignmentDiffs[in.ID] = diff
		}
	}

	for _, stored := range persisted {
		if _, ok := surviving[stored.ID]; !ok {
			plan.DeleteIDs = append(plan.DeleteIDs, stored.ID)
		}
	}
	sort.Strings(plan.DeleteIDs)

	return plan
}

// coreFieldsEqual compares the booking-row fields only; link rows are
// diffed separately.
func coreFieldsEqual(a, b visit.Instance) bool {
	return a.Date.Equal(b.Date) &&
		a.Time == b.Time &&
		a.ServiceID == b.ServiceID &&
		a.Price == b.Price &&
		a.DurationMinutes == b.DurationMinutes &&
		a.PayRate == b.PayRate
}

func diffAddons(stored, wanted []string) AddonDiff {
	storedSet := make(map[string]struct{}, len(stored))
	for _, id := range stored {
		storedSet[id] = struct{}{}
	}
	wantedSet := make(map[string]struct{}, len(wanted))
	for _, id := range wanted {
		wantedSet[id] = struct{}{}
	}

	var diff AddonDiff
	for _, id := range visit.CopyAddonIDs(wanted) {
		if _, ok := storedSet[id]; !ok {
			diff.Add = append(diff.Add, id)
		}
	}
	for _, id := range visit.CopyAddonIDs(stored) {
		if _, ok := wantedSet[id]; !ok {
			diff.Remove = append(diff.Remove, id)
		}
	}
	return diff
}

func diffAssignments(stored, wanted []visit.Assignment) AssignmentDiff {
	storedByMember := make(map[string]visit.Assignment, len(stored))
	for _, a := range stored {
		storedByMember[a.MemberID] = a
	}
	wantedMembers := make(map[string]struct{}, len(wanted))

	var diff AssignmentDiff
	for _, a := range wanted {
		if a.MemberID == "" {
			continue
		}
		if _, dup := wantedMembers[a.MemberID]; dup {
			continue
		}
		wantedMembers[a.MemberID] = struct{}{}

		existing, ok := storedByMember[a.MemberID]
		if !ok {
			diff.Add = append(diff.Add, a)
			continue
		}
		if existing.PayRate != a.PayRate {
			diff.Update = append(diff.Update, a)
		}
	}

	for _, a := range stored {
		if _, ok := wantedMembers[a.MemberID]; !ok {
			diff.RemoveMemberIDs = append(diff.RemoveMemberIDs, a.MemberID)
		}
	}
	sort.Strings(diff.RemoveMemberIDs)
	sort.Slice(diff.Add, func(i, j int) bool { return diff.Add[i].MemberID < diff.Add[j].MemberID })
	sort.Slice(diff.Update, func(i, j int) bool { return diff.Update[i].MemberID < diff.Update[j].MemberID })
	return diff
}
