package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/visit-scheduler/internal/visit"
)

func persistedInstance(id string, day int) visit.Instance {
	return visit.Instance{
		ID:              id,
		Date:            time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC),
		Time:            "09:00",
		ServiceID:       "deep-clean",
		Price:           180,
		DurationMinutes: 180,
		PayRate:         28,
		AddonIDs:        []string{"windows"},
		Assignments:     []visit.Assignment{{MemberID: "member-1", PayRate: 28}},
	}
}

func TestReconcileAgainstEmptyStorageInsertsAll(t *testing.T) {
	t.Parallel()

	current := []visit.Instance{
		{ID: visit.NewDraftID(), Date: time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC), Time: "09:00"},
		{ID: visit.NewDraftID(), Date: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC), Time: "09:00"},
	}

	plan := Reconcile(current, nil)
	assert.Len(t, plan.Inserts, 2)
	assert.Empty(t, plan.Updates)
	assert.Empty(t, plan.DeleteIDs)
}

func TestReconcileUnchangedProjectionIsEmpty(t *testing.T) {
	t.Parallel()

	persisted := []visit.Instance{
		persistedInstance("booking-1", 3),
		persistedInstance("booking-2", 10),
	}
	current := []visit.Instance{
		persisted[0].Clone(),
		persisted[1].Clone(),
	}

	plan := Reconcile(current, persisted)
	assert.True(t, plan.Empty(), "reconciling an unchanged projection must be a no-op, got %+v", plan)
}

func TestReconcileMixedScenario(t *testing.T) {
	t.Parallel()

	// Stored: A, B, C, D. Current: A unchanged, B repriced, NEW draft.
	// C and D are gone.
	persisted := []visit.Instance{
		persistedInstance("booking-a", 3),
		persistedInstance("booking-b", 10),
		persistedInstance("booking-c", 17),
		persistedInstance("booking-d", 24),
	}

	editedB := persisted[1].Clone()
	editedB.Price = 150

	draft := persistedInstance(visit.NewDraftID(), 28)

	current := []visit.Instance{persisted[0].Clone(), editedB, draft}

	plan := Reconcile(current, persisted)

	require.Len(t, plan.Inserts, 1)
	assert.Equal(t, draft.ID, plan.Inserts[0].ID)

	require.Len(t, plan.Updates, 1)
	assert.Equal(t, "booking-b", plan.Updates[0].ID)
	assert.Equal(t, 150.0, plan.Updates[0].Price)

	assert.Equal(t, []string{"booking-c", "booking-d"}, plan.DeleteIDs)
}

func TestReconcileSetsAreDisjointAndExhaustive(t *testing.T) {
	t.Parallel()

	persisted := []visit.Instance{
		persistedInstance("booking-a", 3),
		persistedInstance("booking-b", 10),
		persistedInstance("booking-c", 17),
	}
	editedA := persisted[0].Clone()
	editedA.Time = "14:00"
	draft := persistedInstance(visit.NewDraftID(), 24)

	current := []visit.Instance{editedA, persisted[1].Clone(), draft}
	plan := Reconcile(current, persisted)

	seen := make(map[string]string)
	for _, in := range plan.Inserts {
		seen[in.ID] = "insert"
	}
	for _, in := range plan.Updates {
		_, dup := seen[in.ID]
		require.False(t, dup, "id %s in two sets", in.ID)
		seen[in.ID] = "update"
	}
	for _, id := range plan.DeleteIDs {
		_, dup := seen[id]
		require.False(t, dup, "id %s in two sets", id)
		seen[id] = "delete"
	}

	// Every stored id is addressed or intentionally untouched.
	assert.Equal(t, "update", seen[editedA.ID])
	assert.Equal(t, "insert", seen[draft.ID])
	assert.Equal(t, "delete", seen["booking-c"])
	_, touched := seen["booking-b"]
	assert.False(t, touched, "unchanged booking-b must stay out of the plan")
}

func TestReconcileVanishedRowBecomesInsert(t *testing.T) {
	t.Parallel()

	// The instance carries a persisted-style id but the row is gone from
	// storage. The visit is re-inserted rather than silently dropped.
	orphan := persistedInstance("booking-gone", 3)
	plan := Reconcile([]visit.Instance{orphan}, nil)

	require.Len(t, plan.Inserts, 1)
	assert.Empty(t, plan.Updates)
	assert.Empty(t, plan.DeleteIDs)
}

func TestReconcileAddonDiff(t *testing.T) {
	t.Parallel()

	stored := persistedInstance("booking-1", 3)
	current := stored.Clone()
	current.AddonIDs = []string{"windows", "oven"}

	plan := Reconcile([]visit.Instance{current}, []visit.Instance{stored})

	assert.Empty(t, plan.Updates, "link-only change must not touch the booking row")
	diff, ok := plan.AddonDiffs["booking-1"]
	require.True(t, ok)
	assert.Equal(t, []string{"oven"}, diff.Add)
	assert.Empty(t, diff.Remove)

	current.AddonIDs = nil
	plan = Reconcile([]visit.Instance{current}, []visit.Instance{stored})
	diff = plan.AddonDiffs["booking-1"]
	assert.Equal(t, []string{"windows"}, diff.Remove)
}

func TestReconcileAssignmentDiff(t *testing.T) {
	t.Parallel()

	stored := persistedInstance("booking-1", 3)
	current := stored.Clone()
	current.Assignments = []visit.Assignment{
		{MemberID: "member-1", PayRate: 30}, // pay rate changed
		{MemberID: "member-2", PayRate: 22}, // new
	}

	plan := Reconcile([]visit.Instance{current}, []visit.Instance{stored})

	diff, ok := plan.AssignmentDiffs["booking-1"]
	require.True(t, ok)
	require.Len(t, diff.Add, 1)
	assert.Equal(t, "member-2", diff.Add[0].MemberID)
	require.Len(t, diff.Update, 1)
	assert.Equal(t, "member-1", diff.Update[0].MemberID)
	assert.Equal(t, 30.0, diff.Update[0].PayRate)
	assert.Empty(t, diff.RemoveMemberIDs)

	current.Assignments = nil
	plan = Reconcile([]visit.Instance{current}, []visit.Instance{stored})
	diff = plan.AssignmentDiffs["booking-1"]
	assert.Equal(t, []string{"member-1"}, diff.RemoveMemberIDs)
}

func TestReconcileDeleteCarriesNoLinkDiffs(t *testing.T) {
	t.Parallel()

	stored := persistedInstance("booking-1", 3)
	plan := Reconcile(nil, []visit.Instance{stored})

	assert.Equal(t, []string{"booking-1"}, plan.DeleteIDs)
	assert.Empty(t, plan.AddonDiffs)
	assert.Empty(t, plan.AssignmentDiffs)
}

func TestReconcileIsIdempotentAfterApply(t *testing.T) {
	t.Parallel()

	// Simulate apply: inserts get real ids and become the new persisted
	// state; a second reconcile of the same projection is empty.
	persisted := []visit.Instance{persistedInstance("booking-a", 3)}
	draft := persistedInstance(visit.NewDraftID(), 10)
	current := []visit.Instance{persisted[0].Clone(), draft}

	first := Reconcile(current, persisted)
	require.Len(t, first.Inserts, 1)

	applied := draft.Clone()
	applied.ID = "booking-b"
	nextPersisted := []visit.Instance{persisted[0].Clone(), applied}
	nextCurrent := []visit.Instance{persisted[0].Clone(), applied.Clone()}

	second := Reconcile(nextCurrent, nextPersisted)
	assert.True(t, second.Empty())
}
