package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/visit-scheduler/internal/visit"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weeklySpec(count int) Spec {
	return Spec{
		Frequency:  FrequencyWeekly,
		Count:      count,
		AnchorDate: date(2024, time.June, 3),
		AnchorTime: "09:00",
	}
}

func baseTemplate() visit.Template {
	return visit.Template{
		ServiceID:       "deep-clean",
		Price:           180,
		DurationMinutes: 180,
		PayRate:         28,
		StartTime:       "09:00",
		AddonIDs:        []string{"windows", "oven"},
		Assignments: []visit.Assignment{
			{MemberID: "member-1", PayRate: 28},
		},
	}
}

func TestExpandWeeklyChainsDates(t *testing.T) {
	t.Parallel()

	instances, err := Expand(weeklySpec(4), baseTemplate(), Options{})
	require.NoError(t, err)
	require.Len(t, instances, 4)

	wantDates := []time.Time{
		date(2024, time.June, 3),
		date(2024, time.June, 10),
		date(2024, time.June, 17),
		date(2024, time.June, 24),
	}
	for i, in := range instances {
		assert.Equal(t, wantDates[i], in.Date, "instance %d", i)
		assert.Equal(t, "09:00", in.Time)
		assert.Equal(t, "deep-clean", in.ServiceID)
		assert.Equal(t, 180.0, in.Price)
		assert.True(t, visit.IsDraftID(in.ID), "instance %d should carry a draft id", i)
	}
}

func TestExpandBiweekly(t *testing.T) {
	t.Parallel()

	spec := weeklySpec(4)
	spec.Frequency = FrequencyBiweekly

	instances, err := Expand(spec, baseTemplate(), Options{})
	require.NoError(t, err)
	require.Len(t, instances, 4)

	wantDates := []time.Time{
		date(2024, time.June, 3),
		date(2024, time.June, 17),
		date(2024, time.July, 1),
		date(2024, time.July, 15),
	}
	for i, in := range instances {
		assert.Equal(t, wantDates[i], in.Date, "instance %d", i)
	}
}

func TestExpandMonthlyChainsOffPreviousDate(t *testing.T) {
	t.Parallel()

	spec := Spec{
		Frequency:  FrequencyMonthly,
		Count:      3,
		AnchorDate: date(2024, time.January, 31),
		AnchorTime: "10:00",
	}

	instances, err := Expand(spec, baseTemplate(), Options{})
	require.NoError(t, err)
	require.Len(t, instances, 3)

	// Jan 31 -> Mar 2 (normalized) -> Apr 2: each step is one month after
	// the previous date, not after the anchor.
	assert.Equal(t, date(2024, time.January, 31), instances[0].Date)
	assert.Equal(t, date(2024, time.March, 2), instances[1].Date)
	assert.Equal(t, date(2024, time.April, 2), instances[2].Date)
}

func TestExpandNoneFrequencyYieldsNoProjection(t *testing.T) {
	t.Parallel()

	spec := weeklySpec(4)
	spec.Frequency = FrequencyNone

	instances, err := Expand(spec, baseTemplate(), Options{})
	require.NoError(t, err)
	assert.Empty(t, instances)
}

func TestExpandMissingAnchorYieldsNoProjection(t *testing.T) {
	t.Parallel()

	spec := weeklySpec(4)
	spec.AnchorDate = time.Time{}

	instances, err := Expand(spec, baseTemplate(), Options{})
	require.NoError(t, err)
	assert.Empty(t, instances)

	spec = weeklySpec(4)
	spec.AnchorTime = ""

	instances, err = Expand(spec, baseTemplate(), Options{})
	require.NoError(t, err)
	assert.Empty(t, instances)
}

func TestExpandRejectsNonPositiveCount(t *testing.T) {
	t.Parallel()

	spec := weeklySpec(0)
	_, err := Expand(spec, baseTemplate(), Options{})
	require.ErrorIs(t, err, ErrInvalidCount)
}

func TestExpandInstancesAreIndependentCopies(t *testing.T) {
	t.Parallel()

	instances, err := Expand(weeklySpec(3), baseTemplate(), Options{})
	require.NoError(t, err)
	require.Len(t, instances, 3)

	instances[0].AddonIDs[0] = "mutated"
	instances[0].Assignments[0].MemberID = "mutated"

	assert.Equal(t, "oven", instances[1].AddonIDs[0])
	assert.Equal(t, "member-1", instances[1].Assignments[0].MemberID)
}

func TestExpandDraftIDsAreUnique(t *testing.T) {
	t.Parallel()

	instances, err := Expand(weeklySpec(4), baseTemplate(), Options{})
	require.NoError(t, err)

	seen := make(map[string]struct{}, len(instances))
	for _, in := range instances {
		_, dup := seen[in.ID]
		assert.False(t, dup, "duplicate id %q", in.ID)
		seen[in.ID] = struct{}{}
	}
}

func TestExpandSplitServiceAppliesFromSecondInstance(t *testing.T) {
	t.Parallel()

	opts := Options{Split: SplitService{
		Enabled:                true,
		ServiceID:              "maintenance-clean",
		ServiceDefaultPrice:    120,
		ServiceDefaultDuration: 120,
	}}

	instances, err := Expand(weeklySpec(3), baseTemplate(), opts)
	require.NoError(t, err)
	require.Len(t, instances, 3)

	assert.Equal(t, "deep-clean", instances[0].ServiceID)
	assert.Equal(t, 180.0, instances[0].Price)

	for i := 1; i < len(instances); i++ {
		assert.Equal(t, "maintenance-clean", instances[i].ServiceID, "instance %d", i)
		assert.Equal(t, 120.0, instances[i].Price, "instance %d", i)
		assert.Equal(t, 120, instances[i].DurationMinutes, "instance %d", i)
	}
}

func TestExpandSplitServiceOverrides(t *testing.T) {
	t.Parallel()

	price := 99.0
	duration := 90
	opts := Options{Split: SplitService{
		Enabled:                true,
		ServiceID:              "maintenance-clean",
		OverridePrice:          &price,
		OverrideDuration:       &duration,
		ServiceDefaultPrice:    120,
		ServiceDefaultDuration: 120,
	}}

	instances, err := Expand(weeklySpec(2), baseTemplate(), opts)
	require.NoError(t, err)
	require.Len(t, instances, 2)

	assert.Equal(t, 99.0, instances[1].Price)
	assert.Equal(t, 90, instances[1].DurationMinutes)
}
