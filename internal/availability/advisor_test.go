package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2024-06-03 is a Monday.
var monday = time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)

func mondayRule(memberID, start, end string) Rule {
	return Rule{MemberID: memberID, Weekday: time.Monday, Start: start, End: end, Available: true}
}

func TestIsAvailableInsideWindow(t *testing.T) {
	t.Parallel()

	rules := []Rule{mondayRule("member-1", "09:00", "17:00")}

	assert.True(t, IsAvailable("member-1", monday, "09:00", rules), "window start is inclusive")
	assert.True(t, IsAvailable("member-1", monday, "12:30", rules))
	assert.False(t, IsAvailable("member-1", monday, "17:00", rules), "window end is exclusive")
	assert.False(t, IsAvailable("member-1", monday, "08:59", rules))
}

func TestIsAvailableNoRuleFailsClosed(t *testing.T) {
	t.Parallel()

	rules := []Rule{mondayRule("member-1", "09:00", "17:00")}

	assert.False(t, IsAvailable("member-2", monday, "10:00", rules), "member without rules")

	tuesday := monday.AddDate(0, 0, 1)
	assert.False(t, IsAvailable("member-1", tuesday, "10:00", rules), "weekday without a rule")
}

func TestIsAvailableExplicitlyUnavailable(t *testing.T) {
	t.Parallel()

	rules := []Rule{{
		MemberID: "member-1", Weekday: time.Monday,
		Start: "09:00", End: "17:00", Available: false,
	}}

	assert.False(t, IsAvailable("member-1", monday, "10:00", rules))
}

func TestPartition(t *testing.T) {
	t.Parallel()

	members := []Member{
		{ID: "member-1", DisplayName: "Ana", PayRate: 25},
		{ID: "member-2", DisplayName: "Ben", PayRate: 22},
		{ID: "member-3", DisplayName: "Chi", PayRate: 30},
	}
	rules := []Rule{
		mondayRule("member-1", "09:00", "17:00"),
		mondayRule("member-3", "13:00", "18:00"),
	}

	available, unavailable := Partition(members, monday, "10:00", rules)

	if assert.Len(t, available, 1) {
		assert.Equal(t, "member-1", available[0].ID)
	}
	if assert.Len(t, unavailable, 2) {
		assert.Equal(t, "member-2", unavailable[0].ID)
		assert.Equal(t, "member-3", unavailable[1].ID)
	}
}

func TestPartitionKeepsInputOrder(t *testing.T) {
	t.Parallel()

	members := []Member{{ID: "b"}, {ID: "a"}, {ID: "c"}}
	available, unavailable := Partition(members, monday, "10:00", nil)

	assert.Empty(t, available)
	assert.Equal(t, "b", unavailable[0].ID)
	assert.Equal(t, "a", unavailable[1].ID)
	assert.Equal(t, "c", unavailable[2].ID)
}
