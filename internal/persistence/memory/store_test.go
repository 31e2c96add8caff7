package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/visit-scheduler/internal/persistence"
)

func booking(id string, day int) persistence.Booking {
	start := time.Date(2024, time.June, day, 9, 0, 0, 0, time.UTC)
	return persistence.Booking{
		ID:              id,
		CompanyID:       "company-1",
		CustomerID:      "customer-1",
		RecurrenceCount: 1,
		StartDate:       start,
		EndDate:         start.Add(2 * time.Hour),
		Price:           100,
		DurationMinutes: 120,
		ServiceID:       "service-1",
	}
}

func child(id string, day int, parentID string) persistence.Booking {
	b := booking(id, day)
	b.ParentBookingID = &parentID
	return b
}

func seedSeries(t *testing.T, store *Store) {
	t.Helper()
	err := store.ApplySeriesPlan(context.Background(), persistence.SeriesApply{
		InsertBookings: []persistence.Booking{
			booking("parent", 3),
			child("child-1", 10, "parent"),
			child("child-2", 17, "parent"),
		},
		InsertAddons: []persistence.BookingAddon{
			{BookingID: "parent", AddonID: "addon-1", PriceAtTime: 20, Quantity: 1},
		},
		InsertAssignments: []persistence.BookingAssignment{
			{BookingID: "child-1", MemberID: "member-1", PayRate: 25, Status: "assigned"},
		},
	})
	if err != nil {
		t.Fatalf("seed series: %v", err)
	}
}

func TestGetSeriesOrdersChildren(t *testing.T) {
	t.Parallel()

	store := NewStore()
	seedSeries(t, store)

	record, err := store.GetSeries(context.Background(), "parent")
	if err != nil {
		t.Fatalf("GetSeries returned error: %v", err)
	}

	if record.Parent.ID != "parent" {
		t.Fatalf("unexpected parent %q", record.Parent.ID)
	}
	if len(record.Children) != 2 || record.Children[0].ID != "child-1" || record.Children[1].ID != "child-2" {
		t.Fatalf("children out of order: %+v", record.Children)
	}
	if len(record.Addons["parent"]) != 1 {
		t.Fatalf("expected parent addon link, got %+v", record.Addons)
	}
	if len(record.Assignments["child-1"]) != 1 {
		t.Fatalf("expected child-1 assignment link, got %+v", record.Assignments)
	}
}

func TestApplySeriesPlanRejectsDuplicateInsert(t *testing.T) {
	t.Parallel()

	store := NewStore()
	seedSeries(t, store)

	err := store.ApplySeriesPlan(context.Background(), persistence.SeriesApply{
		InsertBookings: []persistence.Booking{booking("parent", 24)},
	})
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestApplySeriesPlanRejectsUpdateOfMissingRow(t *testing.T) {
	t.Parallel()

	store := NewStore()
	seedSeries(t, store)

	err := store.ApplySeriesPlan(context.Background(), persistence.SeriesApply{
		UpdateBookings: []persistence.Booking{booking("ghost", 24)},
	})
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if store.BookingCount() != 3 {
		t.Fatal("failed plan must leave the store untouched")
	}
}

func TestApplySeriesPlanMixedWriteSet(t *testing.T) {
	t.Parallel()

	store := NewStore()
	seedSeries(t, store)
	ctx := context.Background()

	updated := booking("child-1", 11)
	updated.ParentBookingID = strPtr("parent")
	updated.Price = 150

	err := store.ApplySeriesPlan(ctx, persistence.SeriesApply{
		InsertBookings:   []persistence.Booking{child("child-3", 24, "parent")},
		UpdateBookings:   []persistence.Booking{updated},
		DeleteBookingIDs: []string{"child-2"},
		DeleteAddons:     []persistence.BookingAddonKey{{BookingID: "parent", AddonID: "addon-1"}},
		InsertAssignments: []persistence.BookingAssignment{
			{BookingID: "child-3", MemberID: "member-2", PayRate: 22, Status: "assigned"},
		},
	})
	if err != nil {
		t.Fatalf("ApplySeriesPlan returned error: %v", err)
	}

	record, err := store.GetSeries(ctx, "parent")
	if err != nil {
		t.Fatalf("GetSeries returned error: %v", err)
	}

	if len(record.Children) != 2 {
		t.Fatalf("expected children child-1 and child-3, got %+v", record.Children)
	}
	if record.Children[0].Price != 150 {
		t.Fatalf("expected updated price 150, got %v", record.Children[0].Price)
	}
	if _, ok := record.Addons["parent"]; ok {
		t.Fatal("parent addon link should be removed")
	}
	if len(record.Assignments["child-3"]) != 1 {
		t.Fatalf("expected child-3 assignment, got %+v", record.Assignments)
	}
}

func TestDeleteSeriesDropsLinkRows(t *testing.T) {
	t.Parallel()

	store := NewStore()
	seedSeries(t, store)
	ctx := context.Background()

	if err := store.DeleteSeries(ctx, "parent"); err != nil {
		t.Fatalf("DeleteSeries returned error: %v", err)
	}
	if store.BookingCount() != 0 {
		t.Fatalf("expected empty store, got %d rows", store.BookingCount())
	}
	if _, err := store.GetBooking(ctx, "child-1"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected child rows removed, got %v", err)
	}
}

func TestDeleteSeriesMissing(t *testing.T) {
	t.Parallel()

	store := NewStore()
	if err := store.DeleteSeries(context.Background(), "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetBookingReturnsCopy(t *testing.T) {
	t.Parallel()

	store := NewStore()
	seedSeries(t, store)
	ctx := context.Background()

	got, err := store.GetBooking(ctx, "parent")
	if err != nil {
		t.Fatalf("GetBooking returned error: %v", err)
	}
	got.Price = 999

	again, _ := store.GetBooking(ctx, "parent")
	if again.Price != 100 {
		t.Fatal("mutating a returned booking must not affect the store")
	}
}

func strPtr(s string) *string {
	return &s
}
