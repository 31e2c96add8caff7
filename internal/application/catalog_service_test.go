package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/visit-scheduler/internal/application"
	"github.com/example/visit-scheduler/internal/persistence"
	"github.com/example/visit-scheduler/internal/testfixtures"
)

func newCatalogHarness(t *testing.T) (*application.CatalogService, *testfixtures.ServiceFactory) {
	t.Helper()

	factory := testfixtures.NewServiceFactory()
	factory.Store.SeedService(persistence.Service{ID: "service-1", Name: "Deep Clean", Price: 180, DurationMinutes: 180})
	factory.Store.SeedAddon(persistence.Addon{ID: "addon-windows", Name: "Windows", Price: 20})
	factory.Store.SeedMember(persistence.TeamMember{ID: "member-1", DisplayName: "Ana", PayRate: 25})
	factory.Store.SeedMember(persistence.TeamMember{ID: "member-2", DisplayName: "Ben", PayRate: 22})
	// Monday 09:00-17:00 for member-1 only.
	factory.Store.SeedAvailabilityRule(testfixtures.WeekdayRule("member-1", time.Monday, "09:00", "17:00"))

	return factory.CatalogService(), factory
}

func TestListServices(t *testing.T) {
	t.Parallel()

	service, _ := newCatalogHarness(t)

	views, err := service.ListServices(context.Background())
	if err != nil {
		t.Fatalf("ListServices returned error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 service, got %d", len(views))
	}
	if views[0].ID != "service-1" || views[0].Price != 180 {
		t.Fatalf("unexpected service view: %+v", views[0])
	}
}

func TestListAddons(t *testing.T) {
	t.Parallel()

	service, _ := newCatalogHarness(t)

	views, err := service.ListAddons(context.Background())
	if err != nil {
		t.Fatalf("ListAddons returned error: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 addon, got %d", len(views))
	}
}

func TestMemberOptionsForSlotPartitions(t *testing.T) {
	t.Parallel()

	service, _ := newCatalogHarness(t)

	// 2024-06-03 is a Monday.
	options, err := service.MemberOptionsForSlot(context.Background(), "2024-06-03", "10:00")
	if err != nil {
		t.Fatalf("MemberOptionsForSlot returned error: %v", err)
	}

	if len(options.Available) != 1 || options.Available[0].ID != "member-1" {
		t.Fatalf("expected member-1 available, got %+v", options.Available)
	}
	if len(options.Unavailable) != 1 || options.Unavailable[0].ID != "member-2" {
		t.Fatalf("expected member-2 unavailable, got %+v", options.Unavailable)
	}
}

func TestMemberOptionsForSlotOutsideWindow(t *testing.T) {
	t.Parallel()

	service, _ := newCatalogHarness(t)

	options, err := service.MemberOptionsForSlot(context.Background(), "2024-06-03", "18:00")
	if err != nil {
		t.Fatalf("MemberOptionsForSlot returned error: %v", err)
	}
	if len(options.Available) != 0 {
		t.Fatalf("expected nobody available at 18:00, got %+v", options.Available)
	}
	if len(options.Unavailable) != 2 {
		t.Fatalf("expected 2 unavailable, got %d", len(options.Unavailable))
	}
}

func TestMemberOptionsForSlotValidatesInput(t *testing.T) {
	t.Parallel()

	service, _ := newCatalogHarness(t)

	_, err := service.MemberOptionsForSlot(context.Background(), "June 3rd", "10:00")
	var vErr *application.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for bad date, got %v", err)
	}

	_, err = service.MemberOptionsForSlot(context.Background(), "2024-06-03", "10am")
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for bad time, got %v", err)
	}
}

func TestMemberOptionsCacheServesUntilInvalidated(t *testing.T) {
	t.Parallel()

	service, factory := newCatalogHarness(t)
	ctx := context.Background()

	first, err := service.MemberOptionsForSlot(ctx, "2024-06-03", "10:00")
	if err != nil {
		t.Fatalf("MemberOptionsForSlot returned error: %v", err)
	}

	// A directory change alone is not visible until the cache entry
	// expires or is invalidated.
	factory.Store.SeedMember(persistence.TeamMember{ID: "member-3", DisplayName: "Chi", PayRate: 30})

	cached, err := service.MemberOptionsForSlot(ctx, "2024-06-03", "10:00")
	if err != nil {
		t.Fatalf("MemberOptionsForSlot returned error: %v", err)
	}
	if len(cached.Unavailable) != len(first.Unavailable) {
		t.Fatal("expected the cached partition before invalidation")
	}

	service.InvalidateAvailability()

	fresh, err := service.MemberOptionsForSlot(ctx, "2024-06-03", "10:00")
	if err != nil {
		t.Fatalf("MemberOptionsForSlot returned error: %v", err)
	}
	if len(fresh.Unavailable) != 2 {
		t.Fatalf("expected member-3 in the fresh partition, got %+v", fresh.Unavailable)
	}
}
