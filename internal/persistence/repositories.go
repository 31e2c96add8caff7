package persistence

import "context"

// BookingRepository stores visit series and their link rows.
type BookingRepository interface {
	// GetBooking fetches a single booking row by id.
	GetBooking(ctx context.Context, id string) (Booking, error)
	// GetSeries fetches the parent row, every row whose parent reference
	// equals the parent id, and the link rows for each booking in the set.
	GetSeries(ctx context.Context, parentID string) (SeriesRecord, error)
	// ApplySeriesPlan executes a reconciled write set in one transaction.
	// Either every operation lands or none does.
	ApplySeriesPlan(ctx context.Context, apply SeriesApply) error
	// DeleteSeries removes the parent, its children, and all link rows.
	DeleteSeries(ctx context.Context, parentID string) error
}

// ServiceCatalog exposes the cleaning-service catalog.
type ServiceCatalog interface {
	GetService(ctx context.Context, id string) (Service, error)
	ListServices(ctx context.Context) ([]Service, error)
}

// AddonCatalog exposes the per-visit addon catalog.
type AddonCatalog interface {
	ListAddons(ctx context.Context) ([]Addon, error)
}

// TeamDirectory exposes staff records and their availability rules.
type TeamDirectory interface {
	ListMembers(ctx context.Context) ([]TeamMember, error)
	ListAvailabilityRules(ctx context.Context) ([]AvailabilityRule, error)
}
