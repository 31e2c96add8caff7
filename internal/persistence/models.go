package persistence

import "time"

// Booking represents one visit row. A series is a parent row
// (ParentBookingID nil) plus child rows referencing it.
type Booking struct {
	ID              string
	CompanyID       string
	CustomerID      string
	ParentBookingID *string
	RecurrenceRule  *string
	RecurrenceCount int
	StartDate       time.Time
	EndDate         time.Time
	Price           float64
	DurationMinutes int
	ServiceID       string
	CleanerPayRate  float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BookingAddon is an addon link row. PriceAtTime snapshots the catalog
// price at link creation and is never retroactively corrected.
type BookingAddon struct {
	BookingID   string
	AddonID     string
	PriceAtTime float64
	Quantity    int
}

// BookingAddonKey identifies one addon link row.
type BookingAddonKey struct {
	BookingID string
	AddonID   string
}

// BookingAssignment is a staff assignment link row.
type BookingAssignment struct {
	BookingID string
	MemberID  string
	PayRate   float64
	Status    string
}

// BookingAssignmentKey identifies one assignment link row.
type BookingAssignmentKey struct {
	BookingID string
	MemberID  string
}

// SeriesRecord bundles the persisted state of one series: the parent row,
// its children, and the link rows for every booking id in the set.
type SeriesRecord struct {
	Parent      Booking
	Children    []Booking
	Addons      map[string][]BookingAddon
	Assignments map[string][]BookingAssignment
}

// Bookings returns parent plus children in storage order.
func (r SeriesRecord) Bookings() []Booking {
	out := make([]Booking, 0, len(r.Children)+1)
	out = append(out, r.Parent)
	out = append(out, r.Children...)
	return out
}

// SeriesApply is the reconciled write set executed in a single
// transaction. Booking ids are resolved before application; no draft ids
// reach the store.
type SeriesApply struct {
	InsertBookings   []Booking
	UpdateBookings   []Booking
	DeleteBookingIDs []string

	InsertAddons []BookingAddon
	DeleteAddons []BookingAddonKey

	InsertAssignments []BookingAssignment
	UpdateAssignments []BookingAssignment
	DeleteAssignments []BookingAssignmentKey
}

// Service is a catalog entry for a bookable cleaning service.
type Service struct {
	ID              string
	Name            string
	Price           float64
	DurationMinutes int
}

// Addon is a catalog entry for a per-visit extra.
type Addon struct {
	ID    string
	Name  string
	Price float64
}

// TeamMember is a staff directory entry.
type TeamMember struct {
	ID          string
	DisplayName string
	PayRate     float64
}

// AvailabilityRule is one weekday window for a member. Times are "HH:MM".
type AvailabilityRule struct {
	MemberID  string
	Weekday   int
	StartTime string
	EndTime   string
	Available bool
}
