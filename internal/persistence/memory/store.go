// Package memory provides an in-memory implementation of the persistence
// repositories for tests and local development.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/visit-scheduler/internal/persistence"
)

// Store implements the persistence repository interfaces in memory. Plan
// application is all-or-nothing: the write set is validated before any
// mutation, mirroring the transactional contract of the SQLite store.
type Store struct {
	mu          sync.RWMutex
	bookings    map[string]persistence.Booking
	addons      map[persistence.BookingAddonKey]persistence.BookingAddon
	assignments map[persistence.BookingAssignmentKey]persistence.BookingAssignment
	services    map[string]persistence.Service
	catalog     map[string]persistence.Addon
	members     map[string]persistence.TeamMember
	rules       []persistence.AvailabilityRule
	now         func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		bookings:    make(map[string]persistence.Booking),
		addons:      make(map[persistence.BookingAddonKey]persistence.BookingAddon),
		assignments: make(map[persistence.BookingAssignmentKey]persistence.BookingAssignment),
		services:    make(map[string]persistence.Service),
		catalog:     make(map[string]persistence.Addon),
		members:     make(map[string]persistence.TeamMember),
		now:         time.Now,
	}
}

// SetNow overrides the clock used for row timestamps.
func (s *Store) SetNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// GetBooking retrieves a booking row by id.
func (s *Store) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return persistence.Booking{}, persistence.ErrNotFound
	}
	return cloneBooking(booking), nil
}

// GetSeries retrieves the parent, its children, and their link rows.
func (s *Store) GetSeries(ctx context.Context, parentID string) (persistence.SeriesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	parent, ok := s.bookings[parentID]
	if !ok {
		return persistence.SeriesRecord{}, persistence.ErrNotFound
	}

	record := persistence.SeriesRecord{
		Parent:      cloneBooking(parent),
		Addons:      make(map[string][]persistence.BookingAddon),
		Assignments: make(map[string][]persistence.BookingAssignment),
	}

	for _, booking := range s.bookings {
		if booking.ParentBookingID != nil && *booking.ParentBookingID == parentID {
			record.Children = append(record.Children, cloneBooking(booking))
		}
	}
	sort.Slice(record.Children, func(i, j int) bool {
		if record.Children[i].StartDate.Equal(record.Children[j].StartDate) {
			return record.Children[i].ID < record.Children[j].ID
		}
		return record.Children[i].StartDate.Before(record.Children[j].StartDate)
	})

	for _, booking := range record.Bookings() {
		record.Addons[booking.ID] = s.addonLinksLocked(booking.ID)
		record.Assignments[booking.ID] = s.assignmentLinksLocked(booking.ID)
		if len(record.Addons[booking.ID]) == 0 {
			delete(record.Addons, booking.ID)
		}
		if len(record.Assignments[booking.ID]) == 0 {
			delete(record.Assignments, booking.ID)
		}
	}

	return record, nil
}

// ApplySeriesPlan applies the write set, validating it first so a bad plan
// leaves the store untouched.
func (s *Store) ApplySeriesPlan(ctx context.Context, apply persistence.SeriesApply) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, booking := range apply.InsertBookings {
		if _, exists := s.bookings[booking.ID]; exists {
			return persistence.ErrDuplicate
		}
	}
	for _, booking := range apply.UpdateBookings {
		if _, exists := s.bookings[booking.ID]; !exists {
			return persistence.ErrNotFound
		}
	}

	now := s.now().UTC()

	for _, id := range apply.DeleteBookingIDs {
		delete(s.bookings, id)
		s.dropLinksLocked(id)
	}

	for _, booking := range apply.UpdateBookings {
		existing := s.bookings[booking.ID]
		booking.CreatedAt = existing.CreatedAt
		booking.UpdatedAt = now
		s.bookings[booking.ID] = cloneBooking(booking)
	}

	for _, booking := range apply.InsertBookings {
		booking.CreatedAt = now
		booking.UpdatedAt = now
		s.bookings[booking.ID] = cloneBooking(booking)
	}

	for _, key := range apply.DeleteAddons {
		delete(s.addons, key)
	}
	for _, link := range apply.InsertAddons {
		s.addons[persistence.BookingAddonKey{BookingID: link.BookingID, AddonID: link.AddonID}] = link
	}

	for _, key := range apply.DeleteAssignments {
		delete(s.assignments, key)
	}
	for _, link := range apply.UpdateAssignments {
		s.assignments[persistence.BookingAssignmentKey{BookingID: link.BookingID, MemberID: link.MemberID}] = link
	}
	for _, link := range apply.InsertAssignments {
		s.assignments[persistence.BookingAssignmentKey{BookingID: link.BookingID, MemberID: link.MemberID}] = link
	}

	return nil
}

// DeleteSeries removes the parent, its children, and all link rows.
func (s *Store) DeleteSeries(ctx context.Context, parentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[parentID]; !ok {
		return persistence.ErrNotFound
	}

	for id, booking := range s.bookings {
		if id == parentID || (booking.ParentBookingID != nil && *booking.ParentBookingID == parentID) {
			delete(s.bookings, id)
			s.dropLinksLocked(id)
		}
	}
	return nil
}

// GetService retrieves a service catalog entry.
func (s *Store) GetService(ctx context.Context, id string) (persistence.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	service, ok := s.services[id]
	if !ok {
		return persistence.Service{}, persistence.ErrNotFound
	}
	return service, nil
}

// ListServices returns all services ordered by name.
func (s *Store) ListServices(ctx context.Context) ([]persistence.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	services := make([]persistence.Service, 0, len(s.services))
	for _, service := range s.services {
		services = append(services, service)
	}
	sort.Slice(services, func(i, j int) bool {
		if services[i].Name == services[j].Name {
			return services[i].ID < services[j].ID
		}
		return services[i].Name < services[j].Name
	})
	return services, nil
}

// ListAddons returns all addons ordered by name.
func (s *Store) ListAddons(ctx context.Context) ([]persistence.Addon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	addons := make([]persistence.Addon, 0, len(s.catalog))
	for _, addon := range s.catalog {
		addons = append(addons, addon)
	}
	sort.Slice(addons, func(i, j int) bool {
		if addons[i].Name == addons[j].Name {
			return addons[i].ID < addons[j].ID
		}
		return addons[i].Name < addons[j].Name
	})
	return addons, nil
}

// ListMembers returns all team members ordered by display name.
func (s *Store) ListMembers(ctx context.Context) ([]persistence.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := make([]persistence.TeamMember, 0, len(s.members))
	for _, member := range s.members {
		members = append(members, member)
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].DisplayName == members[j].DisplayName {
			return members[i].ID < members[j].ID
		}
		return members[i].DisplayName < members[j].DisplayName
	})
	return members, nil
}

// ListAvailabilityRules returns every stored availability rule.
func (s *Store) ListAvailabilityRules(ctx context.Context) ([]persistence.AvailabilityRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rules := make([]persistence.AvailabilityRule, len(s.rules))
	copy(rules, s.rules)
	return rules, nil
}

// SeedService inserts or replaces a service catalog entry.
func (s *Store) SeedService(service persistence.Service) {
	s.mu.Lock()
	s.services[service.ID] = service
	s.mu.Unlock()
}

// SeedAddon inserts or replaces an addon catalog entry.
func (s *Store) SeedAddon(addon persistence.Addon) {
	s.mu.Lock()
	s.catalog[addon.ID] = addon
	s.mu.Unlock()
}

// SeedMember inserts or replaces a team member.
func (s *Store) SeedMember(member persistence.TeamMember) {
	s.mu.Lock()
	s.members[member.ID] = member
	s.mu.Unlock()
}

// SeedAvailabilityRule appends an availability rule.
func (s *Store) SeedAvailabilityRule(rule persistence.AvailabilityRule) {
	s.mu.Lock()
	s.rules = append(s.rules, rule)
	s.mu.Unlock()
}

// BookingCount reports the number of stored booking rows.
func (s *Store) BookingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookings)
}

func (s *Store) addonLinksLocked(bookingID string) []persistence.BookingAddon {
	var links []persistence.BookingAddon
	for key, link := range s.addons {
		if key.BookingID == bookingID {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].AddonID < links[j].AddonID })
	return links
}

func (s *Store) assignmentLinksLocked(bookingID string) []persistence.BookingAssignment {
	var links []persistence.BookingAssignment
	for key, link := range s.assignments {
		if key.BookingID == bookingID {
			links = append(links, link)
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].MemberID < links[j].MemberID })
	return links
}

func (s *Store) dropLinksLocked(bookingID string) {
	for key := range s.addons {
		if key.BookingID == bookingID {
			delete(s.addons, key)
		}
	}
	for key := range s.assignments {
		if key.BookingID == bookingID {
			delete(s.assignments, key)
		}
	}
}

func cloneBooking(b persistence.Booking) persistence.Booking {
	out := b
	if b.ParentBookingID != nil {
		v := *b.ParentBookingID
		out.ParentBookingID = &v
	}
	if b.RecurrenceRule != nil {
		v := *b.RecurrenceRule
		out.RecurrenceRule = &v
	}
	return out
}
