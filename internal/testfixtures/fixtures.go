package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/visit-scheduler/internal/application"
	"github.com/example/visit-scheduler/internal/persistence"
	"github.com/example/visit-scheduler/internal/visit"
)

var (
	bookingCounter uint64
	serviceCounter uint64
	addonCounter   uint64
	memberCounter  uint64
)

var referenceTime = time.Date(2024, time.June, 3, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
// It falls on a Monday, which keeps weekday-based availability fixtures
// easy to reason about.
func ReferenceTime() time.Time {
	return referenceTime
}

// ---------------------------- Booking fixtures ----------------------------

// BookingOption configures a generated booking row.
type BookingOption func(*persistence.Booking)

// NewBookingFixture returns a deterministic booking row with optional
// overrides. Each call advances the start date by one day.
func NewBookingFixture(opts ...BookingOption) persistence.Booking {
	idx := atomic.AddUint64(&bookingCounter, 1)
	start := referenceTime.Add(time.Duration(idx-1) * 24 * time.Hour)
	row := persistence.Booking{
		ID:              fmt.Sprintf("booking-%03d", idx),
		CompanyID:       "company-1",
		CustomerID:      "customer-1",
		RecurrenceCount: 1,
		StartDate:       start,
		EndDate:         start.Add(2 * time.Hour),
		Price:           100,
		DurationMinutes: 120,
		ServiceID:       "service-1",
		CleanerPayRate:  25,
		CreatedAt:       referenceTime,
		UpdatedAt:       referenceTime,
	}
	for _, opt := range opts {
		opt(&row)
	}
	return row
}

// WithBookingParent marks the booking as a child of the given anchor.
func WithBookingParent(parentID string) BookingOption {
	return func(b *persistence.Booking) {
		parent := parentID
		b.ParentBookingID = &parent
	}
}

// WithBookingRule sets the serialized recurrence rule and count on the row.
func WithBookingRule(rule string, count int) BookingOption {
	return func(b *persistence.Booking) {
		if rule == "" {
			b.RecurrenceRule = nil
		} else {
			r := rule
			b.RecurrenceRule = &r
		}
		b.RecurrenceCount = count
	}
}

// WithBookingStart sets the start instant and keeps the end consistent
// with the row's duration.
func WithBookingStart(start time.Time) BookingOption {
	return func(b *persistence.Booking) {
		b.StartDate = start
		b.EndDate = start.Add(time.Duration(b.DurationMinutes) * time.Minute)
	}
}

// ---------------------------- Catalog fixtures ----------------------------

// NewServiceFixture returns a deterministic catalog service.
func NewServiceFixture() persistence.Service {
	idx := atomic.AddUint64(&serviceCounter, 1)
	return persistence.Service{
		ID:              fmt.Sprintf("service-%03d", idx),
		Name:            fmt.Sprintf("Service %03d", idx),
		Price:           100 + float64(idx),
		DurationMinutes: 120,
	}
}

// NewAddonFixture returns a deterministic catalog addon.
func NewAddonFixture() persistence.Addon {
	idx := atomic.AddUint64(&addonCounter, 1)
	return persistence.Addon{
		ID:    fmt.Sprintf("addon-%03d", idx),
		Name:  fmt.Sprintf("Addon %03d", idx),
		Price: 10 + float64(idx),
	}
}

// NewMemberFixture returns a deterministic team member.
func NewMemberFixture() persistence.TeamMember {
	idx := atomic.AddUint64(&memberCounter, 1)
	return persistence.TeamMember{
		ID:          fmt.Sprintf("member-%03d", idx),
		DisplayName: fmt.Sprintf("Member %03d", idx),
		PayRate:     20 + float64(idx),
	}
}

// WeekdayRule returns an availability window for the member on the given
// weekday.
func WeekdayRule(memberID string, weekday time.Weekday, start, end string) persistence.AvailabilityRule {
	return persistence.AvailabilityRule{
		MemberID:  memberID,
		Weekday:   int(weekday),
		StartTime: start,
		EndTime:   end,
		Available: true,
	}
}

// ----------------------------- Input fixtures -----------------------------

// SeriesInputOption configures a generated series input.
type SeriesInputOption func(*application.SeriesInput)

// NewSeriesInput returns a weekly four-visit series input anchored at the
// reference time, with optional overrides.
func NewSeriesInput(opts ...SeriesInputOption) application.SeriesInput {
	input := application.SeriesInput{
		CustomerID:      "customer-1",
		ServiceID:       "service-1",
		Price:           100,
		DurationMinutes: 120,
		PayRate:         25,
		Frequency:       "weekly",
		OccurrenceCount: 4,
		AnchorDate:      visit.FormatDate(referenceTime),
		AnchorTime:      "09:00",
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}

// WithFrequency overrides the recurrence frequency and count.
func WithFrequency(frequency string, count int) SeriesInputOption {
	return func(input *application.SeriesInput) {
		input.Frequency = frequency
		input.OccurrenceCount = count
	}
}

// WithAddons sets the top-level addon selection.
func WithAddons(ids ...string) SeriesInputOption {
	return func(input *application.SeriesInput) {
		input.AddonIDs = ids
	}
}

// OneOff clears the recurrence fields so the input creates a single visit.
func OneOff() SeriesInputOption {
	return func(input *application.SeriesInput) {
		input.Frequency = ""
		input.OccurrenceCount = 0
	}
}
