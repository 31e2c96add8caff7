package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/visit-scheduler/internal/availability"
	"github.com/example/visit-scheduler/internal/persistence"
	"github.com/example/visit-scheduler/internal/visit"
)

// CatalogService serves the reference data the booking form renders:
// services, addons and the advisory staff availability partition.
type CatalogService struct {
	services persistence.ServiceCatalog
	addons   persistence.AddonCatalog
	team     persistence.TeamDirectory
	cache    *advisoryCache
	logger   *slog.Logger
}

// NewCatalogService wires the catalog repositories.
func NewCatalogService(services persistence.ServiceCatalog, addons persistence.AddonCatalog, team persistence.TeamDirectory) *CatalogService {
	return NewCatalogServiceWithLogger(services, addons, team, 0, nil, nil)
}

// NewCatalogServiceWithLogger wires the catalog repositories plus the
// advisory cache TTL, a clock and a base logger. A non-positive TTL falls
// back to 30 seconds.
func NewCatalogServiceWithLogger(services persistence.ServiceCatalog, addons persistence.AddonCatalog, team persistence.TeamDirectory, cacheTTL time.Duration, now func() time.Time, logger *slog.Logger) *CatalogService {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}
	return &CatalogService{
		services: services,
		addons:   addons,
		team:     team,
		cache:    newAdvisoryCache(cacheTTL, 256, now),
		logger:   defaultLogger(logger),
	}
}

// ListServices returns all bookable services.
func (s *CatalogService) ListServices(ctx context.Context) ([]ServiceView, error) {
	if s == nil || s.services == nil {
		return nil, fmt.Errorf("service catalog not configured")
	}
	rows, err := s.services.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ServiceView, 0, len(rows))
	for _, row := range rows {
		views = append(views, ServiceView{
			ID:              row.ID,
			Name:            row.Name,
			Price:           row.Price,
			DurationMinutes: row.DurationMinutes,
		})
	}
	return views, nil
}

// ListAddons returns all selectable addons.
func (s *CatalogService) ListAddons(ctx context.Context) ([]AddonView, error) {
	if s == nil || s.addons == nil {
		return nil, fmt.Errorf("addon catalog not configured")
	}
	rows, err := s.addons.ListAddons(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]AddonView, 0, len(rows))
	for _, row := range rows {
		views = append(views, AddonView{ID: row.ID, Name: row.Name, Price: row.Price})
	}
	return views, nil
}

// MemberOptionsForSlot partitions the team into available and unavailable
// groups for one visit slot. The split is advisory: callers may still
// assign an unavailable member.
func (s *CatalogService) MemberOptionsForSlot(ctx context.Context, dateStr, hhmm string) (MemberOptions, error) {
	if s == nil || s.team == nil {
		return MemberOptions{}, fmt.Errorf("team directory not configured")
	}

	date, err := visit.ParseDate(dateStr)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("date", "must be a valid date (YYYY-MM-DD)")
		return MemberOptions{}, vErr
	}
	if !validHHMM(hhmm) {
		vErr := &ValidationError{}
		vErr.add("time", "must be HH:MM")
		return MemberOptions{}, vErr
	}

	key := buildAdvisoryCacheKey(dateStr, hhmm)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	members, err := s.team.ListMembers(ctx)
	if err != nil {
		return MemberOptions{}, err
	}
	rules, err := s.team.ListAvailabilityRules(ctx)
	if err != nil {
		return MemberOptions{}, err
	}

	available, unavailable := availability.Partition(toAdvisorMembers(members), date, hhmm, toAdvisorRules(rules))

	options := MemberOptions{
		Available:   toMemberOptions(available),
		Unavailable: toMemberOptions(unavailable),
	}
	s.cache.Store(key, options)

	serviceLogger(ctx, s.logger, "catalog", "member_options",
		"date", dateStr, "time", hhmm,
		"available", len(options.Available), "unavailable", len(options.Unavailable)).
		DebugContext(ctx, "availability partition computed")

	return options, nil
}

// InvalidateAvailability drops cached partitions after directory changes.
func (s *CatalogService) InvalidateAvailability() {
	if s != nil {
		s.cache.Invalidate()
	}
}

func toAdvisorMembers(rows []persistence.TeamMember) []availability.Member {
	out := make([]availability.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, availability.Member{
			ID:          row.ID,
			DisplayName: row.DisplayName,
			PayRate:     row.PayRate,
		})
	}
	return out
}

func toAdvisorRules(rows []persistence.AvailabilityRule) []availability.Rule {
	out := make([]availability.Rule, 0, len(rows))
	for _, row := range rows {
		out = append(out, availability.Rule{
			MemberID:  row.MemberID,
			Weekday:   time.Weekday(row.Weekday),
			Start:     row.StartTime,
			End:       row.EndTime,
			Available: row.Available,
		})
	}
	return out
}

func toMemberOptions(members []availability.Member) []MemberOption {
	if len(members) == 0 {
		return nil
	}
	out := make([]MemberOption, 0, len(members))
	for _, m := range members {
		out = append(out, MemberOption{
			ID:          m.ID,
			DisplayName: m.DisplayName,
			PayRate:     m.PayRate,
		})
	}
	return out
}
