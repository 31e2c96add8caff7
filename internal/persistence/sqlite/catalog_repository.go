package sqlite

import (
	"context"

	"github.com/example/visit-scheduler/internal/persistence"
)

// CatalogRepository implements the service/addon catalog and team directory
// interfaces over SQLite. Catalog data is reference data maintained outside
// the booking flow, so only read operations and simple seeding are exposed.
type CatalogRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewCatalogRepository creates a new SQLite catalog repository.
func NewCatalogRepository(pool *ConnectionPool) *CatalogRepository {
	return &CatalogRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// GetService retrieves a service catalog entry by id.
func (r *CatalogRepository) GetService(ctx context.Context, id string) (persistence.Service, error) {
	if id == "" {
		return persistence.Service{}, persistence.ErrNotFound
	}

	var service persistence.Service
	err := r.helper.QueryRow(ctx,
		"SELECT id, name, price, duration_minutes FROM services WHERE id = ?", id,
	).Scan(&service.ID, &service.Name, &service.Price, &service.DurationMinutes)
	if err != nil {
		return persistence.Service{}, r.mapper.MapError(err)
	}
	return service, nil
}

// ListServices returns all services ordered by name.
func (r *CatalogRepository) ListServices(ctx context.Context) ([]persistence.Service, error) {
	rows, err := r.helper.Query(ctx, "SELECT id, name, price, duration_minutes FROM services ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var services []persistence.Service
	for rows.Next() {
		var service persistence.Service
		if err := rows.Scan(&service.ID, &service.Name, &service.Price, &service.DurationMinutes); err != nil {
			return nil, r.mapper.MapError(err)
		}
		services = append(services, service)
	}
	return services, rows.Err()
}

// ListAddons returns all addons ordered by name.
func (r *CatalogRepository) ListAddons(ctx context.Context) ([]persistence.Addon, error) {
	rows, err := r.helper.Query(ctx, "SELECT id, name, price FROM addons ORDER BY name ASC, id ASC")
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var addons []persistence.Addon
	for rows.Next() {
		var addon persistence.Addon
		if err := rows.Scan(&addon.ID, &addon.Name, &addon.Price); err != nil {
			return nil, r.mapper.MapError(err)
		}
		addons = append(addons, addon)
	}
	return addons, rows.Err()
}

// ListMembers returns all team members ordered by display name.
func (r *CatalogRepository) ListMembers(ctx context.Context) ([]persistence.TeamMember, error) {
	rows, err := r.helper.Query(ctx, "SELECT id, display_name, pay_rate FROM team_members ORDER BY display_name ASC, id ASC")
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var members []persistence.TeamMember
	for rows.Next() {
		var member persistence.TeamMember
		if err := rows.Scan(&member.ID, &member.DisplayName, &member.PayRate); err != nil {
			return nil, r.mapper.MapError(err)
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

// ListAvailabilityRules returns every weekday rule for every member.
func (r *CatalogRepository) ListAvailabilityRules(ctx context.Context) ([]persistence.AvailabilityRule, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT member_id, weekday, start_time, end_time, available FROM availability_rules ORDER BY member_id ASC, weekday ASC")
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var rules []persistence.AvailabilityRule
	for rows.Next() {
		var rule persistence.AvailabilityRule
		var available int
		if err := rows.Scan(&rule.MemberID, &rule.Weekday, &rule.StartTime, &rule.EndTime, &available); err != nil {
			return nil, r.mapper.MapError(err)
		}
		rule.Available = available != 0
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
