package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/visit-scheduler/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
type BookingRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
	retry  *RetryHelper
}

// NewBookingRepository creates a new SQLite booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
	}
}

const bookingColumns = `id, company_id, customer_id, parent_booking_id, recurrence_rule,
	recurrence_count, start_date, end_date, price, duration_minutes, service_id,
	cleaner_pay_rate, created_at, updated_at`

// GetBooking retrieves a single booking row by id.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id = ?", id)
	booking, err := scanBooking(row.Scan)
	if err != nil {
		return persistence.Booking{}, r.mapper.MapError(err)
	}
	return booking, nil
}

// GetSeries retrieves the parent row, every child row referencing it, and
// the link rows for each booking in the set.
func (r *BookingRepository) GetSeries(ctx context.Context, parentID string) (persistence.SeriesRecord, error) {
	parent, err := r.GetBooking(ctx, parentID)
	if err != nil {
		return persistence.SeriesRecord{}, err
	}

	record := persistence.SeriesRecord{
		Parent:      parent,
		Addons:      make(map[string][]persistence.BookingAddon),
		Assignments: make(map[string][]persistence.BookingAssignment),
	}

	rows, err := r.helper.Query(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE parent_booking_id = ? ORDER BY start_date ASC, id ASC",
		parentID,
	)
	if err != nil {
		return persistence.SeriesRecord{}, r.mapper.MapError(err)
	}
	defer rows.Close()

	for rows.Next() {
		child, err := scanBooking(rows.Scan)
		if err != nil {
			return persistence.SeriesRecord{}, r.mapper.MapError(err)
		}
		record.Children = append(record.Children, child)
	}
	if err := rows.Err(); err != nil {
		return persistence.SeriesRecord{}, r.mapper.MapError(err)
	}

	for _, booking := range record.Bookings() {
		addons, err := r.loadAddonLinks(ctx, booking.ID)
		if err != nil {
			return persistence.SeriesRecord{}, err
		}
		if len(addons) > 0 {
			record.Addons[booking.ID] = addons
		}

		assignments, err := r.loadAssignmentLinks(ctx, booking.ID)
		if err != nil {
			return persistence.SeriesRecord{}, err
		}
		if len(assignments) > 0 {
			record.Assignments[booking.ID] = assignments
		}
	}

	return record, nil
}

// ApplySeriesPlan executes the reconciled write set within one
// transaction. Obsolete booking rows go first (their link rows cascade),
// then row updates and inserts, then the link-row diffs. The id sets are
// disjoint by construction, and every inserted booking id is already
// resolved, so nested link writes always reference a row created earlier
// in the same transaction.
func (r *BookingRepository) ApplySeriesPlan(ctx context.Context, apply persistence.SeriesApply) error {
	now := time.Now().UTC()

	return r.retry.WithRetry(ctx, func() error {
		return r.applySeriesPlanTx(ctx, apply, now)
	})
}

func (r *BookingRepository) applySeriesPlanTx(ctx context.Context, apply persistence.SeriesApply, now time.Time) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, id := range apply.DeleteBookingIDs {
			if err := r.deleteBookingTx(tx, id); err != nil {
				return err
			}
		}

		for _, booking := range apply.UpdateBookings {
			booking.UpdatedAt = now
			if err := r.updateBookingTx(tx, booking); err != nil {
				return err
			}
		}

		for _, booking := range apply.InsertBookings {
			booking.CreatedAt = now
			booking.UpdatedAt = now
			if err := r.insertBookingTx(tx, booking); err != nil {
				return err
			}
		}

		for _, key := range apply.DeleteAddons {
			if _, err := r.helper.ExecTx(tx,
				"DELETE FROM booking_addons WHERE booking_id = ? AND addon_id = ?",
				key.BookingID, key.AddonID,
			); err != nil {
				return r.mapper.MapError(err)
			}
		}

		for _, link := range apply.InsertAddons {
			if _, err := r.helper.ExecTx(tx,
				"INSERT INTO booking_addons (booking_id, addon_id, price_at_time, quantity) VALUES (?, ?, ?, ?)",
				link.BookingID, link.AddonID, link.PriceAtTime, link.Quantity,
			); err != nil {
				return r.mapper.MapError(err)
			}
		}

		for _, key := range apply.DeleteAssignments {
			if _, err := r.helper.ExecTx(tx,
				"DELETE FROM booking_assignments WHERE booking_id = ? AND member_id = ?",
				key.BookingID, key.MemberID,
			); err != nil {
				return r.mapper.MapError(err)
			}
		}

		for _, link := range apply.UpdateAssignments {
			if _, err := r.helper.ExecTx(tx,
				"UPDATE booking_assignments SET pay_rate = ?, status = ? WHERE booking_id = ? AND member_id = ?",
				link.PayRate, link.Status, link.BookingID, link.MemberID,
			); err != nil {
				return r.mapper.MapError(err)
			}
		}

		for _, link := range apply.InsertAssignments {
			if _, err := r.helper.ExecTx(tx,
				"INSERT INTO booking_assignments (booking_id, member_id, pay_rate, status) VALUES (?, ?, ?, ?)",
				link.BookingID, link.MemberID, link.PayRate, link.Status,
			); err != nil {
				return r.mapper.MapError(err)
			}
		}

		return nil
	})
}

// DeleteSeries removes the parent row, its children, and all link rows.
func (r *BookingRepository) DeleteSeries(ctx context.Context, parentID string) error {
	if parentID == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := r.helper.ExecTx(tx, "DELETE FROM bookings WHERE parent_booking_id = ?", parentID); err != nil {
			return r.mapper.MapError(err)
		}

		result, err := r.helper.ExecTx(tx, "DELETE FROM bookings WHERE id = ?", parentID)
		if err != nil {
			return r.mapper.MapError(err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

func (r *BookingRepository) insertBookingTx(tx *sql.Tx, booking persistence.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.helper.ExecTx(tx, query,
		booking.ID,
		booking.CompanyID,
		booking.CustomerID,
		nullString(booking.ParentBookingID),
		nullString(booking.RecurrenceRule),
		booking.RecurrenceCount,
		booking.StartDate.UTC().Format(time.RFC3339),
		booking.EndDate.UTC().Format(time.RFC3339),
		booking.Price,
		booking.DurationMinutes,
		booking.ServiceID,
		booking.CleanerPayRate,
		booking.CreatedAt.Format(time.RFC3339),
		booking.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

func (r *BookingRepository) updateBookingTx(tx *sql.Tx, booking persistence.Booking) error {
	query := `
		UPDATE bookings
		SET recurrence_rule = ?, recurrence_count = ?, start_date = ?, end_date = ?,
			price = ?, duration_minutes = ?, service_id = ?, cleaner_pay_rate = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.helper.ExecTx(tx, query,
		nullString(booking.RecurrenceRule),
		booking.RecurrenceCount,
		booking.StartDate.UTC().Format(time.RFC3339),
		booking.EndDate.UTC().Format(time.RFC3339),
		booking.Price,
		booking.DurationMinutes,
		booking.ServiceID,
		booking.CleanerPayRate,
		booking.UpdatedAt.Format(time.RFC3339),
		booking.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func (r *BookingRepository) deleteBookingTx(tx *sql.Tx, id string) error {
	if _, err := r.helper.ExecTx(tx, "DELETE FROM bookings WHERE id = ?", id); err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

func (r *BookingRepository) loadAddonLinks(ctx context.Context, bookingID string) ([]persistence.BookingAddon, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT booking_id, addon_id, price_at_time, quantity FROM booking_addons WHERE booking_id = ? ORDER BY addon_id ASC",
		bookingID,
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var links []persistence.BookingAddon
	for rows.Next() {
		var link persistence.BookingAddon
		if err := rows.Scan(&link.BookingID, &link.AddonID, &link.PriceAtTime, &link.Quantity); err != nil {
			return nil, r.mapper.MapError(err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (r *BookingRepository) loadAssignmentLinks(ctx context.Context, bookingID string) ([]persistence.BookingAssignment, error) {
	rows, err := r.helper.Query(ctx,
		"SELECT booking_id, member_id, pay_rate, status FROM booking_assignments WHERE booking_id = ? ORDER BY member_id ASC",
		bookingID,
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var links []persistence.BookingAssignment
	for rows.Next() {
		var link persistence.BookingAssignment
		if err := rows.Scan(&link.BookingID, &link.MemberID, &link.PayRate, &link.Status); err != nil {
			return nil, r.mapper.MapError(err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

type scanFunc func(dest ...any) error

func scanBooking(scan scanFunc) (persistence.Booking, error) {
	var booking persistence.Booking
	var parentID, rule sql.NullString
	var startStr, endStr, createdStr, updatedStr string

	err := scan(
		&booking.ID,
		&booking.CompanyID,
		&booking.CustomerID,
		&parentID,
		&rule,
		&booking.RecurrenceCount,
		&startStr,
		&endStr,
		&booking.Price,
		&booking.DurationMinutes,
		&booking.ServiceID,
		&booking.CleanerPayRate,
		&createdStr,
		&updatedStr,
	)
	if err != nil {
		return persistence.Booking{}, err
	}

	if parentID.Valid {
		booking.ParentBookingID = &parentID.String
	}
	if rule.Valid {
		booking.RecurrenceRule = &rule.String
	}

	if booking.StartDate, err = time.Parse(time.RFC3339, startStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse start_date: %w", err)
	}
	if booking.EndDate, err = time.Parse(time.RFC3339, endStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse end_date: %w", err)
	}
	if booking.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if booking.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	return booking, nil
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
