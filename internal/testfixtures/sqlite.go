package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/visit-scheduler/internal/persistence/sqlite"
	"github.com/example/visit-scheduler/internal/persistence/sqlite/migration"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	Pool     *sqlite.ConnectionPool
	Bookings *sqlite.BookingRepository
	Catalog  *sqlite.CatalogRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens a migrated database under t.TempDir and returns
// repositories bound to it. The database is removed with the temp dir.
func NewSQLiteHarness(t *testing.T) *SQLiteHarness {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "bookings.db") + "?_foreign_keys=on"
	pool, err := sqlite.NewConnectionPool(dsn)
	if err != nil {
		t.Fatalf("open sqlite pool: %v", err)
	}

	if err := migration.NewRunner(pool.DB(), nil).Run(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("apply migrations: %v", err)
	}

	harness := &SQLiteHarness{
		Pool:     pool,
		Bookings: sqlite.NewBookingRepository(pool),
		Catalog:  sqlite.NewCatalogRepository(pool),
		cleanup: func() {
			pool.Close()
		},
	}
	t.Cleanup(harness.Close)
	return harness
}

// ExecSQL runs raw SQL against the harness database, failing the test on
// error. Intended for seeding catalog rows.
func (h *SQLiteHarness) ExecSQL(t *testing.T, query string, args ...any) {
	t.Helper()
	if _, err := h.Pool.DB().ExecContext(context.Background(), query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
