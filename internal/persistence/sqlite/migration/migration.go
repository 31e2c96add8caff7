// Package migration applies the embedded schema migrations in order and
// records applied versions in the schema_migrations table.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Migration is one versioned schema change.
type Migration struct {
	Version     string
	Description string
	SQL         string
}

// AppliedMigration records a migration that has been applied.
type AppliedMigration struct {
	Version   string
	AppliedAt time.Time
}

// Runner executes pending migrations against a database handle.
type Runner struct {
	db         *sql.DB
	migrations []Migration
}

// NewRunner returns a runner over the embedded migration set. A custom set
// can be supplied for tests.
func NewRunner(db *sql.DB, migrations []Migration) *Runner {
	if migrations == nil {
		migrations = All()
	}
	return &Runner{db: db, migrations: migrations}
}

// Run applies every pending migration in version order. Each migration
// executes inside its own transaction together with its version record, so
// a failure leaves the schema at the last fully applied version.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.initVersionTable(ctx); err != nil {
		return fmt.Errorf("failed to initialize version table: %w", err)
	}

	applied, err := r.appliedVersions(ctx)
	if err != nil {
		return fmt.Errorf("failed to read applied versions: %w", err)
	}

	for _, m := range r.migrations {
		if _, ok := applied[m.Version]; ok {
			continue
		}
		if err := r.apply(ctx, m); err != nil {
			return fmt.Errorf("migration %s (%s) failed: %w", m.Version, m.Description, err)
		}
	}

	return nil
}

// Applied returns the applied migrations in application order.
func (r *Runner) Applied(ctx context.Context) ([]AppliedMigration, error) {
	if err := r.initVersionTable(ctx); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, "SELECT version, applied_at FROM schema_migrations ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AppliedMigration
	for rows.Next() {
		var m AppliedMigration
		var appliedAt string
		if err := rows.Scan(&m.Version, &appliedAt); err != nil {
			return nil, err
		}
		if m.AppliedAt, err = time.Parse(time.RFC3339, appliedAt); err != nil {
			return nil, fmt.Errorf("failed to parse applied_at: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Runner) initVersionTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	return err
}

func (r *Runner) appliedVersions(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]struct{})
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = struct{}{}
	}
	return applied, rows.Err()
}

func (r *Runner) apply(ctx context.Context, m Migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
		m.Version, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
