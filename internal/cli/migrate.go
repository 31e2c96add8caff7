package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/visit-scheduler/internal/logging"
	"github.com/example/visit-scheduler/internal/persistence/sqlite"
	"github.com/example/visit-scheduler/internal/persistence/sqlite/migration"
)

// NewMigrateCommand creates the migrate command, which applies pending
// schema migrations and exits.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			logger := logging.New(os.Stdout, cfg.LogLevel)

			pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer pool.Close()

			runner := migration.NewRunner(pool.DB(), nil)
			if err := runner.Run(cmd.Context()); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}

			applied, err := runner.Applied(cmd.Context())
			if err != nil {
				return fmt.Errorf("list applied migrations: %w", err)
			}
			logger.Info("migrations up to date", "applied", len(applied))
			return nil
		},
	}
}
