package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/visit-scheduler/internal/application"
	"github.com/example/visit-scheduler/internal/config"
	httptransport "github.com/example/visit-scheduler/internal/http"
	"github.com/example/visit-scheduler/internal/logging"
	"github.com/example/visit-scheduler/internal/persistence/sqlite"
	"github.com/example/visit-scheduler/internal/persistence/sqlite/migration"
	"github.com/example/visit-scheduler/internal/visit"
)

// NewServeCommand creates the serve command, which runs migrations and
// starts the HTTP API.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run database migrations and start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), rootOpts)
		},
	}
}

func runServe(ctx context.Context, rootOpts *RootOptions) error {
	cfg, err := loadConfig(rootOpts)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := sqlite.NewConnectionPool(cfg.SQLiteDSN)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := migration.NewRunner(pool.DB(), nil).Run(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	bookingRepo := sqlite.NewBookingRepository(pool)
	catalogRepo := sqlite.NewCatalogRepository(pool)

	bookingService := application.NewBookingServiceWithLogger(
		bookingRepo, catalogRepo, catalogRepo, visit.NewID, time.Now, logger)
	catalogService := application.NewCatalogServiceWithLogger(
		catalogRepo, catalogRepo, catalogRepo, cfg.AdvisoryCacheTTL, time.Now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Bookings: httptransport.NewBookingHandler(bookingService, logger),
		Catalog:  httptransport.NewCatalogHandler(catalogService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.PrincipalFromHeaders(),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server started", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func loadConfig(rootOpts *RootOptions) (config.Config, error) {
	cfg, err := config.Load(rootOpts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if rootOpts.LogLevel != "" {
		cfg.LogLevel = rootOpts.LogLevel
	}
	return cfg, nil
}
