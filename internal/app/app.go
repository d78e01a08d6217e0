// Package app wires configuration, storage, services, and the HTTP
// transport together and runs the server until the context is canceled.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/fleetcheck/inspection-backend/internal/adapter/drive"
	"github.com/fleetcheck/inspection-backend/internal/adapter/postgres"
	imagerepo "github.com/fleetcheck/inspection-backend/internal/adapter/postgres/image"
	inspectionrepo "github.com/fleetcheck/inspection-backend/internal/adapter/postgres/inspection"
	userrepo "github.com/fleetcheck/inspection-backend/internal/adapter/postgres/user"
	"github.com/fleetcheck/inspection-backend/internal/config"
	"github.com/fleetcheck/inspection-backend/internal/service/authz"
	imagesvc "github.com/fleetcheck/inspection-backend/internal/service/image"
	inspectionsvc "github.com/fleetcheck/inspection-backend/internal/service/inspection"
	statssvc "github.com/fleetcheck/inspection-backend/internal/service/stats"
	usersvc "github.com/fleetcheck/inspection-backend/internal/service/user"
	"github.com/fleetcheck/inspection-backend/internal/transport/middleware"
	"github.com/fleetcheck/inspection-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, connects to
// the database, wires the services and HTTP transport, and serves until
// ctx is canceled. Shutdown is graceful with the configured timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	users := userrepo.New(pool)
	inspections := inspectionrepo.New(pool)
	images := imagerepo.New(pool)
	txm := postgres.NewTxManager(pool)

	blobs := drive.NewClient(cfg.Drive, logger)

	gate := authz.NewGate(logger, users)
	inspectionService := inspectionsvc.NewService(logger, gate, inspections)
	statsService := statssvc.NewService(logger, gate, inspections)
	userService := usersvc.NewService(logger, gate, users, txm)
	imageService := imagesvc.NewService(logger, gate, images, inspections, blobs)

	mux := rest.NewRouter(rest.Handlers{
		Admin:      rest.NewAdminHandler(gate, userService, statsService, logger),
		Inspection: rest.NewInspectionHandler(inspectionService, logger),
		Image:      rest.NewImageHandler(imageService, logger),
		Health:     rest.NewHealthHandler(pool, BuildVersion()),
	})

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Identity(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.RateLimit.PerMinute),
	)(mux)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("shutdown complete")
	return nil
}
