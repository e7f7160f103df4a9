package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/iliyamo/flight-booking-admin/internal/config"
	"github.com/iliyamo/flight-booking-admin/internal/database"
	"github.com/iliyamo/flight-booking-admin/internal/handler"
	"github.com/iliyamo/flight-booking-admin/internal/logger"
	"github.com/iliyamo/flight-booking-admin/internal/metrics"
	"github.com/iliyamo/flight-booking-admin/internal/middleware"
	"github.com/iliyamo/flight-booking-admin/internal/repository"
	"github.com/iliyamo/flight-booking-admin/internal/router"
	"github.com/iliyamo/flight-booking-admin/internal/service"
)

const shutdownTimeout = 10 * time.Second

var migrateOnStart bool

// server users
var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Serve registration, login and user administration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), "users", func(d deps) (*echo.Echo, string, func()) {
			userRepo := repository.NewUserRepo(d.db)
			guard := middleware.NewGuard(userRepo, d.base.Metrics)
			h := handler.NewUsersHandler(userRepo, d.cfg.BcryptCost, d.base.Metrics)
			return router.NewUsersServer(d.base, guard, h), d.cfg.UsersPort, nil
		})
	},
}

// server flights
var flightsCmd = &cobra.Command{
	Use:   "flights",
	Short: "Serve aircraft, flights and reservations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), "flights", func(d deps) (*echo.Echo, string, func()) {
			guard := middleware.NewGuard(repository.NewUserRepo(d.db), d.base.Metrics)
			reservations := handler.NewReservationHandler(repository.NewReservationRepo(d.db), publisher(d.log), d.base.Metrics)
			h := router.FlightsHandlers{
				Naves:        handler.NewNaveHandler(repository.NewNaveRepo(d.db)),
				Flights:      handler.NewFlightHandler(repository.NewFlightRepo(d.db)),
				Reservations: reservations,
			}
			return router.NewFlightsServer(d.base, guard, h), d.cfg.FlightsPort, reservations.Wait
		})
	},
}

// deps is what every service build function receives.
type deps struct {
	cfg  config.Config
	log  *slog.Logger
	db   *sql.DB
	base router.Base
}

// serve runs the echo server returned by build until ctx is cancelled or a
// signal arrives. drain, when non-nil, runs after the listener is closed.
func serve(ctx context.Context, name string, build func(deps) (*echo.Echo, string, func())) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel).With("service", name)
	slog.SetDefault(log)

	db, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateOnStart {
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info("schema applied")
	}

	rdb := redisClient(ctx, log)
	if rdb != nil {
		defer rdb.Close()
	}

	e, port, drain := build(deps{
		cfg: cfg,
		log: log,
		db:  db,
		base: router.Base{
			Log:       log,
			Metrics:   metrics.New(name),
			DB:        db,
			Redis:     rdb,
			RateLimit: config.LoadRateLimitConfig(),
		},
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", ":"+port, "env", cfg.Env)
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s shutdown: %w", name, err)
	}
	if drain != nil {
		drain()
	}
	log.Info("stopped")
	return nil
}

// redisClient returns nil when Redis is disabled or unreachable; rate
// limiting is then skipped.
func redisClient(ctx context.Context, log *slog.Logger) *redis.Client {
	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		log.Warn("redis unavailable, rate limiting disabled", "err", err)
		return nil
	}
	return rdb
}

func publisher(log *slog.Logger) handler.EventPublisher {
	qcfg := config.LoadQueueConfig()
	if !qcfg.Enabled {
		log.Info("reservation events disabled")
		return service.NopPublisher{}
	}
	return service.NewReservationPublisher(qcfg, log)
}
