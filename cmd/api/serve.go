package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/srgjo27/garage_booking/internal/adapter/handler"
	"github.com/srgjo27/garage_booking/internal/adapter/repository/postgres"
	redisrepo "github.com/srgjo27/garage_booking/internal/adapter/repository/redis"
	"github.com/srgjo27/garage_booking/internal/core/ports"
	"github.com/srgjo27/garage_booking/internal/core/services"
	"github.com/srgjo27/garage_booking/internal/platform/config"
	"github.com/srgjo27/garage_booking/internal/platform/database"
	"github.com/srgjo27/garage_booking/internal/platform/metrics"
)

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the booking API and the orphan reconciler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			return serve(cfg, log, migrateUp)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "create missing tables before serving")
	return cmd
}

func serve(cfg *config.Config, log *logrus.Logger, migrateUp bool) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateUp {
		if err := database.Migrate(context.Background(), db); err != nil {
			return err
		}
	}

	log.WithField("addr", cfg.Redis.Addr).Info("connecting to redis")
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("redis connected")

	recorder := metrics.NewRecorder()
	bookingService := newBookingService(cfg, db, redisrepo.NewIdempotencyStore(redisClient, cfg.Redis.TokenTTL), log)
	bookingService.SetRecorder(recorder)

	bookingHandler := handler.NewBookingHandler(bookingService, handler.ContextIdentity, services.WizardOptions{
		ClosedWeekdays:  cfg.Booking.ClosedWeekdays,
		LoginPath:       cfg.Booking.LoginPath,
		PostBookingPath: cfg.Booking.PostBookingPath,
	}, log)

	router := handler.NewRouter(handler.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Booking:        bookingHandler,
		Auth:           handler.NewAuthenticator(cfg.JWT.Secret, cfg.JWT.AccessTTL, log),
		Metrics:        recorder.Handler(),
		HealthChecks: map[string]handler.HealthCheck{
			"database": db.PingContext,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
		Logger: log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go bookingService.RunBackgroundCleanup(ctx)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Server.Port).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server startup failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exiting")
	return nil
}

func openDB(cfg *config.Config, log *logrus.Logger) (*sqlx.DB, error) {
	return database.NewPostgresDB(database.Config{
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    cfg.Database.MaxConnections,
		MaxIdleConns:    cfg.Database.MaxIdleConnections,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log)
}

func newBookingService(cfg *config.Config, db *sqlx.DB, tokens ports.IdempotencyStore, log *logrus.Logger) *services.BookingService {
	return services.NewBookingService(
		postgres.NewCatalogRepository(db),
		postgres.NewVehicleRepository(db),
		postgres.NewAppointmentRepository(db),
		tokens,
		services.BookingServiceConfig{
			OrphanGrace:        cfg.Booking.OrphanGrace,
			ReconcileInterval:  cfg.Booking.ReconcileInterval,
			ReconcileBatchSize: cfg.Booking.ReconcileBatch,
		},
		log,
	)
}
