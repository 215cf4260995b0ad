package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food_store/internal/config"
	"food_store/internal/database"
	"food_store/internal/handlers"
	"food_store/internal/migrations"
	"food_store/internal/redis"
	"food_store/internal/repository"
	"food_store/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(logger); err != nil {
		logger.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	// Load configuration
	cfg := config.Load()
	gin.SetMode(gin.ReleaseMode)

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.DBLogLevel, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := migrations.RunMigrations(db, logger); err != nil {
		return err
	}

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	// Initialize services
	store := repository.NewStore(db)
	orderService := services.NewOrderService(store, services.OrderServiceConfig{
		DeliveryWindow: cfg.DeliveryWindow,
	}, logger)
	notificationService := services.NewNotificationService(store, nil, logger)
	presenceService := services.NewPresenceService(redisClient, cfg.PresenceTTL, nil, logger)

	// Setup routes
	router := handlers.NewRouter(handlers.RouterConfig{
		Orders:        orderService,
		Notifications: notificationService,
		Presence:      presenceService,
		HealthChecks: map[string]handlers.HealthCheck{
			"postgres": sqlDB.PingContext,
			"redis":    redisClient.Ping,
		},
		Polling: handlers.PollingConfig{
			OrderInterval:    cfg.OrderPollInterval,
			PresenceInterval: cfg.PresencePollInterval,
		},
		JWTSecret:      []byte(cfg.JWTSecret),
		RequestTimeout: cfg.RequestTimeout,
		Location:       cfg.Location(),
		Logger:         logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server_listening", "addr", server.Addr, "delivery_window", cfg.DeliveryWindow.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("server_shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
