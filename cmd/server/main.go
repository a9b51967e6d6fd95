package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Priya8975/interaction-stream/internal/api"
	"github.com/Priya8975/interaction-stream/internal/config"
	"github.com/Priya8975/interaction-stream/internal/relay"
	"github.com/Priya8975/interaction-stream/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize PostgreSQL
	ctx := context.Background()
	pgStore, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()
	logger.Info("connected to PostgreSQL")

	// Run database migrations
	if err := pgStore.RunMigrations(ctx, "migrations"); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	interactions := store.NewInteractionStore(pgStore, cfg.Tenants, logger)

	// Optional pending-event buffer
	var buffer relay.PendingBuffer
	if cfg.PendingBufferTTL > 0 {
		redisStore, err := store.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisStore.Close()
		buffer = store.NewPendingBuffer(redisStore, cfg.PendingBufferTTL, logger)
		logger.Info("pending-event buffer enabled", "ttl", cfg.PendingBufferTTL)
	}

	// Event relay: listener, registry, supervisor
	listener := relay.NewPGListener(cfg.DatabaseURL, logger)
	registry := relay.NewRegistry(logger)
	supervisor := relay.NewSupervisor(listener, registry, buffer, relay.Config{
		Channels:             []string{relay.InteractionChangesChannel, relay.StatusChangesChannel},
		PollTimeout:          cfg.PollTimeout,
		MinBackoff:           cfg.ReconnectMinBackoff,
		MaxBackoff:           cfg.ReconnectMaxBackoff,
		MaxReconnectAttempts: cfg.MaxReconnectAttempts,
	}, logger)
	supervisor.Start()

	// HTTP surface
	live := api.NewLiveHandler(supervisor, logger)
	router := api.NewRouter(interactions, supervisor, live)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Port, "tenants", cfg.Tenants)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	live.Shutdown()
	supervisor.Stop()

	logger.Info("server stopped")
}
