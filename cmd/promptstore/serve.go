package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"promptstore/internal/cache"
	"promptstore/internal/database"
	"promptstore/internal/handlers"
	"promptstore/internal/metrics"
	"promptstore/internal/middleware"
	"promptstore/internal/router"
	"promptstore/internal/store"
)

// runServe starts the HTTP API and blocks until SIGINT or SIGTERM.
func runServe(cmd *cobra.Command, _ []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	// Seed example prompts (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("seed database: %w", err)
		}
	}

	promptStore := store.NewPromptStore(db)
	m := metrics.New()

	// Valkey is optional: without it every read goes to PostgreSQL.
	var promptCache handlers.PromptCache
	if cfg.CacheEnabled {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Warn("valkey unavailable, running without cache", "error", err)
		} else {
			defer valkeyClient.Close()
			pc := cache.NewPromptCache(valkeyClient, cfg.CacheTTL)
			// Entries may predate a migration or a manual edit.
			pc.InvalidateAll(cmd.Context())
			promptCache = pc
			slog.Info("prompt cache enabled", "ttl", cfg.CacheTTL)
		}
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimitWrites > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitWrites, time.Minute)
		defer limiter.Stop()
	}

	prompts := handlers.NewPrompts(promptStore, promptCache, m)
	r := router.New(prompts, handlers.NewHealth(promptStore), limiter, m)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
