// Package main is the entry point for the prompt store.
//
// Usage:
//
//	promptstore                   serve the HTTP API
//	promptstore export [--verify] write a JSON snapshot of all prompts to S3 and exit
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"promptstore/internal/config"
	"promptstore/internal/database"
)

func main() {
	if err := rootCommand().ExecuteContext(context.Background()); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// rootCommand serves the API when run bare; subcommands are one-shot jobs.
func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "promptstore",
		Short:         "A small JSON API for storing prompts",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runServe,
	}
	root.AddCommand(exportCommand())
	return root
}

// setup loads configuration, installs the default logger, and opens a
// migrated database connection. The caller closes the returned database.
func setup() (*config.Config, *sql.DB, error) {
	// Load configuration from environment variables (and .env if present).
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	// Structured logger: text in development, JSON everywhere else.
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var logHandler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		logHandler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(logHandler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"log_level", cfg.LogLevel,
	)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	return cfg, db, nil
}
