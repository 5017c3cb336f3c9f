package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"promptstore/internal/export"
	"promptstore/internal/storage"
	"promptstore/internal/store"
)

// exportTimeout bounds a whole export run, verification included.
const exportTimeout = 2 * time.Minute

func exportCommand() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON snapshot of every prompt to the S3 bucket",
		Long: `Uploads one JSON document holding every stored prompt to
S3_BUCKET under S3_EXPORT_PREFIX. The database is migrated but never seeded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), verify)
		},
	}
	cmd.Flags().BoolVar(&verify, "verify", false, "read the snapshot back after upload and check it decodes")
	return cmd
}

// runExport uploads a snapshot of every prompt to the configured bucket.
func runExport(ctx context.Context, verify bool) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		return err
	}
	if client == nil {
		return errors.New("S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY must be set")
	}

	ctx, cancel := context.WithTimeout(ctx, exportTimeout)
	defer cancel()

	exporter := export.New(store.NewPromptStore(db), client, cfg.S3ExportPrefix)
	key, err := exporter.Run(ctx)
	if err != nil {
		return err
	}
	if verify {
		if err := exporter.Verify(ctx, key); err != nil {
			return err
		}
	}
	slog.Info("snapshot written", "bucket", client.Bucket(), "key", key, "verified", verify)
	return nil
}
