// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package export writes JSON snapshots of every stored prompt to object
// storage.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"time"

	"promptstore/internal/models"
)

// Lister returns all prompts. *store.PromptStore satisfies it.
type Lister interface {
	List(ctx context.Context) ([]models.Prompt, error)
}

// ObjectStore writes and reads objects. *storage.Client satisfies it.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	Download(ctx context.Context, key string) ([]byte, error)
}

// Snapshot is the document written for each export.
type Snapshot struct {
	ExportedAt time.Time       `json:"exported_at"`
	Count      int             `json:"count"`
	Prompts    []models.Prompt `json:"prompts"`
}

// Exporter copies the prompt table into object storage.
type Exporter struct {
	prompts Lister
	dest    ObjectStore
	prefix  string
	now     func() time.Time
}

// New creates an Exporter writing objects under prefix.
func New(prompts Lister, dest ObjectStore, prefix string) *Exporter {
	return &Exporter{prompts: prompts, dest: dest, prefix: prefix, now: time.Now}
}

// Key returns the object key for a snapshot taken at t.
func (e *Exporter) Key(t time.Time) string {
	return path.Join(e.prefix, "prompts-"+t.UTC().Format("20060102T150405Z")+".json")
}

// Run takes a snapshot and uploads it, returning the object key.
func (e *Exporter) Run(ctx context.Context) (string, error) {
	prompts, err := e.prompts.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list prompts: %w", err)
	}

	snap := Snapshot{
		ExportedAt: e.now().UTC(),
		Count:      len(prompts),
		Prompts:    prompts,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := e.Key(snap.ExportedAt)
	if err := e.dest.Upload(ctx, key, "application/json", data); err != nil {
		return "", err
	}

	slog.Info("prompts exported", "key", key, "count", snap.Count, "bytes", len(data))
	return key, nil
}

// Verify reads the object at key back and checks that it decodes as a
// snapshot whose count matches the prompts it carries.
func (e *Exporter) Verify(ctx context.Context, key string) error {
	data, err := e.dest.Download(ctx, key)
	if err != nil {
		return fmt.Errorf("read back %s: %w", key, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	if snap.Count != len(snap.Prompts) {
		return fmt.Errorf("snapshot %s: count %d but %d prompts", key, snap.Count, len(snap.Prompts))
	}

	slog.Info("export verified", "key", key, "count", snap.Count, "bytes", len(data))
	return nil
}
