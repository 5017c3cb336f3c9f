// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// prompt.go provides a Valkey-backed cache of individual prompts keyed by
// ID. Cache failures are logged and treated as misses; they never fail the
// caller, since PostgreSQL remains the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"promptstore/internal/models"
)

const (
	// promptKeyPrefix is the Valkey key prefix for cached prompts.
	promptKeyPrefix = "prompt:"

	// DefaultPromptTTL is how long a prompt stays cached.
	DefaultPromptTTL = 10 * time.Minute

	// tombstone marks a prompt that was just updated or deleted. Add will not
	// overwrite it, so a reader holding a row fetched before the write cannot
	// repopulate the cache with it.
	tombstone = "-"

	// TombstoneTTL is how long a tombstone blocks Add. It outlasts the
	// server's request timeouts; a reader stalled longer than this between
	// its database read and its Add can still cache a stale row.
	TombstoneTTL = 30 * time.Second
)

// PromptCache manages prompt caching in Valkey.
type PromptCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPromptCache creates a new prompt cache backed by the given Valkey client.
func NewPromptCache(client *redis.Client, ttl time.Duration) *PromptCache {
	if ttl <= 0 {
		ttl = DefaultPromptTTL
	}
	return &PromptCache{client: client, ttl: ttl}
}

// PromptKey returns the cache key for a prompt ID.
func PromptKey(id uuid.UUID) string {
	return promptKeyPrefix + id.String()
}

// Get retrieves a cached prompt. Returns false on miss, tombstone, or error.
func (pc *PromptCache) Get(ctx context.Context, id uuid.UUID) (*models.Prompt, bool) {
	val, err := pc.client.Get(ctx, PromptKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("prompt cache get error", "id", id, "error", err)
		return nil, false
	}
	if string(val) == tombstone {
		return nil, false
	}

	var p models.Prompt
	if err := json.Unmarshal(val, &p); err != nil {
		slog.Warn("prompt cache decode error", "id", id, "error", err)
		pc.client.Del(ctx, PromptKey(id))
		return nil, false
	}
	slog.Debug("prompt cache hit", "id", id)
	return &p, true
}

// Add caches a prompt with the configured TTL unless the key already holds
// an entry or a tombstone.
func (pc *PromptCache) Add(ctx context.Context, p *models.Prompt) {
	data, err := json.Marshal(p)
	if err != nil {
		slog.Warn("prompt cache encode error", "id", p.ID, "error", err)
		return
	}
	added, err := pc.client.SetNX(ctx, PromptKey(p.ID), data, pc.ttl).Result()
	if err != nil {
		slog.Warn("prompt cache add error", "id", p.ID, "error", err)
		return
	}
	if !added {
		slog.Debug("prompt cache add skipped", "id", p.ID)
	}
}

// Invalidate replaces a cached prompt with a short-lived tombstone.
func (pc *PromptCache) Invalidate(ctx context.Context, id uuid.UUID) {
	if err := pc.client.Set(ctx, PromptKey(id), tombstone, TombstoneTTL).Err(); err != nil {
		slog.Warn("prompt cache invalidate error", "id", id, "error", err)
		return
	}
	slog.Debug("prompt cache invalidated", "id", id)
}

// InvalidateAll removes every cached prompt by scanning for the prefix.
func (pc *PromptCache) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, promptKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("prompt cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("prompt cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("prompt cache fully cleared", "deleted", deleted)
	}
}
