// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// PromptCounter reports how many prompts are stored. *store.PromptStore
// satisfies it.
type PromptCounter interface {
	Count(ctx context.Context) (int, error)
}

// healthTimeout bounds the database round trip made by a health check.
const healthTimeout = 2 * time.Second

// healthBody is the JSON shape of GET /health.
type healthBody struct {
	Status  string `json:"status"`
	Prompts *int   `json:"prompts,omitempty"`
}

// Health reports liveness together with the number of stored prompts,
// which doubles as a database reachability check.
type Health struct {
	counter PromptCounter
}

// NewHealth creates the health handler.
func NewHealth(c PromptCounter) *Health {
	return &Health{counter: c}
}

// ServeHTTP handles GET /health. It answers 503 when the store is unreachable.
func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	n, err := h.counter.Count(ctx)
	if err != nil {
		slog.WarnContext(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthBody{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Prompts: &n})
}
