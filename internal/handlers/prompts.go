// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP API over the prompt store.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"promptstore/internal/markdown"
	"promptstore/internal/metrics"
	"promptstore/internal/models"
)

// PromptStore is the persistence the handlers need. *store.PromptStore
// satisfies it.
type PromptStore interface {
	Create(ctx context.Context, title, content string) (*models.Prompt, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Prompt, error)
	List(ctx context.Context) ([]models.Prompt, error)
	Update(ctx context.Context, id uuid.UUID, title, content string) (*models.Prompt, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PromptCache is an optional read-through cache for single prompts.
// *cache.PromptCache satisfies it. Add must not overwrite an existing entry
// or a key invalidated recently.
type PromptCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Prompt, bool)
	Add(ctx context.Context, p *models.Prompt)
	Invalidate(ctx context.Context, id uuid.UUID)
}

// Prompts groups the /prompts handlers and their dependencies.
type Prompts struct {
	store   PromptStore
	cache   PromptCache // nil when running without Valkey
	metrics *metrics.Metrics
}

// NewPrompts creates the prompt handlers. cache and m may be nil.
func NewPrompts(s PromptStore, c PromptCache, m *metrics.Metrics) *Prompts {
	return &Prompts{store: s, cache: c, metrics: m}
}

// Create handles POST /prompts.
func (h *Prompts) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodePrompt(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.store.Create(r.Context(), req.Title, req.Content)
	h.metrics.StoreOperation("create", outcome(err))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// List handles GET /prompts.
func (h *Prompts) List(w http.ResponseWriter, r *http.Request) {
	prompts, err := h.store.List(r.Context())
	h.metrics.StoreOperation("list", outcome(err))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, prompts)
}

// Get handles GET /prompts/{id}, consulting the cache first.
func (h *Prompts) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.lookup(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// RenderHTML handles GET /prompts/{id}/html, returning the content rendered
// from Markdown as an HTML fragment.
func (h *Prompts) RenderHTML(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.lookup(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out, err := markdown.ToHTML(p.Content)
	if err != nil {
		slog.ErrorContext(r.Context(), "render prompt failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Highlighted code blocks carry inline styles.
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'none'")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}

// lookup reads a prompt through the cache, populating it on a miss. An
// Update or Delete may land between the store read and the Add; the cache
// refuses the Add in that case, so the stale row is served once but not kept.
func (h *Prompts) lookup(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	if h.cache != nil {
		if p, ok := h.cache.Get(ctx, id); ok {
			h.metrics.CacheLookup(true)
			return p, nil
		}
		h.metrics.CacheLookup(false)
	}

	p, err := h.store.Get(ctx, id)
	h.metrics.StoreOperation("get", outcome(err))
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		h.cache.Add(ctx, p)
	}
	return p, nil
}

// Update handles PUT /prompts/{id}.
func (h *Prompts) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req, err := decodePrompt(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.store.Update(r.Context(), id, req.Title, req.Content)
	h.metrics.StoreOperation("update", outcome(err))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	if h.cache != nil {
		h.cache.Invalidate(r.Context(), id)
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /prompts/{id}.
func (h *Prompts) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.store.Delete(r.Context(), id)
	h.metrics.StoreOperation("delete", outcome(err))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	if h.cache != nil {
		h.cache.Invalidate(r.Context(), id)
	}
	w.WriteHeader(http.StatusNoContent)
}
