// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides in-memory fakes so the handlers can be exercised
// without PostgreSQL or Valkey.
package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"promptstore/internal/metrics"
	"promptstore/internal/models"
	"promptstore/internal/store"
)

// fakeStore is an in-memory PromptStore. Setting err makes every call fail
// with it; validation still runs through store.ValidatePrompt. afterGet, if
// set, runs once Get has read its row and released the lock.
type fakeStore struct {
	mu       sync.Mutex
	prompts  map[uuid.UUID]models.Prompt
	order    []uuid.UUID
	err      error
	calls    int
	afterGet func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{prompts: make(map[uuid.UUID]models.Prompt)}
}

func (f *fakeStore) Create(_ context.Context, title, content string) (*models.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := store.ValidatePrompt(title, content); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	p := models.Prompt{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	f.prompts[p.ID] = p
	f.order = append(f.order, p.ID)
	return &p, nil
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (*models.Prompt, error) {
	f.mu.Lock()
	f.calls++
	err := f.err
	p, ok := f.prompts[id]
	hook := f.afterGet
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &store.NotFoundError{ID: id}
	}
	if hook != nil {
		hook()
	}
	return &p, nil
}

func (f *fakeStore) List(_ context.Context) ([]models.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Prompt, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.prompts[id])
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id uuid.UUID, title, content string) (*models.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := store.ValidatePrompt(title, content); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.prompts[id]
	if !ok {
		return nil, &store.NotFoundError{ID: id}
	}
	p.Title, p.Content = title, content
	f.prompts[id] = p
	return &p, nil
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	if _, ok := f.prompts[id]; !ok {
		return &store.NotFoundError{ID: id}
	}
	delete(f.prompts, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

// seed inserts a prompt directly, bypassing the call counter.
func (f *fakeStore) seed(title, content string) models.Prompt {
	p, _ := f.Create(context.Background(), title, content)
	f.mu.Lock()
	f.calls = 0
	f.mu.Unlock()
	return *p
}

// fakeCache is an in-memory PromptCache that records invalidations. Like
// the Valkey cache, an invalidated key refuses Add.
type fakeCache struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]models.Prompt
	tombstones  map[uuid.UUID]bool
	invalidated []uuid.UUID
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries:    make(map[uuid.UUID]models.Prompt),
		tombstones: make(map[uuid.UUID]bool),
	}
}

func (c *fakeCache) Get(_ context.Context, id uuid.UUID) (*models.Prompt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (c *fakeCache) Add(_ context.Context, p *models.Prompt) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[p.ID]; ok || c.tombstones[p.ID] {
		return
	}
	c.entries[p.ID] = *p
}

func (c *fakeCache) Invalidate(_ context.Context, id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
	c.tombstones[id] = true
	c.invalidated = append(c.invalidated, id)
}

// testRouter mounts h on a bare chi router so URL parameters resolve.
func testRouter(h *Prompts) http.Handler {
	r := chi.NewRouter()
	r.Post("/prompts", h.Create)
	r.Get("/prompts", h.List)
	r.Get("/prompts/{id}", h.Get)
	r.Get("/prompts/{id}/html", h.RenderHTML)
	r.Put("/prompts/{id}", h.Update)
	r.Delete("/prompts/{id}", h.Delete)
	return r
}

// newTestPrompts wires a fake store and, optionally, a fake cache.
func newTestPrompts(withCache bool) (http.Handler, *fakeStore, *fakeCache, *metrics.Metrics) {
	fs := newFakeStore()
	m := metrics.New()
	var fc *fakeCache
	var pc PromptCache
	if withCache {
		fc = newFakeCache()
		pc = fc
	}
	return testRouter(NewPrompts(fs, pc, m)), fs, fc, m
}
