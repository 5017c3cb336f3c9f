// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"promptstore/internal/models"
)

// PromptStore handles all prompt-related database operations.
type PromptStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewPromptStore creates a new PromptStore with the given database connection.
func NewPromptStore(db *sql.DB) *PromptStore {
	return &PromptStore{db: db, now: time.Now}
}

const promptColumns = `id, title, content, created_at`

// scanPrompt scans a row into a Prompt struct. created_at is normalized
// to UTC; a NULL written by an external client is left as the zero time.
func scanPrompt(scanner interface{ Scan(...any) error }) (*models.Prompt, error) {
	var p models.Prompt
	var createdAt sql.NullTime
	if err := scanner.Scan(&p.ID, &p.Title, &p.Content, &createdAt); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time.UTC()
	}
	return &p, nil
}

// Create validates the fields, allocates a random v4 ID and a creation
// timestamp, and inserts the prompt. The timestamp is truncated to
// microseconds so the returned value matches what PostgreSQL stores.
func (s *PromptStore) Create(ctx context.Context, title, content string) (*models.Prompt, error) {
	if err := ValidatePrompt(title, content); err != nil {
		return nil, err
	}

	p := &models.Prompt{
		ID:        uuid.New(),
		Title:     title,
		Content:   content,
		CreatedAt: s.now().UTC().Truncate(time.Microsecond),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prompts (id, title, content, created_at)
		VALUES ($1, $2, $3, $4)
	`, p.ID, p.Title, p.Content, p.CreatedAt)
	if err != nil {
		return nil, newStorageError("create prompt", err)
	}
	return p, nil
}

// Get retrieves a prompt by its ID. Returns a *NotFoundError if no record matches.
func (s *PromptStore) Get(ctx context.Context, id uuid.UUID) (*models.Prompt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+promptColumns+` FROM prompts WHERE id = $1`, id)
	p, err := scanPrompt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, newStorageError("get prompt", err)
	}
	return p, nil
}

// List returns all prompts in insertion order (created_at, then id to
// break ties). An empty table yields an empty, non-nil slice.
func (s *PromptStore) List(ctx context.Context) ([]models.Prompt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+promptColumns+`
		FROM prompts
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, newStorageError("list prompts", err)
	}
	defer rows.Close()

	prompts := make([]models.Prompt, 0)
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, newStorageError("scan prompt", err)
		}
		prompts = append(prompts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, newStorageError("list prompts", err)
	}
	return prompts, nil
}

// Update replaces the title and content of an existing prompt. The ID and
// creation timestamp are left untouched.
func (s *PromptStore) Update(ctx context.Context, id uuid.UUID, title, content string) (*models.Prompt, error) {
	if err := ValidatePrompt(title, content); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE prompts SET title = $1, content = $2
		WHERE id = $3
		RETURNING `+promptColumns,
		title, content, id,
	)
	p, err := scanPrompt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, newStorageError("update prompt", err)
	}
	return p, nil
}

// Delete removes a prompt by ID. Returns a *NotFoundError if nothing was deleted.
func (s *PromptStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM prompts WHERE id = $1`, id)
	if err != nil {
		return newStorageError("delete prompt", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return newStorageError("delete prompt", err)
	}
	if n == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}

// Count returns the total number of prompts.
func (s *PromptStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM prompts`).Scan(&count); err != nil {
		return 0, newStorageError("count prompts", err)
	}
	return count, nil
}
