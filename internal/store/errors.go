// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors for errors.Is checks. The typed errors below match them.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("prompt not found")
	ErrStorage    = errors.New("storage failure")
)

// ValidationError reports a required field that is missing or out of bounds.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError reports a lookup by ID that matched no record.
type NotFoundError struct {
	ID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("prompt %s not found", e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StorageError wraps a failure of the underlying database. Code and
// Constraint are set when PostgreSQL rejected the statement.
type StorageError struct {
	Op         string
	Code       string
	Constraint string
	Err        error
}

func (e *StorageError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s: constraint %s violated: %v", e.Op, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStorage.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// IsConstraintViolation reports whether the database rejected the write
// with an integrity constraint violation (SQLSTATE class 23).
func (e *StorageError) IsConstraintViolation() bool {
	return len(e.Code) == 5 && e.Code[:2] == "23"
}

// IsDataException reports whether the database rejected a value supplied
// by the caller (SQLSTATE class 22), such as a NUL byte in a text column.
func (e *StorageError) IsDataException() bool {
	return len(e.Code) == 5 && e.Code[:2] == "22"
}

// newStorageError wraps err for op, extracting the SQLSTATE when the
// driver returned a PostgreSQL error.
func newStorageError(op string, err error) *StorageError {
	se := &StorageError{Op: op, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		se.Code = pgErr.Code
		if se.IsConstraintViolation() {
			se.Constraint = pgErr.ConstraintName
			if se.Constraint == "" {
				se.Constraint = pgErr.ColumnName
			}
		}
	}
	return se
}
