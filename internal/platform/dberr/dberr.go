// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/velora-shop/velora/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// conflictMessage is the client-safe message used when the error is a unique
// constraint violation (SQLSTATE 23505); pass "" to treat conflicts as internal.
func Wrap(err error, conflictMessage string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Unique violations become client-safe conflicts. The users.account
	// unique indexes on email and username are what enforce the duplicate
	// identity invariant; this is where they surface.
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgerrcode.UniqueViolation && conflictMessage != "" {
		return apperr.Conflict(conflictMessage)
	}

	// 3. Deadline and cancellation map to a generic unavailability error:
	// the caller cannot know whether the write committed, only that the
	// bounded unit of work did not complete.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.ServiceUnavailable("Storage temporarily unavailable")
	}

	// 4. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}
