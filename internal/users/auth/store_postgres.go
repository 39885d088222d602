// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velora-shop/velora/internal/platform/dberr"
)

// # User Repository

// userColumns is the canonical select list for the users.account table.
const userColumns = `id, username, email, passwordhash, firstname, lastname, phone, address, tokenversion, createdat, updatedat`

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account data, ensuring timestamps are initialized
if not provided. Uniqueness of email and username is enforced by the
database's unique indexes.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate email/username, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, passwordhash, firstname, lastname, phone, address, tokenversion, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.Address,
		user.TokenVersion,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(
			fmt.Errorf("postgres_user_repo_create_failed: %w", err),
			"Email or username is already registered",
		)
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Performs a lookup on the account table for authentication.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE email = $1`

	return repository.queryOne(context, query, email)
}

/*
FindByUsername retrieves a user record by their unique username.

Description: Standard lookup by username for registration uniqueness checks
and profile resolution.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE username = $1`

	return repository.queryOne(context, query, username)
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE id = $1`

	return repository.queryOne(context, query, id)
}

/*
UpdateProfile applies a partial update to the mutable profile fields.

Description: Nil input fields keep the stored value via COALESCE, so the
statement never needs to be built dynamically. Email and username are not
part of the statement and therefore cannot change through this path.

Parameters:
  - context: context.Context
  - id: string
  - update: ProfileUpdate

Returns:
  - *User: The updated entity read back via RETURNING
  - error: apperr.NotFound if the id is absent, or execution errors
*/
func (repository *PostgresUserRepository) UpdateProfile(context context.Context, id string, update ProfileUpdate) (*User, error) {
	query := `
		UPDATE users.account
		SET firstname = COALESCE($2, firstname),
		    lastname  = COALESCE($3, lastname),
		    phone     = COALESCE($4, phone),
		    address   = COALESCE($5, address),
		    updatedat = $6
		WHERE id = $1
		RETURNING ` + userColumns

	user := &User{}
	err := repository.pool.QueryRow(context, query,
		id,
		update.FirstName,
		update.LastName,
		update.Phone,
		update.Address,
		time.Now(),
	).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Address,
		&user.TokenVersion,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_user_repo_update_profile_failed: %w", err), "")
	}

	return user, nil
}

/*
UpdatePassword replaces the password hash and bumps the token version.

Description: Both columns change in ONE statement, so any concurrent reader
sees either the old (hash, version) pair or the new one. The bump invalidates
every token carrying the previous version snapshot.

Parameters:
  - context: context.Context
  - id: string
  - newHash: string

Returns:
  - *User: The updated entity carrying the new token version
  - error: apperr.NotFound if the id is absent, or execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, id string, newHash string) (*User, error) {
	query := `
		UPDATE users.account
		SET passwordhash = $2,
		    tokenversion = tokenversion + 1,
		    updatedat    = $3
		WHERE id = $1
		RETURNING ` + userColumns

	user := &User{}
	err := repository.pool.QueryRow(context, query, id, newHash, time.Now()).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Address,
		&user.TokenVersion,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_user_repo_update_password_failed: %w", err), "")
	}

	return user, nil
}

// queryOne runs a single-row select with the canonical column list and maps
// the result into a User entity.
func (repository *PostgresUserRepository) queryOne(context context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(context, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Address,
		&user.TokenVersion,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_user_repo_find_failed: %w", err), "")
	}

	return user, nil
}
