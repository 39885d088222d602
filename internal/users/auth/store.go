// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package auth

import (
	"context"
)

// # Credential Store

// ProfileUpdate carries the mutable profile attributes for a partial update.
//
// Email and username are deliberately absent: they are immutable through the
// profile path, and keeping them out of this type enforces that structurally
// rather than by trusting callers to omit them.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
}

// UserRepository defines the data access contract for customer accounts.
//
// # Atomicity
//
// The Session Service's correctness depends on two guarantees from any
// implementation: Create enforces email/username uniqueness, and
// UpdatePassword applies the new hash and the token-version increment as a
// single atomic unit. A concurrent reader must observe either the old
// (hash, version) pair or the new one, never a mix.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict if the email or username is taken,
		    or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdateProfile applies a partial update to the mutable profile fields.
		Nil fields are left untouched.

		Parameters:
		  - context: context.Context
		  - id: string
		  - update: ProfileUpdate

		Returns:
		  - *User: The updated entity
		  - error: apperr.NotFound if id is absent, or persistence failures
	*/
	UpdateProfile(context context.Context, id string, update ProfileUpdate) (*User, error)

	/*
		UpdatePassword replaces the password hash AND increments the token
		version in the same atomic operation, invalidating every token issued
		before the call.

		Parameters:
		  - context: context.Context
		  - id: string
		  - newHash: string

		Returns:
		  - *User: The updated entity carrying the new token version
		  - error: apperr.NotFound if id is absent, or persistence failures
	*/
	UpdatePassword(context context.Context, id string, newHash string) (*User, error)
}
