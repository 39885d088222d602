// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

/*
Package account handles customer profile management.

It provides functionalities for users to view and update their private
identity data (name, phone, shipping address).

# Architecture

  - Domain: This package depends on the auth package for the User entity and
    its repository contract; there is a single account table.
  - Security: Every operation takes a validated [auth.Identity] and re-checks
    the token version against the live record, so an access token minted
    before a password change cannot read or mutate the profile.
  - Immutability: Email and username cannot change through this package. The
    input type simply has no fields for them.
*/
package account

import (
	"context"

	"github.com/velora-shop/velora/internal/users/auth"
)

// # Contracts & Inputs

// IdentityVerifier resolves a validated token identity into the live user,
// rejecting identities whose version snapshot has been superseded.
//
// Implemented by [auth.Service].
type IdentityVerifier interface {
	VerifyTokenVersion(context context.Context, identity auth.Identity) (*auth.User, error)
}

// UpdateProfileInput defines the mutable subset of user profile fields.
// Nil fields are left untouched.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
}
