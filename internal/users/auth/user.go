// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, TokenPair) and logic for
authentication and account credential lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.

# Session model

Sessions are not persisted. Every issued token embeds a snapshot of the user's
token version; bumping the counter (password change) invalidates every
outstanding token at once. Logout is purely client-side cookie removal.
*/
package auth

import (
	"time"
)

// # Domain Entities

// User represents a registered customer of the Velora storefront.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Explicitly omitted from JSON for security.
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`

	// TokenVersion is a monotonic counter. Tokens carry a snapshot of it;
	// a snapshot older than the live value means the token was issued before
	// a password change and must be rejected. Never serialized.
	TokenVersion int64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenPair is the ephemeral bundle of signed credentials minted on
// register, login, and refresh. It is never persisted.
type TokenPair struct {
	AccessToken      string    `json:"-"`
	RefreshToken     string    `json:"-"`
	AccessExpiresAt  time.Time `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldPhone           = "phone"
	FieldAddress         = "address"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldUser            = "user"
	FieldMessage         = "message"
)
