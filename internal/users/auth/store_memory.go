// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package auth

import (
	"context"
	"sync"
	"time"

	"github.com/velora-shop/velora/internal/platform/apperr"
)

// # In-Memory Repository

// MemoryUserRepository is a map-backed [UserRepository].
//
// # Usage
//
// Intended for unit tests and local development without Postgres. It honors
// the same contract as the SQL implementation: unique email/username on
// Create, and an atomic hash+version swap in UpdatePassword (the mutex makes
// the pair a single critical section).
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*User
}

// NewMemoryUserRepository creates an empty in-memory user repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*User)}
}

// FindByID returns the account with the given ID.
func (repository *MemoryUserRepository) FindByID(_ context.Context, id string) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return copyUser(user), nil
}

// FindByEmail returns the account with the given email.
func (repository *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, user := range repository.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, apperr.NotFound("User")
}

// FindByUsername returns the account with the given username.
func (repository *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, user := range repository.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, apperr.NotFound("User")
}

// Create stores a new account, enforcing email and username uniqueness.
func (repository *MemoryUserRepository) Create(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return apperr.Conflict("Email or username is already registered")
		}
	}

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	repository.users[user.ID] = copyUser(user)
	return nil
}

// UpdateProfile applies non-nil fields to the stored account.
func (repository *MemoryUserRepository) UpdateProfile(_ context.Context, id string, update ProfileUpdate) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}

	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Address != nil {
		user.Address = *update.Address
	}
	user.UpdatedAt = time.Now()

	return copyUser(user), nil
}

// UpdatePassword swaps the hash and increments the token version under one
// lock acquisition.
func (repository *MemoryUserRepository) UpdatePassword(_ context.Context, id string, newHash string) (*User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}

	user.PasswordHash = newHash
	user.TokenVersion++
	user.UpdatedAt = time.Now()

	return copyUser(user), nil
}

// copyUser returns a detached copy so callers cannot mutate stored state.
func copyUser(user *User) *User {
	clone := *user
	return &clone
}
