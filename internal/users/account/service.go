// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/velora-shop/velora/internal/platform/ctxutil"
	"github.com/velora-shop/velora/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for customer profiles.
type Service struct {
	userRepository   auth.UserRepository
	identityVerifier IdentityVerifier
}

// NewService constructs a new [Service] with its dependencies.
func NewService(userRepo auth.UserRepository, verifier IdentityVerifier) *Service {
	return &Service{
		userRepository:   userRepo,
		identityVerifier: verifier,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of the authenticated user.

Description: The identity's token-version snapshot is checked against the
live record first, so a stale access token cannot read the profile.

Parameters:
  - context: context.Context
  - identity: auth.Identity (validated upstream)

Returns:
  - *auth.User: The hydrated user profile
  - error: Unauthorized when superseded, or execution failures
*/
func (service *Service) GetProfile(context context.Context, identity auth.Identity) (*auth.User, error) {
	user, err := service.identityVerifier.VerifyTokenVersion(context, identity)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
UpdateProfile applies a partial set of changes to the user's profile.

Description: Only first name, last name, phone, and address can change.
Email and username are absent from both the input type and the repository's
update statement, so no request shape can reach them.

Parameters:
  - context: context.Context
  - identity: auth.Identity (validated upstream)
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Unauthorized when superseded, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, identity auth.Identity, input UpdateProfileInput) (*auth.User, error) {
	log := ctxutil.GetLogger(context)

	if _, err := service.identityVerifier.VerifyTokenVersion(context, identity); err != nil {
		return nil, err
	}

	user, err := service.userRepository.UpdateProfile(context, identity.UserID, auth.ProfileUpdate{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Phone:     input.Phone,
		Address:   input.Address,
	})
	if err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	log.Info("user_profile_updated", slog.String("user_id", identity.UserID))

	return user, nil
}
