// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/velora-shop/velora/internal/platform/apperr"
	"github.com/velora-shop/velora/internal/platform/ctxutil"
	"github.com/velora-shop/velora/internal/platform/sec"
	"github.com/velora-shop/velora/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for minting security tokens.
type TokenProvider interface {
	// Issue creates a signed token string of the given kind for the user.
	//
	// # Parameters
	//   - userID: The ID of the account (subject claim).
	//   - username: The username of the account.
	//   - tokenVersion: The user's token version counter at issuance.
	//   - kind: Access or Refresh.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	Issue(userID, username string, tokenVersion int64, kind sec.TokenKind, timeToLive time.Duration) (string, error)
}

// Identity is the already-authenticated caller passed into Refresh.
//
// The transport adapter validates the raw refresh token (signature, expiry,
// kind) BEFORE constructing an Identity; the core never sees the raw token.
type Identity struct {
	UserID string
	// TokenVersion is the snapshot embedded in the validated token, compared
	// against the live user's counter to detect superseded sessions.
	TokenVersion int64
}

// AuthSession is the result of a successful register, login, or refresh.
type AuthSession struct {
	User   *User
	Tokens TokenPair
}

// errInvalidCredentials is shared by the no-such-account and wrong-password
// paths so the two are indistinguishable to callers (enumeration resistance).
var errInvalidCredentials = apperr.Unauthorized("Invalid email or password")

// errSuperseded rejects tokens whose version snapshot predates a password
// change. Same HTTP status as any other session failure; the code path is
// kept distinct for internal logging.
var errSuperseded = apperr.Unauthorized("Session is no longer valid, please log in again")

// Service implements the session/identity use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, tokenProv TokenProvider) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new customer.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new customer with token version 0 and immediately
establishes a session by issuing a fresh token pair.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *AuthSession: Created user (without secret) plus token pair
  - err: apperr.Conflict if the identity exists, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*AuthSession, error) {

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err = service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index
	// fragmentation. Token version starts at 0.
	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		TokenVersion: 0,
	}

	// Persist the user. The unique indexes are the authoritative duplicate
	// check; the lookups above only provide friendlier messages outside of
	// races.
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	tokens, err := service.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	return &AuthSession{User: user, Tokens: tokens}, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates user credentials and issues a fresh token pair.

Description: Verifies identity with a constant-time password comparison. A
missing account and a wrong password produce the SAME error so callers cannot
probe which emails are registered; the two cases stay distinct in the logs.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *AuthSession: User plus fresh token pair
  - err: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*AuthSession, error) {
	log := ctxutil.GetLogger(context)

	user, err := service.userRepository.FindByEmail(context, input.Email)
	if err != nil {
		log.Warn("login_unknown_email", slog.String("email", input.Email))
		return nil, errInvalidCredentials
	}

	// Verify password hash using constant-time comparison to prevent timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		log.Warn("login_password_mismatch", slog.String("user_id", user.ID))
		return nil, errInvalidCredentials
	}

	tokens, err := service.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	return &AuthSession{User: user, Tokens: tokens}, nil
}

// # Session Management

/*
Refresh rotates the session of an already-authenticated identity.

Description: The transport layer has validated the presented refresh token
(signature, expiry, kind) and hands over the extracted identity. This
operation re-checks only what the validator cannot: that the token-version
snapshot still equals the live user's counter. A stale snapshot means a
password change superseded every older token.

Parameters:
  - context: context.Context
  - identity: Identity (validated upstream)

Returns:
  - *AuthSession: User plus brand-new token pair
  - err: Unauthorized (superseded or vanished user) or storage failures
*/
func (service *Service) Refresh(context context.Context, identity Identity) (*AuthSession, error) {
	log := ctxutil.GetLogger(context)

	user, err := service.userRepository.FindByID(context, identity.UserID)
	if err != nil {
		log.Warn("refresh_unknown_user", slog.String("user_id", identity.UserID))
		return nil, apperr.Unauthorized("Session is no longer valid, please log in again")
	}

	// The token predates the latest password change: reject it. This is the
	// stateless "log out everywhere" mechanism. No revocation list needed.
	if identity.TokenVersion != user.TokenVersion {
		log.Warn("refresh_superseded_token",
			slog.String("user_id", user.ID),
			slog.Int64("token_version", identity.TokenVersion),
			slog.Int64("current_version", user.TokenVersion),
		)
		return nil, errSuperseded
	}

	tokens, err := service.issueTokenPair(user)
	if err != nil {
		return nil, err
	}

	return &AuthSession{User: user, Tokens: tokens}, nil
}

/*
VerifyTokenVersion checks that a validated claim's version snapshot still
matches the live user record.

Description: Used by callers that must enforce the superseded rule outside
of Refresh (e.g. fetching the profile with an access token minted before a
password change).

Parameters:
  - context: context.Context
  - identity: Identity (validated upstream)

Returns:
  - *User: The live user when the snapshot is current
  - err: Unauthorized when superseded or the user vanished
*/
func (service *Service) VerifyTokenVersion(context context.Context, identity Identity) (*User, error) {
	user, err := service.userRepository.FindByID(context, identity.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Session is no longer valid, please log in again")
	}

	if identity.TokenVersion != user.TokenVersion {
		return nil, errSuperseded
	}

	return user, nil
}

// # Credential Mutation

/*
ChangePassword allows an authenticated user to rotate their credentials.

Description: Verifies the current password, re-hashes the new one, and
relies on the repository to bump the token version atomically with the hash
update, instantly invalidating every previously issued token for the user.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - err: Unauthorized on current-password mismatch, or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {
	log := ctxutil.GetLogger(context)

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing change
	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		log.Warn("change_password_mismatch", slog.String("user_id", userID))
		return apperr.Unauthorized("Current password is incorrect")
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// The hash swap and the version bump are one atomic repository
	// operation; see [UserRepository.UpdatePassword].
	if _, err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return err
	}

	log.Info("password_changed", slog.String("user_id", userID))
	return nil
}

// issueTokenPair mints the access+refresh pair bound to the user's current
// token version. CPU-bound only.
func (service *Service) issueTokenPair(user *User) (TokenPair, error) {
	now := time.Now()

	accessToken, err := service.tokenProvider.Issue(user.ID, user.Username, user.TokenVersion, sec.TokenKindAccess, AccessTokenTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenProvider.Issue(user.ID, user.Username, user.TokenVersion, sec.TokenKindRefresh, RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  now.Add(AccessTokenTTL),
		RefreshExpiresAt: now.Add(RefreshTokenTTL),
	}, nil
}
