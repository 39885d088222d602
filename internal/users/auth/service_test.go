// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package auth_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-shop/velora/internal/platform/apperr"
	"github.com/velora-shop/velora/internal/platform/sec"
	"github.com/velora-shop/velora/internal/users/auth"
)

// newTestService wires a Service against the in-memory repository and a real
// RS256 token service with a throwaway key pair.
func newTestService(t *testing.T) (*auth.Service, *auth.MemoryUserRepository, *sec.TokenService) {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tokenService := sec.NewTokenServiceFromKeys(privateKey, "velora.shop")
	repository := auth.NewMemoryUserRepository()

	return auth.NewService(repository, tokenService), repository, tokenService
}

// register enrolls a user and fails the test on any error.
func register(t *testing.T, service *auth.Service, username, email, password string) *auth.AuthSession {
	t.Helper()

	session, err := service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	require.NotNil(t, session)

	return session
}

/*
TestService_Register_IssuesVersionZeroPair verifies that a brand-new account
starts at token version 0 and that both issued tokens carry the identity and
the correct kind.
*/
func TestService_Register_IssuesVersionZeroPair(t *testing.T) {
	service, _, tokenService := newTestService(t)

	session := register(t, service, "alice", "alice@example.com", "password-one")

	assert.Equal(t, "alice", session.User.Username)
	assert.Equal(t, int64(0), session.User.TokenVersion)
	assert.NotEqual(t, "password-one", session.User.PasswordHash, "password must never be stored in plain text")

	accessClaims, err := tokenService.Verify(session.Tokens.AccessToken, sec.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, accessClaims.Subject)
	assert.Equal(t, session.User.ID, accessClaims.UserID)
	assert.Equal(t, "alice", accessClaims.Username)
	assert.Equal(t, int64(0), accessClaims.TokenVersion)

	refreshClaims, err := tokenService.Verify(session.Tokens.RefreshToken, sec.TokenKindRefresh)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, refreshClaims.UserID)
	assert.Equal(t, int64(0), refreshClaims.TokenVersion)
}

/*
TestService_Register_DuplicateIdentity verifies that reusing an email or a
username is rejected with a conflict.
*/
func TestService_Register_DuplicateIdentity(t *testing.T) {
	service, _, _ := newTestService(t)
	register(t, service, "alice", "alice@example.com", "password-one")

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"same_email", "someone_else", "alice@example.com"},
		{"same_username", "alice", "other@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), auth.RegisterInput{
				Username: tt.username,
				Email:    tt.email,
				Password: "irrelevant-password",
			})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "CONFLICT", ae.Code)
		})
	}
}

/*
TestService_Login_EnumerationResistance verifies that a wrong password and a
nonexistent account produce byte-identical client errors.
*/
func TestService_Login_EnumerationResistance(t *testing.T) {
	service, _, _ := newTestService(t)
	register(t, service, "alice", "alice@example.com", "password-one")

	_, wrongPasswordErr := service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "not-her-password",
	})
	require.Error(t, wrongPasswordErr)

	_, unknownAccountErr := service.Login(context.Background(), auth.LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, unknownAccountErr)

	assert.Equal(t, wrongPasswordErr.Error(), unknownAccountErr.Error())
	assert.Equal(t, apperr.As(wrongPasswordErr).HTTPStatus, apperr.As(unknownAccountErr).HTTPStatus)
	assert.Equal(t, apperr.As(wrongPasswordErr).Code, apperr.As(unknownAccountErr).Code)
}

/*
TestService_Login_Success verifies the happy path issues a verifiable pair
bound to the user's current token version.
*/
func TestService_Login_Success(t *testing.T) {
	service, _, tokenService := newTestService(t)
	registered := register(t, service, "alice", "alice@example.com", "password-one")

	session, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "password-one",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, session.User.ID)

	claims, err := tokenService.Verify(session.Tokens.AccessToken, sec.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, session.User.TokenVersion, claims.TokenVersion)
}

/*
TestService_Refresh_RotatesPair verifies that refreshing with a current
identity produces a fresh pair carrying the same version.
*/
func TestService_Refresh_RotatesPair(t *testing.T) {
	service, _, tokenService := newTestService(t)
	registered := register(t, service, "alice", "alice@example.com", "password-one")

	session, err := service.Refresh(context.Background(), auth.Identity{
		UserID:       registered.User.ID,
		TokenVersion: registered.User.TokenVersion,
	})
	require.NoError(t, err)

	claims, err := tokenService.Verify(session.Tokens.RefreshToken, sec.TokenKindRefresh)
	require.NoError(t, err)
	assert.Equal(t, registered.User.TokenVersion, claims.TokenVersion)
}

/*
TestService_Refresh_SupersededAfterPasswordChange walks the full invalidation
scenario: alice registers with one password, changes it, and every identity
carrying the old version snapshot is rejected while the new version works.
*/
func TestService_Refresh_SupersededAfterPasswordChange(t *testing.T) {
	service, repository, _ := newTestService(t)
	registered := register(t, service, "alice", "alice@example.com", "password-one")

	oldIdentity := auth.Identity{
		UserID:       registered.User.ID,
		TokenVersion: registered.User.TokenVersion,
	}

	err := service.ChangePassword(context.Background(), registered.User.ID, "password-one", "password-two")
	require.NoError(t, err)

	// Old snapshot is now stale.
	_, err = service.Refresh(context.Background(), oldIdentity)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)

	// The stored version advanced exactly once.
	user, err := repository.FindByID(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, oldIdentity.TokenVersion+1, user.TokenVersion)

	// A current snapshot refreshes fine.
	session, err := service.Refresh(context.Background(), auth.Identity{
		UserID:       user.ID,
		TokenVersion: user.TokenVersion,
	})
	require.NoError(t, err)
	assert.Equal(t, user.TokenVersion, session.User.TokenVersion)

	// Old password no longer logs in, the new one does.
	_, err = service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "password-one",
	})
	require.Error(t, err)

	_, err = service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "password-two",
	})
	require.NoError(t, err)
}

/*
TestService_ChangePassword_WrongCurrent verifies the current password gate.
*/
func TestService_ChangePassword_WrongCurrent(t *testing.T) {
	service, repository, _ := newTestService(t)
	registered := register(t, service, "alice", "alice@example.com", "password-one")

	err := service.ChangePassword(context.Background(), registered.User.ID, "not-her-password", "password-two")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UNAUTHORIZED", ae.Code)

	// Nothing changed: version stayed put and the old password still works.
	user, err := repository.FindByID(context.Background(), registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, registered.User.TokenVersion, user.TokenVersion)

	_, err = service.Login(context.Background(), auth.LoginInput{
		Email:    "alice@example.com",
		Password: "password-one",
	})
	require.NoError(t, err)
}

/*
TestService_VerifyTokenVersion covers the superseded check used by handlers
holding an access token minted before a password change.
*/
func TestService_VerifyTokenVersion(t *testing.T) {
	service, _, _ := newTestService(t)
	registered := register(t, service, "alice", "alice@example.com", "password-one")

	identity := auth.Identity{
		UserID:       registered.User.ID,
		TokenVersion: registered.User.TokenVersion,
	}

	user, err := service.VerifyTokenVersion(context.Background(), identity)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, user.ID)

	require.NoError(t, service.ChangePassword(context.Background(), registered.User.ID, "password-one", "password-two"))

	_, err = service.VerifyTokenVersion(context.Background(), identity)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}
