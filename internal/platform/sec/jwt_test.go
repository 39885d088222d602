// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testKey is generated once per test run; 2048 bits keeps the suite fast.
func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

/*
TestTokenService_RoundTrip verifies that Issue then Verify returns the
original subject, version, and kind for an unexpired token.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := NewTokenServiceFromKeys(testKey(t), "velora.test")

	tests := []struct {
		name string
		kind TokenKind
	}{
		{"access_token", TokenKindAccess},
		{"refresh_token", TokenKindRefresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := service.Issue("user-1", "alice", 3, tt.kind, 15*time.Minute)
			require.NoError(t, err)

			claims, err := service.Verify(signed, tt.kind)
			require.NoError(t, err)

			assert.Equal(t, "user-1", claims.UserID)
			assert.Equal(t, "user-1", claims.Subject)
			assert.Equal(t, "alice", claims.Username)
			assert.Equal(t, int64(3), claims.TokenVersion)
			assert.Equal(t, tt.kind, claims.Kind)
			assert.Equal(t, "velora.test", claims.Issuer)
		})
	}
}

/*
TestTokenService_WrongKind ensures a refresh token is rejected where an
access token is expected, and vice versa.
*/
func TestTokenService_WrongKind(t *testing.T) {
	service := NewTokenServiceFromKeys(testKey(t), "velora.test")

	refresh, err := service.Issue("user-1", "alice", 0, TokenKindRefresh, time.Hour)
	require.NoError(t, err)

	_, err = service.Verify(refresh, TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenWrongKind)

	access, err := service.Issue("user-1", "alice", 0, TokenKindAccess, time.Hour)
	require.NoError(t, err)

	_, err = service.Verify(access, TokenKindRefresh)
	assert.ErrorIs(t, err, ErrTokenWrongKind)
}

/*
TestTokenService_ExpiryBoundary pins the clock and checks that a token is
invalid at its exact expiry instant but valid one microsecond before.
*/
func TestTokenService_ExpiryBoundary(t *testing.T) {
	service := NewTokenServiceFromKeys(testKey(t), "velora.test")

	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := 15 * time.Minute
	expiry := issuedAt.Add(ttl)

	service.now = func() time.Time { return issuedAt }
	signed, err := service.Issue("user-1", "alice", 0, TokenKindAccess, ttl)
	require.NoError(t, err)

	// One microsecond before expiry: still valid.
	service.now = func() time.Time { return expiry.Add(-time.Microsecond) }
	_, err = service.Verify(signed, TokenKindAccess)
	assert.NoError(t, err)

	// Exactly at expiry: invalid.
	service.now = func() time.Time { return expiry }
	_, err = service.Verify(signed, TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

/*
TestTokenService_Malformed covers garbage input.
*/
func TestTokenService_Malformed(t *testing.T) {
	service := NewTokenServiceFromKeys(testKey(t), "velora.test")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"not_a_jwt", "definitely-not-a-jwt"},
		{"truncated", "eyJhbGciOiJSUzI1NiJ9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Verify(tt.token, TokenKindAccess)
			assert.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}

/*
TestTokenService_SignatureInvalid ensures tokens signed by a different key
are rejected with the signature sentinel, not a generic failure.
*/
func TestTokenService_SignatureInvalid(t *testing.T) {
	issuerService := NewTokenServiceFromKeys(testKey(t), "velora.test")
	verifierService := NewTokenServiceFromKeys(testKey(t), "velora.test")

	signed, err := issuerService.Issue("user-1", "alice", 0, TokenKindAccess, time.Hour)
	require.NoError(t, err)

	_, err = verifierService.Verify(signed, TokenKindAccess)
	assert.ErrorIs(t, err, ErrTokenSignatureInvalid)
}

/*
TestHashPassword_Verify exercises the bcrypt helpers.
*/
func TestHashPassword_Verify(t *testing.T) {
	hash, err := HashPassword("pw1")
	require.NoError(t, err)
	require.NotEqual(t, "pw1", hash)

	assert.True(t, CheckPasswordHash("pw1", hash))
	assert.False(t, CheckPasswordHash("pw2", hash))
	assert.False(t, CheckPasswordHash("", hash))
}
