// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [auth.TokenProvider] interface.
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Token Kinds

// TokenKind distinguishes short-lived access tokens from long-lived refresh
// tokens. The kind is embedded in the signed claims so a refresh token can
// never be presented where an access token is expected, and vice versa.
type TokenKind string

const (
	// TokenKindAccess authorizes API calls for its short lifetime.
	TokenKindAccess TokenKind = "access"

	// TokenKindRefresh is used solely to mint new token pairs.
	TokenKindRefresh TokenKind = "refresh"
)

// # Verification Failures

// Verification failures are surfaced as exactly one of these sentinels so
// callers can branch on the failure mode while still coalescing all of them
// into a generic 401 at the transport boundary.
var (
	// ErrTokenMalformed indicates the string is not a parseable JWT.
	ErrTokenMalformed = errors.New("sec: token is malformed")

	// ErrTokenExpired indicates the token's expiry instant has been reached.
	// A token is invalid at its exact expiry instant, valid any time before.
	ErrTokenExpired = errors.New("sec: token is expired")

	// ErrTokenWrongKind indicates a kind mismatch (e.g. a refresh token
	// presented as an access token).
	ErrTokenWrongKind = errors.New("sec: token kind mismatch")

	// ErrTokenSignatureInvalid indicates the signature does not verify
	// against the configured public key.
	ErrTokenSignatureInvalid = errors.New("sec: token signature is invalid")
)

// AuthClaims represents the payload embedded inside a Velora JWT.
//
// # Why custom claims?
//
// By embedding the UserID, Username, TokenVersion, and Kind directly inside
// the JWT, the [middleware.Authenticate] chain can reconstruct the active
// user context WITHOUT querying the database on every single API request.
// The token version snapshot is what allows a password change to invalidate
// every previously issued token: callers compare it against the live user's
// counter and reject stale snapshots.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID       string    `json:"uid"`
	Username     string    `json:"unm"`
	TokenVersion int64     `json:"tvr"`
	Kind         TokenKind `json:"knd"`
}

// TokenService handles generation and verification of JWT tokens using RS256.
//
// The signing key pair is process-wide configuration: loaded once at startup,
// injected via the constructor, never mutated.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string

	// now is the time source for issuance and expiry checks. Overridden in
	// tests to pin boundary conditions.
	now func() time.Time
}

// NewTokenService creates a new TokenService.
// It reads RSA keys from the provided filesystem paths.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKeyData, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", privateKeyPath, err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}

	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		now:        time.Now,
	}, nil
}

// NewTokenServiceFromKeys creates a TokenService from an in-memory key pair.
// Used by unit tests and embedded deployments where keys are not on disk.
func NewTokenServiceFromKeys(privateKey *rsa.PrivateKey, issuer string) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
		issuer:     issuer,
		now:        time.Now,
	}
}

/*
Issue creates a signed token of the given kind bound to a user identity.

Description: Embeds the subject, username, token version snapshot, and kind,
then signs with RS256. CPU-bound only; no I/O.

Parameters:
  - userID: The ID of the account (JWT subject).
  - username: The username of the account.
  - tokenVersion: The user's token version counter at issuance.
  - kind: TokenKindAccess or TokenKindRefresh.
  - timeToLive: The duration before the token expires.

Returns:
  - A signed JWT string, or an err if signing fails.
*/
func (service *TokenService) Issue(userID, username string, tokenVersion int64, kind TokenKind, timeToLive time.Duration) (string, error) {
	currentTime := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:       userID,
		Username:     username,
		TokenVersion: tokenVersion,
		Kind:         kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(service.privateKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

/*
Verify checks the signature, expiry, and kind of a JWT string.

Description: Signature and expiry are enforced here. The token-version
equality check against the live user is the CALLER's responsibility; the
validator has no store access.

Parameters:
  - tokenString: The raw JWT string.
  - expectedKind: The kind the caller expects to receive.

Returns:
  - *AuthClaims: Decoded, verified claims.
  - err: Exactly one of ErrTokenMalformed, ErrTokenExpired,
    ErrTokenWrongKind, ErrTokenSignatureInvalid.
*/
func (service *TokenService) Verify(tokenString string, expectedKind TokenKind) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&AuthClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
			}
			return service.publicKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithTimeFunc(service.now),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	if claims.Kind != expectedKind {
		return nil, ErrTokenWrongKind
	}

	return claims, nil
}
