// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

// Package middleware provides the HTTP middleware chain for the Velora API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthZ/AuthN, Rate Limiting, and CORS.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/velora-shop/velora/internal/platform/apperr"
	"github.com/velora-shop/velora/internal/platform/constants"
	"github.com/velora-shop/velora/internal/platform/ctxutil"
	"github.com/velora-shop/velora/internal/platform/respond"
	"github.com/velora-shop/velora/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenService], allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	Verify(tokenString string, expectedKind sec.TokenKind) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the access token from the request.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header, falling back to the
//     httpOnly 'token' cookie the storefront client carries.
//  2. If absent, request proceeds as anonymous.
//  3. If present, verify the JWT as an ACCESS token via [TokenVerifier].
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
//
// Token-version equality against the live user is NOT checked here: handlers
// that mutate credentials or mint new tokens perform that check against the
// store, which keeps this middleware free of database reads.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tokenString, ok := accessTokenFromRequest(request)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if !ok {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.Verify(tokenString, sec.TokenKindAccess)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// AuthenticateRefresh validates the refresh-token cookie and attaches the
// verified claims to the request context.
//
// # Contract
//
// The session core's Refresh operation takes an ALREADY-AUTHENTICATED
// identity, never a raw token. This middleware is the transport adapter that
// performs the raw validation (signature, expiry, kind=refresh) up front;
// the core only re-checks the token version against the live user record.
// Requests without a valid refresh cookie are rejected with 401.
func AuthenticateRefresh(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			cookie, err := request.Cookie(constants.RefreshTokenCookieName)
			if err != nil || cookie.Value == "" {
				respond.Error(writer, request, apperr.Unauthorized("Missing refresh token"))
				return
			}

			claims, err := verifier.Verify(cookie.Value, sec.TokenKindRefresh)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired refresh token"))
				return
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := GetUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// GetUser retrieves the [*sec.AuthClaims] from the [context.Context].
//
// # Returns
//   - A pointer to [*sec.AuthClaims] if the user is authenticated.
//   - nil if the user is anonymous.
func GetUser(ctx context.Context) *sec.AuthClaims {
	return ctxutil.GetAuthUser(ctx)
}

// accessTokenFromRequest resolves the presented access token.
// Header takes precedence over the cookie so API clients can override a
// stale browser cookie.
func accessTokenFromRequest(request *http.Request) (string, bool) {
	authHeader := request.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1], true
		}
		return "", false
	}

	cookie, err := request.Cookie(constants.AccessTokenCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
