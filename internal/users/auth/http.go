// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velora-shop/velora/internal/platform/constants"
	"github.com/velora-shop/velora/internal/platform/middleware"
	requestutil "github.com/velora-shop/velora/internal/platform/request"
	"github.com/velora-shop/velora/internal/platform/respond"
	"github.com/velora-shop/velora/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the session lifecycle entry points (Registration,
// Login, Refresh, Logout, Password change). It owns the cookie protocol: the
// access token travels in a session cookie, the refresh token in a scoped
// persistent cookie. Domain logic stays in [Service].
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account and opens a session.
//   - POST /login    : Authenticates and opens a session.
//   - POST /refresh  : Rotates an authenticated session.
//   - POST /logout   : Clears session cookies.
func (handler *Handler) Routes(tokenVerifier middleware.TokenVerifier) chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)

	// Refresh authenticates with the refresh cookie, not the access token.
	router.With(middleware.AuthenticateRefresh(tokenVerifier)).
		Post("/refresh", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*
Register handles the creation of a new user account.

POST /api/user/register

Description: Validates input, persists a new user profile, and opens a
session immediately by setting both session cookies.

Request:
  - Body: registerRequest (Username, Email, Password)

Response:
  - 200: User: Created user profile, cookies set
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Username or Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, MinUsernameLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setSessionCookies(writer, session.Tokens)
	respond.OK(writer, map[string]any{
		FieldUser: session.User,
	})
}

/*
Login authenticates a user and establishes a session.

POST /api/user/login

Description: Verifies credentials and injects the access token session
cookie plus the scoped refresh token cookie into the response.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: User: Authenticated user profile, cookies set
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setSessionCookies(writer, session.Tokens)
	respond.OK(writer, map[string]any{
		FieldUser: session.User,
	})
}

/*
Refresh rotates the session of the authenticated caller.

POST /api/user/refresh

Description: The refresh-token middleware has already validated the cookie's
signature, expiry, and kind. This handler forwards the extracted identity to
the service, which re-checks the token version against the live account, and
replaces both cookies on success.

Response:
  - 200: User: Profile plus rotated session cookies
  - 401: ErrUnauthorized: Missing, invalid, or superseded refresh token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Refresh(request.Context(), Identity{
		UserID:       claims.UserID,
		TokenVersion: claims.TokenVersion,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setSessionCookies(writer, session.Tokens)
	respond.OK(writer, map[string]any{
		FieldUser: session.User,
	})
}

/*
Logout terminates the current browser session.

POST /api/user/logout

Description: Sessions are not stored server-side, so logout is purely a
cookie clearing operation. Tokens already issued stay valid until expiry or
until a password change supersedes them.

Response:
  - 200: Message: Logout confirmation
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	clearSessionCookies(writer)

	respond.OK(writer, map[string]string{
		FieldMessage: "Logout success",
	})
}

/*
ChangePassword updates the authenticated user's password.

POST /api/user/change-password

Description: Verifies the current password before applying the new one. The
repository bumps the token version alongside the hash, so every outstanding
token (including the pair backing this very request) is superseded; a fresh
login is required afterwards.

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Message: Password changed, cookies cleared
  - 400: ErrInvalidJSON: Weak password or validation failure
  - 401: ErrUnauthorized: Session invalid or wrong current password
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.authService.ChangePassword(
		request.Context(),
		claims.UserID,
		input.CurrentPassword,
		input.NewPassword,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The caller's own tokens are superseded now, clear them.
	clearSessionCookies(writer)
	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully, please log in again",
	})
}

// # Cookie Protocol

// setSessionCookies writes both halves of the session to the client.
//
// The access token rides a browser-session cookie scoped to the whole site.
// The refresh token is persistent but scoped down to the user API prefix so
// it is only ever sent to the endpoints that can use it.
func setSessionCookies(writer http.ResponseWriter, tokens TokenPair) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    tokens.AccessToken,
		Path:     "/",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    tokens.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  tokens.RefreshExpiresAt,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookies expires both session cookies on the client.
func clearSessionCookies(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
