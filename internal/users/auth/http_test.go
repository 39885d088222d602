// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package auth_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-shop/velora/internal/platform/constants"
	"github.com/velora-shop/velora/internal/platform/middleware"
	"github.com/velora-shop/velora/internal/platform/sec"
	"github.com/velora-shop/velora/internal/users/auth"
)

// newTestServer mounts the auth routes under /api/user the way the API
// server does, with the full authentication middleware chain.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tokenService := sec.NewTokenServiceFromKeys(privateKey, "velora.shop")
	repository := auth.NewMemoryUserRepository()
	service := auth.NewService(repository, tokenService)
	handler := auth.NewHandler(service)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokenService))
	router.Mount("/api/user", handler.Routes(tokenService))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// postJSON sends a JSON body with the given cookies and returns the response.
func postJSON(t *testing.T, url string, body any, cookies []*http.Cookie) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	request, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	require.NoError(t, err)
	request.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}

	response, err := http.DefaultTransport.RoundTrip(request)
	require.NoError(t, err)
	return response
}

// cookieByName finds a Set-Cookie entry in the response.
func cookieByName(response *http.Response, name string) *http.Cookie {
	for _, cookie := range response.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

/*
TestHTTP_Register_SetsSessionCookies verifies that registration returns the
user envelope and installs both session cookies with the expected scopes.
*/
func TestHTTP_Register_SetsSessionCookies(t *testing.T) {
	server := newTestServer(t)

	response := postJSON(t, server.URL+"/api/user/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password-one",
	}, nil)
	defer response.Body.Close()

	require.Equal(t, http.StatusOK, response.StatusCode)

	var envelope struct {
		Data struct {
			User struct {
				ID       string `json:"id"`
				Username string `json:"username"`
				Email    string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
	assert.Equal(t, "alice", envelope.Data.User.Username)
	assert.NotEmpty(t, envelope.Data.User.ID)

	accessCookie := cookieByName(response, constants.AccessTokenCookieName)
	require.NotNil(t, accessCookie)
	assert.True(t, accessCookie.HttpOnly)
	assert.Equal(t, "/", accessCookie.Path)
	assert.True(t, accessCookie.Expires.IsZero(), "access cookie is a browser-session cookie")

	refreshCookie := cookieByName(response, constants.RefreshTokenCookieName)
	require.NotNil(t, refreshCookie)
	assert.True(t, refreshCookie.HttpOnly)
	assert.Equal(t, constants.RefreshTokenCookiePath, refreshCookie.Path)
	assert.False(t, refreshCookie.Expires.IsZero(), "refresh cookie carries an expiry")
}

/*
TestHTTP_Register_Validation rejects weak and malformed inputs before any
domain logic runs.
*/
func TestHTTP_Register_Validation(t *testing.T) {
	server := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"short_password", map[string]string{"username": "alice", "email": "alice@example.com", "password": "short"}},
		{"bad_email", map[string]string{"username": "alice", "email": "not-an-email", "password": "password-one"}},
		{"short_username", map[string]string{"username": "al", "email": "alice@example.com", "password": "password-one"}},
		{"missing_fields", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := postJSON(t, server.URL+"/api/user/register", tt.body, nil)
			defer response.Body.Close()
			assert.Equal(t, http.StatusBadRequest, response.StatusCode)
		})
	}
}

/*
TestHTTP_Login_InvalidCredentials verifies the 401 path and that no cookies
are installed on failure.
*/
func TestHTTP_Login_InvalidCredentials(t *testing.T) {
	server := newTestServer(t)

	registerResponse := postJSON(t, server.URL+"/api/user/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password-one",
	}, nil)
	registerResponse.Body.Close()

	response := postJSON(t, server.URL+"/api/user/login", map[string]string{
		"email":    "alice@example.com",
		"password": "not-her-password",
	}, nil)
	defer response.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	assert.Nil(t, cookieByName(response, constants.AccessTokenCookieName))
	assert.Nil(t, cookieByName(response, constants.RefreshTokenCookieName))
}

/*
TestHTTP_Refresh_RotatesCookies drives the refresh endpoint with the cookie
obtained at registration and expects a fresh pair.
*/
func TestHTTP_Refresh_RotatesCookies(t *testing.T) {
	server := newTestServer(t)

	registerResponse := postJSON(t, server.URL+"/api/user/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password-one",
	}, nil)
	registerResponse.Body.Close()

	refreshCookie := cookieByName(registerResponse, constants.RefreshTokenCookieName)
	require.NotNil(t, refreshCookie)

	response := postJSON(t, server.URL+"/api/user/refresh", map[string]string{},
		[]*http.Cookie{refreshCookie})
	defer response.Body.Close()

	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.NotNil(t, cookieByName(response, constants.AccessTokenCookieName))
	assert.NotNil(t, cookieByName(response, constants.RefreshTokenCookieName))
}

/*
TestHTTP_Refresh_RejectsBadTokens covers the missing-cookie and wrong-kind
failure modes of the refresh endpoint.
*/
func TestHTTP_Refresh_RejectsBadTokens(t *testing.T) {
	server := newTestServer(t)

	registerResponse := postJSON(t, server.URL+"/api/user/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password-one",
	}, nil)
	registerResponse.Body.Close()

	accessCookie := cookieByName(registerResponse, constants.AccessTokenCookieName)
	require.NotNil(t, accessCookie)

	t.Run("missing_cookie", func(t *testing.T) {
		response := postJSON(t, server.URL+"/api/user/refresh", map[string]string{}, nil)
		defer response.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	})

	t.Run("access_token_in_refresh_cookie", func(t *testing.T) {
		// An access token smuggled into the refresh cookie must be rejected
		// by the kind check even though its signature verifies.
		forged := &http.Cookie{
			Name:  constants.RefreshTokenCookieName,
			Value: accessCookie.Value,
		}
		response := postJSON(t, server.URL+"/api/user/refresh", map[string]string{},
			[]*http.Cookie{forged})
		defer response.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	})

	t.Run("garbage_cookie", func(t *testing.T) {
		forged := &http.Cookie{
			Name:  constants.RefreshTokenCookieName,
			Value: "not.a.jwt",
		}
		response := postJSON(t, server.URL+"/api/user/refresh", map[string]string{},
			[]*http.Cookie{forged})
		defer response.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	})
}

/*
TestHTTP_Logout_ClearsCookies verifies that logout answers with the
confirmation message and expires both cookies.
*/
func TestHTTP_Logout_ClearsCookies(t *testing.T) {
	server := newTestServer(t)

	response := postJSON(t, server.URL+"/api/user/logout", map[string]string{}, nil)
	defer response.Body.Close()

	require.Equal(t, http.StatusOK, response.StatusCode)

	var envelope struct {
		Data struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(response.Body).Decode(&envelope))
	assert.Equal(t, "Logout success", envelope.Data.Message)

	accessCookie := cookieByName(response, constants.AccessTokenCookieName)
	require.NotNil(t, accessCookie)
	assert.Less(t, accessCookie.MaxAge, 0)

	refreshCookie := cookieByName(response, constants.RefreshTokenCookieName)
	require.NotNil(t, refreshCookie)
	assert.Less(t, refreshCookie.MaxAge, 0)
}

/*
TestHTTP_ChangePassword covers the authenticated credential rotation flow:
the old refresh token stops working once the password changed.
*/
func TestHTTP_ChangePassword(t *testing.T) {
	server := newTestServer(t)

	registerResponse := postJSON(t, server.URL+"/api/user/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "password-one",
	}, nil)
	registerResponse.Body.Close()

	accessCookie := cookieByName(registerResponse, constants.AccessTokenCookieName)
	refreshCookie := cookieByName(registerResponse, constants.RefreshTokenCookieName)
	require.NotNil(t, accessCookie)
	require.NotNil(t, refreshCookie)

	t.Run("requires_authentication", func(t *testing.T) {
		response := postJSON(t, server.URL+"/api/user/change-password", map[string]string{
			"current_password": "password-one",
			"new_password":     "password-two",
		}, nil)
		defer response.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
	})

	t.Run("rotates_and_supersedes", func(t *testing.T) {
		response := postJSON(t, server.URL+"/api/user/change-password", map[string]string{
			"current_password": "password-one",
			"new_password":     "password-two",
		}, []*http.Cookie{accessCookie})
		defer response.Body.Close()
		require.Equal(t, http.StatusOK, response.StatusCode)

		// The pre-change refresh token carries a stale version snapshot.
		refreshResponse := postJSON(t, server.URL+"/api/user/refresh", map[string]string{},
			[]*http.Cookie{refreshCookie})
		defer refreshResponse.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, refreshResponse.StatusCode)

		// Logging in with the new password opens a fresh session.
		loginResponse := postJSON(t, server.URL+"/api/user/login", map[string]string{
			"email":    "alice@example.com",
			"password": "password-two",
		}, nil)
		defer loginResponse.Body.Close()
		assert.Equal(t, http.StatusOK, loginResponse.StatusCode)
	})
}
