// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velora-shop/velora/internal/platform/middleware"
	requestutil "github.com/velora-shop/velora/internal/platform/request"
	"github.com/velora-shop/velora/internal/platform/respond"
	"github.com/velora-shop/velora/internal/platform/validate"
	"github.com/velora-shop/velora/internal/users/auth"
	"github.com/velora-shop/velora/pkg/pointer"
)

// # Definitions & Constructors

// Handler implements the profile HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with profile routes.
//
// # Endpoints
//   - GET /  : Returns the authenticated user's profile.
//   - PUT /  : Partially updates the profile.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", handler.getProfile)
		r.Put("/", handler.updateProfile)
	})

	return router
}

// # Request Payloads

// updateProfileRequest uses pointer fields so "absent" and "set to empty"
// are distinguishable. There are no email or username fields here.
type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

/*
GetProfile returns the authenticated user's private profile.

GET /api/user/profile

Response:
  - 200: User: Full profile
  - 401: ErrUnauthorized: Missing, invalid, or superseded token
*/
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetProfile(request.Context(), auth.Identity{
		UserID:       claims.UserID,
		TokenVersion: claims.TokenVersion,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		auth.FieldUser: user,
	})
}

/*
UpdateProfile partially updates the authenticated user's profile.

PUT /api/user/profile

Description: Accepts any subset of first name, last name, phone, and
address. Omitted fields keep their stored value.

Request:
  - Body: updateProfileRequest

Response:
  - 200: User: Updated profile
  - 400: ErrInvalidJSON: Validation failure
  - 401: ErrUnauthorized: Missing, invalid, or superseded token
*/
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateProfileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.MaxLen(auth.FieldFirstName, pointer.Val(input.FirstName), 100).
		MaxLen(auth.FieldLastName, pointer.Val(input.LastName), 100).
		MaxLen(auth.FieldAddress, pointer.Val(input.Address), 500)

	if input.Phone != nil {
		validator.Phone(auth.FieldPhone, *input.Phone)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateProfile(request.Context(),
		auth.Identity{
			UserID:       claims.UserID,
			TokenVersion: claims.TokenVersion,
		},
		UpdateProfileInput{
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Phone:     input.Phone,
			Address:   input.Address,
		},
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		auth.FieldUser: user,
	})
}
