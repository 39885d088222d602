// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package product

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velora-shop/velora/internal/platform/middleware"
	requestutil "github.com/velora-shop/velora/internal/platform/request"
	"github.com/velora-shop/velora/internal/platform/respond"
	"github.com/velora-shop/velora/internal/platform/validate"
	"github.com/velora-shop/velora/pkg/pagination"
)

// # Field Identifiers

const (
	fieldSKU        = "sku"
	fieldName       = "name"
	fieldPriceCents = "price_cents"
	fieldCurrency   = "currency"
	fieldSlug       = "slug"
)

// # Definitions & Constructors

// Handler implements the catalog HTTP endpoints.
type Handler struct {
	productService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{productService: service}
}

// Routes returns a [chi.Router] configured with catalog routes.
//
// # Endpoints
//   - GET /         : Paginated product listing.
//   - GET /facets   : Category and size counts for the filter sidebar.
//   - GET /{slug}   : Single product by slug.
//   - POST /        : Adds a product (authenticated).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/facets", handler.facets)
	router.Get("/{slug}", handler.getBySlug)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
	})

	return router
}

// # Request Payloads

type createProductRequest struct {
	SKU         string   `json:"sku"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PriceCents  int64    `json:"price_cents"`
	Currency    string   `json:"currency"`
	ImageURL    string   `json:"image_url"`
	Categories  []string `json:"categories"`
	Sizes       []string `json:"sizes"`
}

/*
List returns one page of the catalog.

GET /api/products?page=1&limit=20

Response:
  - 200: []Product plus pagination metadata
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	products, meta, err := handler.productService.ListProducts(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, products, meta)
}

/*
Facets returns the category and size counts for the filter sidebar.

GET /api/products/facets

Response:
  - 200: Facets: Category and size counts
*/
func (handler *Handler) facets(writer http.ResponseWriter, request *http.Request) {
	facets, err := handler.productService.GetFacets(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, facets)
}

/*
GetBySlug returns a single product.

GET /api/products/{slug}

Response:
  - 200: Product
  - 404: ErrNotFound: Unknown slug
*/
func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	rawSlug := requestutil.Param(request, fieldSlug)

	product, err := handler.productService.GetBySlug(request.Context(), rawSlug)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

/*
Create adds a new product to the catalog.

POST /api/products

Request:
  - Body: createProductRequest

Response:
  - 201: Product: Persisted entity with derived slug
  - 400: ErrInvalidJSON: Validation failure
  - 401: ErrUnauthorized: Authentication required
  - 409: ErrConflict: Duplicate SKU or slug
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createProductRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(fieldSKU, input.SKU).
		Required(fieldName, input.Name).
		MaxLen(fieldName, input.Name, 200).
		Required(fieldCurrency, input.Currency).
		Custom(fieldPriceCents, input.PriceCents < 0, "Must not be negative")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.productService.CreateProduct(request.Context(), CreateProductInput{
		SKU:         input.SKU,
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Currency:    input.Currency,
		ImageURL:    input.ImageURL,
		Categories:  input.Categories,
		Sizes:       input.Sizes,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, product)
}
