// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package product

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/velora-shop/velora/internal/platform/ctxutil"
	"github.com/velora-shop/velora/pkg/pagination"
	"github.com/velora-shop/velora/pkg/slug"
	"github.com/velora-shop/velora/pkg/uuid"
)

// # Service Layer

// Service orchestrates catalog reads and the facet cache.
type Service struct {
	productRepository ProductRepository
	facetsCache       FacetsCache
}

// NewService constructs a new [Service] with its dependencies.
func NewService(productRepo ProductRepository, cache FacetsCache) *Service {
	return &Service{
		productRepository: productRepo,
		facetsCache:       cache,
	}
}

/*
ListProducts returns one page of the catalog plus pagination metadata.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*Product: One page, newest first
  - pagination.Meta: Page metadata for the response envelope
  - error: Retrieval failures
*/
func (service *Service) ListProducts(context context.Context, params pagination.Params) ([]*Product, pagination.Meta, error) {
	products, total, err := service.productRepository.List(context, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("product_service_list_failed: %w", err)
	}

	return products, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
GetBySlug returns a single product by its URL slug.

Description: The raw path segment is normalized through the slug pipeline
first, so "Linen-Oversize-Shirt" resolves the same product as
"linen-oversize-shirt".

Parameters:
  - context: context.Context
  - rawSlug: string (Raw URL path segment)

Returns:
  - *Product: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetBySlug(context context.Context, rawSlug string) (*Product, error) {
	return service.productRepository.FindBySlug(context, slug.From(rawSlug))
}

/*
GetFacets returns the category and size counts for the filter sidebar.

Description: Cache-aside. On a miss the whole catalog is aggregated and the
result written back with [FacetsCacheTTL]. Cache write failures are logged
and swallowed; the fresh aggregation is still served.

Parameters:
  - context: context.Context

Returns:
  - *Facets: Category and size counts
  - error: Aggregation or retrieval failures
*/
func (service *Service) GetFacets(context context.Context) (*Facets, error) {
	log := ctxutil.GetLogger(context)

	cached, err := service.facetsCache.Get(context)
	if err == nil {
		return cached, nil
	}

	products, err := service.productRepository.ListAll(context)
	if err != nil {
		return nil, fmt.Errorf("product_service_facets_failed: %w", err)
	}

	facets := AggregateFacets(products)

	if err := service.facetsCache.Set(context, facets, FacetsCacheTTL); err != nil {
		log.Warn("facets_cache_write_failed", slog.String("error", err.Error()))
	}

	return facets, nil
}

// CreateProductInput holds the data required to add a catalog item.
type CreateProductInput struct {
	SKU         string
	Name        string
	Description string
	PriceCents  int64
	Currency    string
	ImageURL    string
	Categories  []string
	Sizes       []string
}

/*
CreateProduct adds a new item to the catalog.

Description: The slug is derived from the name, never supplied by the
client. The facet cache is invalidated so the sidebar reflects the new
categories and sizes on the next read.

Parameters:
  - context: context.Context
  - input: CreateProductInput

Returns:
  - *Product: The persisted entity
  - error: apperr.Conflict on duplicate SKU or slug, or persistence failures
*/
func (service *Service) CreateProduct(context context.Context, input CreateProductInput) (*Product, error) {
	log := ctxutil.GetLogger(context)

	product := &Product{
		ID:          uuid.New(),
		SKU:         input.SKU,
		Slug:        slug.From(input.Name),
		Name:        input.Name,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		Currency:    input.Currency,
		ImageURL:    input.ImageURL,
		Categories:  input.Categories,
		Sizes:       input.Sizes,
	}

	if err := service.productRepository.Create(context, product); err != nil {
		return nil, err
	}

	if err := service.facetsCache.Invalidate(context); err != nil {
		log.Warn("facets_cache_invalidate_failed", slog.String("error", err.Error()))
	}

	log.Info("product_created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}
