// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package product

import (
	"context"
	"time"

	"github.com/velora-shop/velora/pkg/pagination"
)

// # Repository Contracts

// ProductRepository defines the data access contract for catalog items.
type ProductRepository interface {

	/*
		List returns one page of products plus the total catalog count.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params

		Returns:
		  - []*Product: One page, newest first
		  - int: Total number of products
		  - error: Retrieval failures
	*/
	List(context context.Context, params pagination.Params) ([]*Product, int, error)

	/*
		ListAll returns the entire catalog, used for facet aggregation.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Product: Every product
		  - error: Retrieval failures
	*/
	ListAll(context context.Context) ([]*Product, error)

	/*
		FindBySlug returns the product with the given canonical slug.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Product: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindBySlug(context context.Context, slug string) (*Product, error)

	/*
		Create persists a new catalog item.

		Parameters:
		  - context: context.Context
		  - product: *Product

		Returns:
		  - error: apperr.Conflict on duplicate SKU or slug, or persistence
		    failures
	*/
	Create(context context.Context, product *Product) error
}

// FacetsCache is the read-through cache contract for aggregated facets.
type FacetsCache interface {
	// Get returns the cached facets or apperr.NotFound on a miss.
	Get(context context.Context) (*Facets, error)

	// Set stores the facets with the given TTL. Failures are non-fatal for
	// callers; the aggregation result is still served.
	Set(context context.Context, facets *Facets, ttl time.Duration) error

	// Invalidate drops the cached facets after a catalog mutation.
	Invalidate(context context.Context) error
}
