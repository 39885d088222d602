// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package product_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-shop/velora/internal/catalog/product"
	"github.com/velora-shop/velora/internal/platform/apperr"
	"github.com/velora-shop/velora/pkg/pagination"
)

// stubFacetsCache is a map-free FacetsCache recording interactions.
type stubFacetsCache struct {
	mu     sync.Mutex
	stored *product.Facets
	sets   int
	gets   int
}

func (cache *stubFacetsCache) Get(_ context.Context) (*product.Facets, error) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.gets++
	if cache.stored == nil {
		return nil, apperr.NotFound("Cached facets")
	}
	return cache.stored, nil
}

func (cache *stubFacetsCache) Set(_ context.Context, facets *product.Facets, _ time.Duration) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.sets++
	cache.stored = facets
	return nil
}

func (cache *stubFacetsCache) Invalidate(_ context.Context) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.stored = nil
	return nil
}

func newCatalog(t *testing.T) (*product.Service, *stubFacetsCache) {
	t.Helper()

	repository := product.NewMemoryProductRepository()
	cache := &stubFacetsCache{}
	service := product.NewService(repository, cache)

	seed := []product.CreateProductInput{
		{SKU: "VLR-001", Name: "Linen Oversize Shirt", PriceCents: 4900, Currency: "USD",
			Categories: []string{"shirts", "linen"}, Sizes: []string{"S", "M", "L"}},
		{SKU: "VLR-002", Name: "Classic White Tee", PriceCents: 1900, Currency: "USD",
			Categories: []string{"shirts"}, Sizes: []string{"M", "L"}},
		{SKU: "VLR-003", Name: "Wide Leg Trousers", PriceCents: 5900, Currency: "USD",
			Categories: []string{"trousers", "linen"}, Sizes: []string{"L"}},
	}
	for _, input := range seed {
		_, err := service.CreateProduct(context.Background(), input)
		require.NoError(t, err)
	}

	return service, cache
}

/*
TestService_ListProducts pages through the catalog newest first.
*/
func TestService_ListProducts(t *testing.T) {
	service, _ := newCatalog(t)

	page, meta, err := service.ListProducts(context.Background(), pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "wide-leg-trousers", page[0].Slug, "newest product comes first")
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 2, meta.TotalPages)

	last, _, err := service.ListProducts(context.Background(), pagination.Params{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "linen-oversize-shirt", last[0].Slug)
}

/*
TestService_GetBySlug_NormalizesInput resolves mixed-case and spaced path
segments to the canonical slug.
*/
func TestService_GetBySlug_NormalizesInput(t *testing.T) {
	service, _ := newCatalog(t)

	tests := []struct {
		name string
		raw  string
	}{
		{"canonical", "linen-oversize-shirt"},
		{"mixed_case", "Linen-Oversize-Shirt"},
		{"spaces", "Linen Oversize Shirt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := service.GetBySlug(context.Background(), tt.raw)
			require.NoError(t, err)
			assert.Equal(t, "VLR-001", found.SKU)
		})
	}

	_, err := service.GetBySlug(context.Background(), "does-not-exist")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_GetFacets_CacheAside verifies the miss-aggregate-store flow and
that subsequent reads hit the cache.
*/
func TestService_GetFacets_CacheAside(t *testing.T) {
	service, cache := newCatalog(t)
	cache.stored = nil // creates invalidated it during seeding

	first, err := service.GetFacets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "miss populates the cache")

	assert.ElementsMatch(t, []product.Facet{
		{Name: "shirts", Quantity: 2},
		{Name: "linen", Quantity: 2},
		{Name: "trousers", Quantity: 1},
	}, first.Categories)

	second, err := service.GetFacets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "hit does not re-aggregate")
	assert.Equal(t, first, second)
}

/*
TestService_CreateProduct_InvalidatesFacets drops the cached counts so the
sidebar picks up new categories on the next read.
*/
func TestService_CreateProduct_InvalidatesFacets(t *testing.T) {
	service, cache := newCatalog(t)

	_, err := service.GetFacets(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cache.stored)

	created, err := service.CreateProduct(context.Background(), product.CreateProductInput{
		SKU: "VLR-004", Name: "Denim Jacket", PriceCents: 8900, Currency: "USD",
		Categories: []string{"jackets"}, Sizes: []string{"M"},
	})
	require.NoError(t, err)
	assert.Equal(t, "denim-jacket", created.Slug)
	assert.Nil(t, cache.stored, "mutation invalidates the cache")

	facets, err := service.GetFacets(context.Background())
	require.NoError(t, err)
	assert.Contains(t, facets.Categories, product.Facet{Name: "jackets", Quantity: 1})
}

/*
TestService_CreateProduct_DuplicateSKU surfaces a conflict.
*/
func TestService_CreateProduct_DuplicateSKU(t *testing.T) {
	service, _ := newCatalog(t)

	_, err := service.CreateProduct(context.Background(), product.CreateProductInput{
		SKU: "VLR-001", Name: "Another Shirt", PriceCents: 1000, Currency: "USD",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}
