// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package product_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/velora-shop/velora/internal/catalog/product"
)

/*
TestAggregateFacets counts category and size occurrences across the catalog
and preserves first-seen order.
*/
func TestAggregateFacets(t *testing.T) {
	products := []*product.Product{
		{Categories: []string{"shirts", "linen"}, Sizes: []string{"S", "M", "L"}},
		{Categories: []string{"shirts"}, Sizes: []string{"M", "L"}},
		{Categories: []string{"trousers", "linen"}, Sizes: []string{"L"}},
	}

	facets := product.AggregateFacets(products)

	assert.Equal(t, []product.Facet{
		{Name: "shirts", Quantity: 2},
		{Name: "linen", Quantity: 2},
		{Name: "trousers", Quantity: 1},
	}, facets.Categories)

	assert.Equal(t, []product.Facet{
		{Name: "S", Quantity: 1},
		{Name: "M", Quantity: 2},
		{Name: "L", Quantity: 3},
	}, facets.Sizes)
}

/*
TestAggregateFacets_EmptyCatalog returns empty (not nil) slices so the JSON
response stays an array.
*/
func TestAggregateFacets_EmptyCatalog(t *testing.T) {
	facets := product.AggregateFacets(nil)

	assert.NotNil(t, facets.Categories)
	assert.NotNil(t, facets.Sizes)
	assert.Empty(t, facets.Categories)
	assert.Empty(t, facets.Sizes)
}

/*
TestAggregateFacets_DuplicateValueOnOneProduct counts a value repeated on a
single product once per occurrence, matching the storefront's sidebar
semantics of counting matching entries.
*/
func TestAggregateFacets_DuplicateValueOnOneProduct(t *testing.T) {
	products := []*product.Product{
		{Categories: []string{"shirts", "shirts"}},
	}

	facets := product.AggregateFacets(products)

	assert.Equal(t, []product.Facet{{Name: "shirts", Quantity: 2}}, facets.Categories)
}
