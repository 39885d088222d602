// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

/*
Package product implements the storefront catalog.

It serves the product listing, single-product lookup by slug, and the
category/size facet counts the storefront sidebar renders.

# Architecture

  - Entities: Product, Facet, Facets.
  - Storage: PostgreSQL via pgx; categories and sizes are text arrays.
  - Cache: Facet counts are aggregated over the whole catalog and are
    therefore cached in Redis with a short TTL (cache-aside).
*/
package product

import (
	"time"
)

// # Domain Entities

// Product represents a single sellable item in the catalog.
type Product struct {
	ID          string    `json:"id"`
	SKU         string    `json:"sku"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	// PriceCents is the price in the currency's minor unit. Integer math
	// only; the storefront formats it for display.
	PriceCents  int64     `json:"price_cents"`
	Currency    string    `json:"currency"`
	ImageURL    string    `json:"image_url,omitempty"`
	Categories  []string  `json:"categories"`
	Sizes       []string  `json:"sizes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Facet is one filterable value and the number of products carrying it.
type Facet struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Facets groups the sidebar filter counts for the storefront.
type Facets struct {
	Categories []Facet `json:"categories"`
	Sizes      []Facet `json:"sizes"`
}

// # Facet Aggregation

// AggregateFacets counts category and size occurrences across the catalog.
//
// A product carrying a value twice counts twice; the storefront treats the
// quantity as "matching entries", not distinct products. Output preserves
// first-seen order so the sidebar stays stable between reloads.
func AggregateFacets(products []*Product) *Facets {
	return &Facets{
		Categories: countOccurrences(products, func(p *Product) []string { return p.Categories }),
		Sizes:      countOccurrences(products, func(p *Product) []string { return p.Sizes }),
	}
}

// countOccurrences tallies values selected from each product, keeping
// first-seen order.
func countOccurrences(products []*Product, selector func(*Product) []string) []Facet {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, product := range products {
		for _, value := range selector(product) {
			if _, seen := counts[value]; !seen {
				order = append(order, value)
			}
			counts[value]++
		}
	}

	facets := make([]Facet, 0, len(order))
	for _, name := range order {
		facets = append(facets, Facet{Name: name, Quantity: counts[name]})
	}
	return facets
}
