// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package product

import (
	"context"
	"sync"
	"time"

	"github.com/velora-shop/velora/internal/platform/apperr"
	"github.com/velora-shop/velora/pkg/pagination"
)

// # In-Memory Repository

// MemoryProductRepository is a slice-backed [ProductRepository] for unit
// tests and local development without Postgres. Insertion order is newest
// first, matching the SQL implementation's ordering.
type MemoryProductRepository struct {
	mu       sync.Mutex
	products []*Product
}

// NewMemoryProductRepository creates an empty in-memory product repository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{}
}

// List returns one page of products plus the total count.
func (repository *MemoryProductRepository) List(_ context.Context, params pagination.Params) ([]*Product, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	total := len(repository.products)
	start := params.Offset()
	if start >= total {
		return []*Product{}, total, nil
	}

	end := start + params.Limit
	if end > total {
		end = total
	}

	page := make([]*Product, 0, end-start)
	for _, product := range repository.products[start:end] {
		page = append(page, copyProduct(product))
	}
	return page, total, nil
}

// ListAll returns every stored product.
func (repository *MemoryProductRepository) ListAll(_ context.Context) ([]*Product, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	all := make([]*Product, 0, len(repository.products))
	for _, product := range repository.products {
		all = append(all, copyProduct(product))
	}
	return all, nil
}

// FindBySlug returns the product with the given slug.
func (repository *MemoryProductRepository) FindBySlug(_ context.Context, slug string) (*Product, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, product := range repository.products {
		if product.Slug == slug {
			return copyProduct(product), nil
		}
	}
	return nil, apperr.NotFound("Product")
}

// Create stores a new product, enforcing SKU and slug uniqueness.
func (repository *MemoryProductRepository) Create(_ context.Context, product *Product) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.products {
		if existing.SKU == product.SKU || existing.Slug == product.Slug {
			return apperr.Conflict("A product with this SKU or slug already exists")
		}
	}

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	// Newest first.
	repository.products = append([]*Product{copyProduct(product)}, repository.products...)
	return nil
}

// copyProduct returns a detached copy, including the slices.
func copyProduct(product *Product) *Product {
	clone := *product
	clone.Categories = append([]string(nil), product.Categories...)
	clone.Sizes = append([]string(nil), product.Sizes...)
	return &clone
}
