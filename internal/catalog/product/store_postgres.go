// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package product

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/velora-shop/velora/internal/platform/dberr"
	"github.com/velora-shop/velora/pkg/pagination"
)

// # Product Repository

// productColumns is the canonical select list for the catalog.product table.
const productColumns = `id, sku, slug, name, description, pricecents, currency, imageurl, categories, sizes, createdat, updatedat`

// PostgresProductRepository implements the ProductRepository interface using pgx.
type PostgresProductRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the ProductRepository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool}
}

/*
List returns one page of products, newest first, plus the total count.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*Product: One page of catalog items
  - int: Total number of products in the catalog
  - error: Retrieval failures
*/
func (repository *PostgresProductRepository) List(context context.Context, params pagination.Params) ([]*Product, int, error) {
	query := `
		SELECT ` + productColumns + `
		FROM catalog.product
		ORDER BY createdat DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_product_repo_list_failed: %w", err), "")
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM catalog.product`
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(fmt.Errorf("postgres_product_repo_count_failed: %w", err), "")
	}

	return products, total, nil
}

/*
ListAll returns every product in the catalog for facet aggregation.

Parameters:
  - context: context.Context

Returns:
  - []*Product: The full catalog, newest first
  - error: Retrieval failures
*/
func (repository *PostgresProductRepository) ListAll(context context.Context) ([]*Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM catalog.product
		ORDER BY createdat DESC, id DESC`

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_product_repo_list_all_failed: %w", err), "")
	}
	defer rows.Close()

	return scanProducts(rows)
}

/*
FindBySlug returns the product with the given canonical slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Product: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (repository *PostgresProductRepository) FindBySlug(context context.Context, slug string) (*Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM catalog.product
		WHERE slug = $1`

	product := &Product{}
	err := repository.pool.QueryRow(context, query, slug).Scan(
		&product.ID,
		&product.SKU,
		&product.Slug,
		&product.Name,
		&product.Description,
		&product.PriceCents,
		&product.Currency,
		&product.ImageURL,
		&product.Categories,
		&product.Sizes,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_product_repo_find_by_slug_failed: %w", err), "")
	}

	return product, nil
}

/*
Create persists a new catalog item.

Description: Uniqueness of SKU and slug is enforced by the table's unique
indexes and surfaces as a conflict.

Parameters:
  - context: context.Context
  - product: *Product

Returns:
  - error: apperr.Conflict on duplicate SKU or slug, or persistence failures
*/
func (repository *PostgresProductRepository) Create(context context.Context, product *Product) error {
	const query = `
		INSERT INTO catalog.product (
			id, sku, slug, name, description, pricecents, currency, imageurl, categories, sizes, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		product.ID,
		product.SKU,
		product.Slug,
		product.Name,
		product.Description,
		product.PriceCents,
		product.Currency,
		product.ImageURL,
		product.Categories,
		product.Sizes,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(
			fmt.Errorf("postgres_product_repo_create_failed: %w", err),
			"A product with this SKU or slug already exists",
		)
	}

	return nil
}

// scanProducts drains a result set into product entities.
func scanProducts(rows pgx.Rows) ([]*Product, error) {
	products := make([]*Product, 0)

	for rows.Next() {
		product := &Product{}
		err := rows.Scan(
			&product.ID,
			&product.SKU,
			&product.Slug,
			&product.Name,
			&product.Description,
			&product.PriceCents,
			&product.Currency,
			&product.ImageURL,
			&product.Categories,
			&product.Sizes,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(fmt.Errorf("postgres_product_repo_scan_failed: %w", err), "")
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(fmt.Errorf("postgres_product_repo_rows_failed: %w", err), "")
	}

	return products, nil
}
