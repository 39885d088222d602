// Copyright (c) 2026 Velora. All rights reserved.
// Author: minh.levan.dev@gmail.com

package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/velora-shop/velora/internal/platform/apperr"
	"github.com/velora-shop/velora/internal/platform/constants"
)

// # Facets Cache

// FacetsCacheTTL bounds how stale the sidebar counts may get. The
// aggregation walks the whole catalog, so it is worth a short cache.
const FacetsCacheTTL = 5 * time.Minute

// RedisFacetsCache implements [FacetsCache] on a shared Redis instance.
type RedisFacetsCache struct {
	client *redis.Client
}

// NewRedisFacetsCache creates a Redis-backed facets cache.
func NewRedisFacetsCache(client *redis.Client) *RedisFacetsCache {
	return &RedisFacetsCache{client: client}
}

/*
Get retrieves the cached facet counts.

Description: Returns apperr.NotFound on a cache miss so callers fall back to
aggregation; any other failure is surfaced as-is.

Parameters:
  - context: context.Context

Returns:
  - *Facets: Decoded cached aggregation
  - error: apperr.NotFound on miss, or connectivity errors
*/
func (cache *RedisFacetsCache) Get(context context.Context) (*Facets, error) {
	payload, err := cache.client.Get(context, constants.RedisPrefixFacets).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Cached facets")
		}
		return nil, fmt.Errorf("redis_facets_cache_get_failed: %w", err)
	}

	facets := &Facets{}
	if err := json.Unmarshal(payload, facets); err != nil {
		// A corrupt entry behaves like a miss; the writer will overwrite it.
		return nil, apperr.NotFound("Cached facets")
	}

	return facets, nil
}

/*
Set stores the facet counts with a TTL.

Parameters:
  - context: context.Context
  - facets: *Facets
  - ttl: time.Duration

Returns:
  - error: Serialization or storage failures
*/
func (cache *RedisFacetsCache) Set(context context.Context, facets *Facets, ttl time.Duration) error {
	payload, err := json.Marshal(facets)
	if err != nil {
		return fmt.Errorf("redis_facets_cache_marshal_failed: %w", err)
	}

	if err := cache.client.Set(context, constants.RedisPrefixFacets, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_facets_cache_set_failed: %w", err)
	}

	return nil
}

/*
Invalidate drops the cached facets after a catalog mutation.

Parameters:
  - context: context.Context

Returns:
  - error: Deletion failures
*/
func (cache *RedisFacetsCache) Invalidate(context context.Context) error {
	if err := cache.client.Del(context, constants.RedisPrefixFacets).Err(); err != nil {
		return fmt.Errorf("redis_facets_cache_invalidate_failed: %w", err)
	}
	return nil
}
