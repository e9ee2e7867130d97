// Package cache memoizes sightings queries keyed by the canonical filter.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
	"github.com/couchcryptid/ufo-sightings/internal/observability"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const boundsKey = "bounds"

// loadTimeout bounds a shared load once it no longer follows its first caller.
const loadTimeout = 30 * time.Second

// CachedStore wraps a SightingQuerier with an in-memory LRU cache. Identical
// concurrent misses share one underlying query. Errors are never cached so a
// store that recovers is picked up on the next request.
type CachedStore struct {
	inner   domain.SightingQuerier
	entries *lru.Cache[string, any]
	group   singleflight.Group
	metrics *observability.Metrics
}

// New creates a cache decorator holding at most size results.
func New(inner domain.SightingQuerier, size int, metrics *observability.Metrics) (*CachedStore, error) {
	entries, err := lru.New[string, any](size)
	if err != nil {
		return nil, fmt.Errorf("create query cache: %w", err)
	}
	return &CachedStore{inner: inner, entries: entries, metrics: metrics}, nil
}

func (c *CachedStore) Bounds(ctx context.Context) (domain.Bounds, error) {
	return lookup(ctx, c, "bounds", boundsKey, func(ctx context.Context) (domain.Bounds, error) {
		return c.inner.Bounds(ctx)
	})
}

func (c *CachedStore) CountryOptions(ctx context.Context, f domain.Filter) (domain.CountryOptions, error) {
	scope := f.RangeScope()
	return lookup(ctx, c, "country_options", "co:"+scope.Key(), func(ctx context.Context) (domain.CountryOptions, error) {
		return c.inner.CountryOptions(ctx, scope)
	})
}

func (c *CachedStore) DependentOptions(ctx context.Context, f domain.Filter) (domain.DependentOptions, error) {
	scope := f.CountryScope().Normalize()
	return lookup(ctx, c, "dependent_options", "do:"+scope.Key(), func(ctx context.Context) (domain.DependentOptions, error) {
		return c.inner.DependentOptions(ctx, scope)
	})
}

// Sightings returns the cached rows for the filter. Callers share the returned
// slice and must not modify it.
func (c *CachedStore) Sightings(ctx context.Context, f domain.Filter) ([]domain.Sighting, error) {
	n := f.Normalize()
	return lookup(ctx, c, "sightings", "s:"+n.Key(), func(ctx context.Context) ([]domain.Sighting, error) {
		return c.inner.Sightings(ctx, n)
	})
}

// Purge drops every cached result.
func (c *CachedStore) Purge() {
	c.entries.Purge()
}

// Len reports the number of cached results.
func (c *CachedStore) Len() int {
	return c.entries.Len()
}

// lookup serves key from the cache or runs load once for all concurrent
// callers. The load is detached from the caller that started it, so a client
// that goes away does not fail the others waiting on the same key.
func lookup[T any](ctx context.Context, c *CachedStore, op, key string, load func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.entries.Get(key); ok {
		c.metrics.CacheLookups.WithLabelValues(op, "hit").Inc()
		return v.(T), nil
	}
	c.metrics.CacheLookups.WithLabelValues(op, "miss").Inc()

	ch := c.group.DoChan(key, func() (any, error) {
		if v, ok := c.entries.Get(key); ok {
			return v, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		result, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		c.entries.Add(key, result)
		return result, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
