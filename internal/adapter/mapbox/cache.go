package mapbox

import (
	"context"
	"fmt"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
	"github.com/couchcryptid/ufo-sightings/internal/observability"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedResolver wraps a CountryResolver with an in-memory LRU cache keyed by
// coordinates rounded to about 1 km.
type CachedResolver struct {
	inner   domain.CountryResolver
	cache   *lru.Cache[string, domain.CountryResult]
	metrics *observability.Metrics
}

// NewCachedResolver creates a cache decorator around a resolver.
func NewCachedResolver(inner domain.CountryResolver, maxEntries int, metrics *observability.Metrics) (*CachedResolver, error) {
	cache, err := lru.New[string, domain.CountryResult](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create geocode cache: %w", err)
	}
	return &CachedResolver{inner: inner, cache: cache, metrics: metrics}, nil
}

func (c *CachedResolver) ReverseCountry(ctx context.Context, lat, lon float64) (domain.CountryResult, error) {
	key := fmt.Sprintf("%.2f,%.2f", lat, lon)
	if result, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.ReverseCountry(ctx, lat, lon)
	if err != nil {
		return result, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if result != (domain.CountryResult{}) {
		c.cache.Add(key, result)
	}
	return result, nil
}
