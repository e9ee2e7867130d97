// Package boundary fetches and caches the world country boundaries used by the
// choropleth.
package boundary

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
	"github.com/couchcryptid/ufo-sightings/internal/observability"
	"github.com/jonboulle/clockwork"
	geojson "github.com/paulmach/go.geojson"
	"golang.org/x/sync/singleflight"
)

// DefaultURL serves country polygons with ISO alpha-3 feature IDs.
const DefaultURL = "https://raw.githubusercontent.com/johan/world.geo.json/master/countries.geo.json"

// maxBody caps the response size read from the boundary source.
const maxBody = 64 << 20

// Client fetches the boundary feature collection and keeps it for ttl. Failed
// fetches are not cached, so the next call retries.
type Client struct {
	url        string
	httpClient *http.Client
	ttl        time.Duration
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics

	group     singleflight.Group
	mu        sync.RWMutex
	cached    *geojson.FeatureCollection
	fetchedAt time.Time
}

// NewClient creates a boundary client.
func NewClient(url string, timeout, ttl time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		ttl:        ttl,
		clock:      clockwork.NewRealClock(),
		logger:     logger,
		metrics:    metrics,
	}
}

// Countries returns the country feature collection. Callers must treat it as
// read-only; it is shared between requests.
func (c *Client) Countries(ctx context.Context) (*geojson.FeatureCollection, error) {
	if fc, ok := c.fresh(); ok {
		c.metrics.GeometryFetches.WithLabelValues("cached").Inc()
		return fc, nil
	}

	// The fetch outlives the caller that started it; httpClient's timeout
	// bounds it instead.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("countries", func() (any, error) {
		if fc, ok := c.fresh(); ok {
			return fc, nil
		}
		fc, err := c.fetch(fetchCtx)
		if err != nil {
			c.metrics.GeometryFetches.WithLabelValues("error").Inc()
			c.logger.Warn("country boundaries unavailable", "url", c.url, "error", err)
			return nil, err
		}
		c.metrics.GeometryFetches.WithLabelValues("success").Inc()

		c.mu.Lock()
		c.cached = fc
		c.fetchedAt = c.clock.Now()
		c.mu.Unlock()
		return fc, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrGeometryUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*geojson.FeatureCollection), nil
	}
}

func (c *Client) fresh() (*geojson.FeatureCollection, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cached == nil || c.clock.Since(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.cached, true
}

func (c *Client) fetch(ctx context.Context) (*geojson.FeatureCollection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrGeometryUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch boundaries: %w", domain.ErrGeometryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrGeometryUnavailable, resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read boundaries: %w", domain.ErrGeometryUnavailable, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode boundaries: %w", domain.ErrGeometryUnavailable, err)
	}
	return fc, nil
}
