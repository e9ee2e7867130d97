//go:build mapbox

package mapbox

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/ufo-sightings/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return &Client{
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    "https://api.mapbox.com/geocoding/v5/mapbox.places",
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestSmoke_ReverseCountry(t *testing.T) {
	c := smokeClient(t)

	// San Marcos, TX
	result, err := c.ReverseCountry(context.Background(), 29.8830556, -97.9411111)
	require.NoError(t, err)

	assert.Equal(t, "us", result.Alpha2)
	assert.NotEmpty(t, result.Name)
}

func TestSmoke_ReverseCountry_OpenOcean(t *testing.T) {
	c := smokeClient(t)

	// Mid-Atlantic: no country contains the point.
	_, err := c.ReverseCountry(context.Background(), 0.5, -30)
	require.NoError(t, err)
}

func TestSmoke_CachedResolver(t *testing.T) {
	c := smokeClient(t)
	cached, err := NewCachedResolver(c, 10, observability.NewMetricsForTesting())
	require.NoError(t, err)

	// First call: cache miss, real API call.
	r1, err := cached.ReverseCountry(context.Background(), 51.5074, -0.1278)
	require.NoError(t, err)
	assert.Equal(t, "gb", r1.Alpha2)

	// Second call: cache hit.
	r2, err := cached.ReverseCountry(context.Background(), 51.5074, -0.1278)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
}
