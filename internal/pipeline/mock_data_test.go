package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/ufo-sightings/internal/adapter/csvfile"
	"github.com/couchcryptid/ufo-sightings/internal/domain"
	"github.com/couchcryptid/ufo-sightings/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSightingTransformer_WithSampleCSV(t *testing.T) {
	transformer := pipeline.NewTransformer(nil, discardLogger())
	records := readSampleRecords(t)

	var sightings []domain.Sighting
	var failures int
	for _, rec := range records {
		s, err := transformer.TransformRecord(context.Background(), rec)
		if err != nil {
			failures++
			continue
		}
		sightings = append(sightings, s)
	}

	require.Equal(t, 1, failures, "only the row with a malformed datetime is rejected")
	require.Len(t, sightings, len(records)-1)

	ids := map[string]bool{}
	for _, s := range sightings {
		assert.False(t, ids[s.ID], "duplicate id %s", s.ID)
		ids[s.ID] = true

		assert.Equal(t, domain.SeasonForMonth(s.Month), s.Season)
		assert.True(t, s.Hour >= 0 && s.Hour <= 23)
		assert.Equal(t, s.Country != "" && s.CountryCode == "", isUnknownCountry(s.Country))
	}

	byCity := map[string]domain.Sighting{}
	for _, s := range sightings {
		byCity[s.City] = s
	}

	t.Run("entities unescaped", func(t *testing.T) {
		s := byCity["lackland afb"]
		assert.Contains(t, s.Description, "Lackland AFB, TX.")
		assert.Contains(t, s.Description, "Lights racing across the sky & making")
		assert.Empty(t, s.Country, "no country and no resolver")
	})

	t.Run("alpha-2 resolved", func(t *testing.T) {
		s := byCity["chester (uk/england)"]
		assert.Equal(t, "United Kingdom", s.Country)
		assert.Equal(t, "GBR", s.CountryCode)
	})

	t.Run("hour 24 rolls over", func(t *testing.T) {
		s := byCity["iowa city"]
		assert.Equal(t, time.Date(2006, 10, 11, 0, 0, 0, 0, time.UTC), s.DateTime)
		assert.Equal(t, 0, s.Hour)
	})

	t.Run("blank fields", func(t *testing.T) {
		s := byCity["bluff city"]
		assert.Empty(t, s.UFOShape)
		assert.Zero(t, s.Latitude)
		assert.False(t, s.HasCoords())
	})
}

func TestSightingTransformer_SampleCSVIsDeterministic(t *testing.T) {
	transformer := pipeline.NewTransformer(nil, discardLogger())
	rec := readSampleRecords(t)[0]

	a, err := transformer.TransformRecord(context.Background(), rec)
	require.NoError(t, err)
	b, err := transformer.TransformRecord(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
}

func readSampleRecords(t *testing.T) []domain.RawSightingRecord {
	t.Helper()

	f, err := os.Open(filepath.Join("..", "..", "testdata", "scrubbed_sample.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csvfile.ReadAll(f)
	require.NoError(t, err)
	return records
}

func isUnknownCountry(country string) bool {
	if country == "" {
		return false
	}
	_, ok := domain.LookupCountry(country)
	return !ok
}
