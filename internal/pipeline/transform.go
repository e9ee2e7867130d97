package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
)

// SightingTransformer implements Transformer using domain transform functions
// with optional reverse geocoding for sightings that lack a country.
type SightingTransformer struct {
	resolver domain.CountryResolver
	logger   *slog.Logger
}

// NewTransformer creates a SightingTransformer. Pass a nil resolver to disable
// geocoding enrichment.
func NewTransformer(resolver domain.CountryResolver, logger *slog.Logger) *SightingTransformer {
	return &SightingTransformer{
		resolver: resolver,
		logger:   logger,
	}
}

func (t *SightingTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.Sighting, error) {
	sighting, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.Sighting{}, err
	}
	return t.enrich(ctx, sighting), nil
}

// TransformRecord runs the same steps on a record read directly from the CSV
// export, without going through Kafka.
func (t *SightingTransformer) TransformRecord(ctx context.Context, rec domain.RawSightingRecord) (domain.Sighting, error) {
	sighting, err := domain.ParseRecord(rec)
	if err != nil {
		return domain.Sighting{}, err
	}
	return t.enrich(ctx, sighting), nil
}

func (t *SightingTransformer) enrich(ctx context.Context, s domain.Sighting) domain.Sighting {
	// Geocoding runs first so a resolved country flows into CountryCode and Text.
	s = domain.EnrichWithGeocoding(ctx, s, t.resolver, t.logger)
	return domain.EnrichSighting(s)
}
