package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding fills a missing country by reverse geocoding the
// sighting's coordinates. It runs before EnrichSighting so the resolved value
// flows into CountryCode and Text. Failures leave the country empty.
func EnrichWithGeocoding(ctx context.Context, s Sighting, resolver CountryResolver, logger *slog.Logger) Sighting {
	if resolver == nil || s.Country != "" || !s.HasCoords() {
		return s
	}

	result, err := resolver.ReverseCountry(ctx, s.Latitude, s.Longitude)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"sighting_id", s.ID,
			"lat", s.Latitude,
			"lon", s.Longitude,
			"error", err,
		)
		return s
	}

	switch {
	case result.Alpha2 != "":
		s.Country = result.Alpha2
	case result.Name != "":
		s.Country = result.Name
	}
	return s
}
