package domain

import "context"

// SightingQuerier answers the read queries behind the dashboard. Every method
// returns an error wrapping ErrDataUnavailable when the store cannot be read;
// an empty result is not an error.
type SightingQuerier interface {
	// Bounds returns the global year and hour ranges.
	Bounds(ctx context.Context) (Bounds, error)

	// CountryOptions lists countries under the filter's year/hour ranges.
	CountryOptions(ctx context.Context, f Filter) (CountryOptions, error)

	// DependentOptions lists seasons and shapes under the filter's year/hour
	// ranges and country include/exclude sets.
	DependentOptions(ctx context.Context, f Filter) (DependentOptions, error)

	// Sightings returns every row the filter selects.
	Sightings(ctx context.Context, f Filter) ([]Sighting, error)
}
