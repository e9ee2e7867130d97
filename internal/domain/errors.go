package domain

import "errors"

var (
	// ErrDataUnavailable marks failures reading the sightings store. Callers must
	// surface it rather than render an empty view.
	ErrDataUnavailable = errors.New("sightings data unavailable")

	// ErrGeometryUnavailable marks failures fetching or decoding the country
	// boundary reference. Only the choropleth depends on it.
	ErrGeometryUnavailable = errors.New("country geometry unavailable")

	// ErrInvalidFilter marks a filter selection that cannot be evaluated.
	ErrInvalidFilter = errors.New("invalid filter")
)
