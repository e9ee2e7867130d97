package domain

import "context"

// CountryResult is the country a geocoding provider places a coordinate in.
type CountryResult struct {
	Alpha2 string // lowercase ISO-3166 alpha-2, may be empty
	Name   string
}

// CountryResolver resolves coordinates to a country.
type CountryResolver interface {
	// ReverseCountry returns the country containing lat/lon. A zero result with
	// a nil error means the point is not inside any country (e.g. open sea).
	ReverseCountry(ctx context.Context, lat, lon float64) (CountryResult, error)
}
