package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterKey_CanonicalAcrossOrderAndDuplicates(t *testing.T) {
	a := Filter{
		Years:          Range{1950, 1960},
		Hours:          Range{0, 23},
		CountryInclude: []string{"United States", "Canada", "Canada"},
		Shapes:         []string{" light", "disk"},
	}
	b := Filter{
		Years:          Range{1950, 1960},
		Hours:          Range{0, 23},
		CountryInclude: []string{"Canada", "United States"},
		Shapes:         []string{"disk", "light", ""},
	}

	assert.Equal(t, a.Key(), b.Key())
}

func TestFilterKey_DistinguishesFields(t *testing.T) {
	include := Filter{Years: Range{1950, 1960}, Hours: Range{0, 23}, CountryInclude: []string{"Canada"}}
	exclude := Filter{Years: Range{1950, 1960}, Hours: Range{0, 23}, CountryExclude: []string{"Canada"}}
	years := Filter{Years: Range{1950, 1961}, Hours: Range{0, 23}, CountryInclude: []string{"Canada"}}

	assert.NotEqual(t, include.Key(), exclude.Key())
	assert.NotEqual(t, include.Key(), years.Key())
}

func TestFilterKey_QuotesValues(t *testing.T) {
	// A value containing the separator must not collide with two values.
	one := Filter{Shapes: []string{`a","b`}}
	two := Filter{Shapes: []string{"a", "b"}}

	assert.NotEqual(t, one.Key(), two.Key())
}

func TestFilterNormalize_EmptySetsBecomeNil(t *testing.T) {
	f := Filter{CountryInclude: []string{"", "  "}, Seasons: []string{}}.Normalize()

	assert.Nil(t, f.CountryInclude)
	assert.Nil(t, f.Seasons)
}

func TestFilterValidate(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{name: "valid", filter: Filter{Years: Range{1950, 2000}, Hours: Range{0, 23}, Seasons: []string{"Summer"}}},
		{name: "single year", filter: Filter{Years: Range{1950, 1950}, Hours: Range{5, 5}}},
		{name: "inverted years", filter: Filter{Years: Range{2000, 1950}, Hours: Range{0, 23}}, wantErr: true},
		{name: "inverted hours", filter: Filter{Years: Range{1950, 2000}, Hours: Range{20, 3}}, wantErr: true},
		{name: "hour out of range", filter: Filter{Years: Range{1950, 2000}, Hours: Range{0, 24}}, wantErr: true},
		{name: "unknown season", filter: Filter{Years: Range{1950, 2000}, Hours: Range{0, 23}, Seasons: []string{"Fall"}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidFilter))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFilterClampTo(t *testing.T) {
	bounds := Bounds{Years: Range{1906, 2014}, Hours: Range{0, 23}}

	f := Filter{Years: Range{1800, 2100}, Hours: Range{-3, 30}}.ClampTo(bounds)

	assert.Equal(t, Range{1906, 2014}, f.Years)
	assert.Equal(t, Range{0, 23}, f.Hours)

	f = Filter{Years: Range{1950, 1960}, Hours: Range{4, 6}}.ClampTo(bounds)
	assert.Equal(t, Range{1950, 1960}, f.Years)
	assert.Equal(t, Range{4, 6}, f.Hours)

	f = Filter{Years: Range{1900, 2020}, Hours: Range{0, 23}}.ClampTo(bounds)
	assert.Equal(t, Range{1906, 2014}, f.Years, "partial overlap is trimmed")
}

func TestFilterClampTo_DisjointRangeSelectsNothing(t *testing.T) {
	bounds := Bounds{Years: Range{1950, 2014}, Hours: Range{6, 18}}

	tests := []struct {
		name  string
		years Range
		hours Range
	}{
		{name: "years before bounds", years: Range{1900, 1940}, hours: Range{6, 18}},
		{name: "years after bounds", years: Range{2020, 2030}, hours: Range{6, 18}},
		{name: "hours before bounds", years: Range{1950, 2014}, hours: Range{0, 3}},
		{name: "hours after bounds", years: Range{1950, 2014}, hours: Range{20, 23}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{Years: tt.years, Hours: tt.hours}.ClampTo(bounds)
			assert.Equal(t, tt.years, f.Years)
			assert.Equal(t, tt.hours, f.Hours)

			for year := bounds.Years.Min; year <= bounds.Years.Max; year++ {
				for hour := bounds.Hours.Min; hour <= bounds.Hours.Max; hour++ {
					s := Sighting{Year: year, Hour: hour}
					if tt.years.Contains(year) && tt.hours.Contains(hour) {
						continue
					}
					require.False(t, f.Matches(s), "year %d hour %d", year, hour)
				}
			}
		})
	}
}

func TestRangeOverlaps(t *testing.T) {
	r := Range{1950, 2014}
	assert.True(t, r.Overlaps(Range{2014, 2020}))
	assert.True(t, r.Overlaps(Range{1900, 1950}))
	assert.True(t, r.Overlaps(Range{1960, 1970}))
	assert.False(t, r.Overlaps(Range{1900, 1949}))
	assert.False(t, r.Overlaps(Range{2015, 2030}))
}

func TestFilterScopes(t *testing.T) {
	f := Filter{
		Years:          Range{1950, 1960},
		Hours:          Range{0, 23},
		CountryInclude: []string{"Canada"},
		CountryExclude: []string{"Mexico"},
		Shapes:         []string{"light"},
		Seasons:        []string{"Winter"},
	}

	cs := f.CountryScope()
	assert.Equal(t, []string{"Canada"}, cs.CountryInclude)
	assert.Equal(t, []string{"Mexico"}, cs.CountryExclude)
	assert.Nil(t, cs.Shapes)
	assert.Nil(t, cs.Seasons)

	rs := f.RangeScope()
	assert.Equal(t, f.Years, rs.Years)
	assert.Nil(t, rs.CountryInclude)
}

func TestFilterMatches(t *testing.T) {
	base := Filter{Years: Range{1950, 1960}, Hours: Range{0, 23}}
	s := Sighting{Year: 1955, Hour: 21, Country: "Canada", UFOShape: "light", Season: Summer}

	assert.True(t, base.Matches(s))

	f := base
	f.CountryInclude = []string{"Canada"}
	f.CountryExclude = []string{"Canada"}
	assert.False(t, f.Matches(s), "exclude wins over include")

	f = base
	f.CountryExclude = []string{"Mexico"}
	assert.True(t, f.Matches(s))
	assert.False(t, f.Matches(Sighting{Year: 1955, Hour: 21}), "NOT IN never matches NULL")

	f = base
	f.Years = Range{1956, 1960}
	assert.False(t, f.Matches(s))
}
