package http

import (
	"fmt"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
	"github.com/gin-gonic/gin"
)

// filterParams is the query-string form of a domain.Filter. Set parameters are
// repeated, e.g. ?country=Canada&country=Mexico. Missing range ends default to
// the store's bounds.
type filterParams struct {
	YearMin        *int     `form:"year_min"`
	YearMax        *int     `form:"year_max"`
	HourMin        *int     `form:"hour_min"`
	HourMax        *int     `form:"hour_max"`
	CountryInclude []string `form:"country"`
	CountryExclude []string `form:"exclude_country"`
	Shapes         []string `form:"shape"`
	Seasons        []string `form:"season"`
}

// bindFilter parses, validates and clamps the request's filter. Every error
// wraps domain.ErrInvalidFilter.
func bindFilter(c *gin.Context, bounds domain.Bounds) (domain.Filter, error) {
	var p filterParams
	if err := c.ShouldBindQuery(&p); err != nil {
		return domain.Filter{}, fmt.Errorf("%w: %v", domain.ErrInvalidFilter, err)
	}

	f := domain.Filter{
		Years: domain.Range{
			Min: valueOr(p.YearMin, bounds.Years.Min),
			Max: valueOr(p.YearMax, bounds.Years.Max),
		},
		Hours: domain.Range{
			Min: valueOr(p.HourMin, bounds.Hours.Min),
			Max: valueOr(p.HourMax, bounds.Hours.Max),
		},
		CountryInclude: p.CountryInclude,
		CountryExclude: p.CountryExclude,
		Shapes:         p.Shapes,
		Seasons:        p.Seasons,
	}.Normalize()

	if err := f.Validate(); err != nil {
		return domain.Filter{}, err
	}
	return f.ClampTo(bounds), nil
}

func valueOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
