package sqlite

import (
	"strings"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
)

// Column names in the sightings table. Only these constants are ever spliced
// into SQL text; every user-supplied value travels as a bound parameter.
const (
	colYear        = "Year"
	colHour        = "Hour"
	colCountry     = "Country"
	colShape       = "UFO_shape"
	colSeason      = "Season"
	sightingsTable = "sightings"
)

// selection accumulates a conjunctive WHERE clause and its positional args.
type selection struct {
	clauses []string
	args    []any
}

// newSelection starts from the predicate every query carries:
// Year within [y0,y1] AND Hour within [h0,h1].
func newSelection(years, hours domain.Range) *selection {
	return &selection{
		clauses: []string{
			colYear + " >= ?", colYear + " <= ?",
			colHour + " >= ?", colHour + " <= ?",
		},
		args: []any{years.Min, years.Max, hours.Min, hours.Max},
	}
}

// in appends "column IN (?,...)" when values is non-empty. An empty set is no
// restriction, not "match nothing".
func (s *selection) in(column string, values []string) *selection {
	return s.set(column, "IN", values)
}

// notIn appends "column NOT IN (?,...)" when values is non-empty.
func (s *selection) notIn(column string, values []string) *selection {
	return s.set(column, "NOT IN", values)
}

// notNull appends "column IS NOT NULL".
func (s *selection) notNull(column string) *selection {
	s.clauses = append(s.clauses, column+" IS NOT NULL")
	return s
}

func (s *selection) set(column, op string, values []string) *selection {
	if len(values) == 0 {
		return s
	}
	s.clauses = append(s.clauses, column+" "+op+" ("+placeholders(len(values))+")")
	for _, v := range values {
		s.args = append(s.args, v)
	}
	return s
}

// where renders the accumulated predicate, starting with " WHERE ".
func (s *selection) where() string {
	return " WHERE " + strings.Join(s.clauses, " AND ")
}

// forFilter applies every clause a full filter selection contributes.
func forFilter(f domain.Filter) *selection {
	return newSelection(f.Years, f.Hours).
		in(colShape, f.Shapes).
		in(colSeason, f.Seasons).
		in(colCountry, f.CountryInclude).
		notIn(colCountry, f.CountryExclude)
}

// forCountryScope applies the year/hour/country clauses used by the dependent
// season and shape dropdowns.
func forCountryScope(f domain.Filter) *selection {
	return newSelection(f.Years, f.Hours).
		in(colCountry, f.CountryInclude).
		notIn(colCountry, f.CountryExclude)
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}
