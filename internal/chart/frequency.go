// Package chart turns filtered sightings into the tables behind the dashboard
// charts: frequency rankings, the season by shape cross-tab, season shares and
// time series.
package chart

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
)

// RankLimit is the number of categories shown by the top and bottom views.
const RankLimit = 10

// Column selects the categorical field a frequency table counts.
type Column string

const (
	ColumnCountry Column = "country"
	ColumnShape   Column = "shape"
	ColumnSeason  Column = "season"
)

func (c Column) value(s domain.Sighting) string {
	switch c {
	case ColumnCountry:
		return s.Country
	case ColumnShape:
		return s.UFOShape
	case ColumnSeason:
		return string(s.Season)
	default:
		return ""
	}
}

// Mode selects which slice of a ranked frequency table is returned.
type Mode string

const (
	ModeTop    Mode = "top"
	ModeBottom Mode = "bottom"
	ModeAll    Mode = "all"
)

// ParseMode accepts top, bottom or all. An empty value means top.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeTop:
		return ModeTop, nil
	case ModeBottom:
		return ModeBottom, nil
	case ModeAll:
		return ModeAll, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidFilter, s)
	}
}

// Frequency is one row of a frequency table.
type Frequency struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Frequencies counts sightings per category of column, most frequent first.
// Ties keep the order in which categories were first seen. Empty categories
// (NULL in the store) are not counted.
func Frequencies(rows []domain.Sighting, column Column) []Frequency {
	counts := make(map[string]int)
	var order []string
	for _, r := range rows {
		v := column.value(r)
		if v == "" {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	out := make([]Frequency, 0, len(order))
	for _, v := range order {
		out = append(out, Frequency{Category: v, Count: counts[v]})
	}
	slices.SortStableFunc(out, func(a, b Frequency) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return out
}

// Ranked returns the top or bottom RankLimit rows of the frequency table, or all
// of it. The bottom view is the tail of the descending table and stays in
// descending order. Fewer than RankLimit categories are returned as is.
func Ranked(rows []domain.Sighting, column Column, mode Mode) []Frequency {
	return rankTable(Frequencies(rows, column), mode)
}

func rankTable(table []Frequency, mode Mode) []Frequency {
	if mode == ModeAll || len(table) <= RankLimit {
		return table
	}
	if mode == ModeBottom {
		return table[len(table)-RankLimit:]
	}
	return table[:RankLimit]
}
