package chart

import (
	"cmp"
	"slices"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
)

// Point is one sample of a line series.
type Point struct {
	Key   int `json:"key"`
	Count int `json:"count"`
}

// YearSeries counts sightings per year, ascending by year.
func YearSeries(rows []domain.Sighting) []Point {
	return series(rows, func(s domain.Sighting) int { return s.Year })
}

// MonthSeries counts sightings per calendar month (1-12), ascending.
func MonthSeries(rows []domain.Sighting) []Point {
	return series(rows, func(s domain.Sighting) int { return s.Month })
}

func series(rows []domain.Sighting, key func(domain.Sighting) int) []Point {
	counts := make(map[int]int)
	for _, r := range rows {
		counts[key(r)]++
	}
	out := make([]Point, 0, len(counts))
	for k, n := range counts {
		out = append(out, Point{Key: k, Count: n})
	}
	slices.SortFunc(out, func(a, b Point) int { return cmp.Compare(a.Key, b.Key) })
	return out
}
