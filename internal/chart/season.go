package chart

import (
	"cmp"
	"slices"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
)

// CrossTab counts sightings per season for each of the most frequent shapes.
// Series[i].Counts[j] is the count of Series[i].Shape in Seasons[j].
type CrossTab struct {
	Seasons []string      `json:"seasons"`
	Series  []ShapeSeries `json:"series"`
}

// ShapeSeries is one bar group of the stacked season chart.
type ShapeSeries struct {
	Shape  string `json:"shape"`
	Total  int    `json:"total"`
	Counts []int  `json:"counts"`
}

// SeasonByShape builds the season by shape cross-tab, restricted to the top
// RankLimit shapes of rows. Seasons appear in calendar order and only when at
// least one of those shapes was seen in them.
func SeasonByShape(rows []domain.Sighting) CrossTab {
	top := Ranked(rows, ColumnShape, ModeTop)
	index := make(map[string]int, len(top))
	for i, f := range top {
		index[f.Category] = i
	}

	grid := make([][]int, len(top))
	for i := range grid {
		grid[i] = make([]int, len(domain.Seasons))
	}
	seen := make([]bool, len(domain.Seasons))
	for _, r := range rows {
		i, ok := index[r.UFOShape]
		if !ok {
			continue
		}
		j := r.Season.Order()
		if j >= len(domain.Seasons) {
			continue
		}
		grid[i][j]++
		seen[j] = true
	}

	out := CrossTab{Seasons: []string{}, Series: make([]ShapeSeries, 0, len(top))}
	for j, s := range domain.Seasons {
		if seen[j] {
			out.Seasons = append(out.Seasons, string(s))
		}
	}
	for i, f := range top {
		counts := make([]int, 0, len(out.Seasons))
		for j := range domain.Seasons {
			if seen[j] {
				counts = append(counts, grid[i][j])
			}
		}
		out.Series = append(out.Series, ShapeSeries{Shape: f.Category, Total: f.Count, Counts: counts})
	}
	return out
}

// Share is one slice of the season pie.
type Share struct {
	Season  string  `json:"season"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// SeasonShare returns the fraction of sightings per season, most frequent
// season first. Ties keep calendar order. Seasons without sightings are left
// out.
func SeasonShare(rows []domain.Sighting) []Share {
	counts := make([]int, len(domain.Seasons))
	total := 0
	for _, r := range rows {
		j := r.Season.Order()
		if j >= len(domain.Seasons) {
			continue
		}
		counts[j]++
		total++
	}

	out := []Share{}
	for j, s := range domain.Seasons {
		if counts[j] == 0 {
			continue
		}
		out = append(out, Share{
			Season:  string(s),
			Count:   counts[j],
			Percent: 100 * float64(counts[j]) / float64(total),
		})
	}
	slices.SortStableFunc(out, func(a, b Share) int { return cmp.Compare(b.Count, a.Count) })
	return out
}
