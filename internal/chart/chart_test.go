package chart

import (
	"errors"
	"fmt"
	"testing"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shapes(counts ...any) []domain.Sighting {
	var rows []domain.Sighting
	for i := 0; i < len(counts); i += 2 {
		shape := counts[i].(string)
		for n := 0; n < counts[i+1].(int); n++ {
			rows = append(rows, domain.Sighting{UFOShape: shape})
		}
	}
	return rows
}

func TestFrequencies_RanksByCount(t *testing.T) {
	rows := shapes("triangle", 3, "light", 50)

	got := Frequencies(rows, ColumnShape)

	want := []Frequency{{"light", 50}, {"triangle", 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("frequencies mismatch (-want +got):\n%s", diff)
	}
}

func TestFrequencies_TiesKeepFirstSeenOrder(t *testing.T) {
	rows := shapes("disk", 2, "orb", 2, "cigar", 2, "light", 5)

	got := Frequencies(rows, ColumnShape)

	require.Len(t, got, 4)
	assert.Equal(t, []string{"light", "disk", "orb", "cigar"}, categories(got))
}

func TestFrequencies_SkipsEmptyCategories(t *testing.T) {
	rows := []domain.Sighting{{Country: "Canada"}, {Country: ""}, {Country: "Canada"}}

	got := Frequencies(rows, ColumnCountry)

	assert.Equal(t, []Frequency{{"Canada", 2}}, got)
}

func TestFrequencies_Empty(t *testing.T) {
	got := Frequencies(nil, ColumnShape)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func manyCategories(n int) []domain.Sighting {
	var rows []domain.Sighting
	for i := 0; i < n; i++ {
		for c := 0; c <= i; c++ {
			rows = append(rows, domain.Sighting{UFOShape: fmt.Sprintf("shape-%02d", i)})
		}
	}
	return rows
}

func TestRanked_TopAndBottomDisjoint(t *testing.T) {
	rows := manyCategories(25)

	top := Ranked(rows, ColumnShape, ModeTop)
	bottom := Ranked(rows, ColumnShape, ModeBottom)
	all := Ranked(rows, ColumnShape, ModeAll)

	require.Len(t, top, RankLimit)
	require.Len(t, bottom, RankLimit)
	require.Len(t, all, 25)

	observed := map[string]bool{}
	for _, f := range all {
		observed[f.Category] = true
	}
	inTop := map[string]bool{}
	for _, f := range top {
		inTop[f.Category] = true
		assert.True(t, observed[f.Category])
	}
	for _, f := range bottom {
		assert.False(t, inTop[f.Category], "%s in both top and bottom", f.Category)
		assert.True(t, observed[f.Category])
	}
}

func TestRanked_BottomKeepsDescendingOrder(t *testing.T) {
	rows := manyCategories(15)

	bottom := Ranked(rows, ColumnShape, ModeBottom)

	require.Len(t, bottom, RankLimit)
	assert.Equal(t, "shape-09", bottom[0].Category)
	assert.Equal(t, "shape-00", bottom[RankLimit-1].Category)
	for i := 1; i < len(bottom); i++ {
		assert.GreaterOrEqual(t, bottom[i-1].Count, bottom[i].Count)
	}
}

func TestRanked_FewerThanLimitReturnsAll(t *testing.T) {
	rows := shapes("light", 4, "disk", 2, "orb", 1)

	for _, mode := range []Mode{ModeTop, ModeBottom, ModeAll} {
		t.Run(string(mode), func(t *testing.T) {
			got := Ranked(rows, ColumnShape, mode)
			assert.Equal(t, []string{"light", "disk", "orb"}, categories(got))
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeTop, false},
		{"top", ModeTop, false},
		{"bottom", ModeBottom, false},
		{"all", ModeAll, false},
		{"middle", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrInvalidFilter))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSeasonByShape(t *testing.T) {
	rows := []domain.Sighting{
		{UFOShape: "light", Season: domain.Winter},
		{UFOShape: "light", Season: domain.Summer},
		{UFOShape: "light", Season: domain.Summer},
		{UFOShape: "disk", Season: domain.Spring},
		{UFOShape: "", Season: domain.Autumn},
	}

	got := SeasonByShape(rows)

	want := CrossTab{
		Seasons: []string{"Spring", "Summer", "Winter"},
		Series: []ShapeSeries{
			{Shape: "light", Total: 3, Counts: []int{0, 2, 1}},
			{Shape: "disk", Total: 1, Counts: []int{1, 0, 0}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cross-tab mismatch (-want +got):\n%s", diff)
	}
}

func TestSeasonByShape_RestrictedToTopShapes(t *testing.T) {
	rows := manyCategories(12)
	for i := range rows {
		rows[i].Season = domain.Summer
	}

	got := SeasonByShape(rows)

	require.Len(t, got.Series, RankLimit)
	for _, s := range got.Series {
		assert.NotEqual(t, "shape-00", s.Shape)
		assert.NotEqual(t, "shape-01", s.Shape)
	}
}

func TestSeasonByShape_Empty(t *testing.T) {
	got := SeasonByShape(nil)

	assert.Empty(t, got.Seasons)
	assert.Empty(t, got.Series)
	assert.NotNil(t, got.Series)
}

func TestSeasonShare(t *testing.T) {
	rows := []domain.Sighting{
		{Season: domain.Summer}, {Season: domain.Summer}, {Season: domain.Summer},
		{Season: domain.Winter}, {Season: ""},
	}

	got := SeasonShare(rows)

	require.Len(t, got, 2)
	assert.Equal(t, "Summer", got[0].Season)
	assert.Equal(t, 3, got[0].Count)
	assert.InDelta(t, 75.0, got[0].Percent, 1e-9)
	assert.Equal(t, "Winter", got[1].Season)
	assert.InDelta(t, 25.0, got[1].Percent, 1e-9)
}

func TestSeasonShare_MostFrequentFirst(t *testing.T) {
	rows := []domain.Sighting{
		{Season: domain.Spring},
		{Season: domain.Winter}, {Season: domain.Winter}, {Season: domain.Winter},
		{Season: domain.Autumn}, {Season: domain.Autumn},
		{Season: domain.Summer},
	}

	got := SeasonShare(rows)

	seasons := make([]string, 0, len(got))
	for _, s := range got {
		seasons = append(seasons, s.Season)
	}
	assert.Equal(t, []string{"Winter", "Autumn", "Spring", "Summer"}, seasons, "ties keep calendar order")
	assert.Equal(t, 3, got[0].Count)
}

func TestSeries(t *testing.T) {
	rows := []domain.Sighting{
		{Year: 2001, Month: 7}, {Year: 1999, Month: 7}, {Year: 2001, Month: 1},
	}

	assert.Equal(t, []Point{{1999, 1}, {2001, 2}}, YearSeries(rows))
	assert.Equal(t, []Point{{1, 1}, {7, 2}}, MonthSeries(rows))
	assert.Empty(t, YearSeries(nil))
}

func categories(table []Frequency) []string {
	out := make([]string, 0, len(table))
	for _, f := range table {
		out = append(out, f.Category)
	}
	return out
}
