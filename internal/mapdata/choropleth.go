package mapdata

import (
	"fmt"
	"slices"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
	geojson "github.com/paulmach/go.geojson"
	"gonum.org/v1/gonum/stat"
)

// Caption labels the choropleth legend.
const Caption = "Sightings per Country"

// unassignedID marks disputed or unassigned territories in the boundary set.
const unassignedID = "-99"

// Choropleth is the country layer with its legend.
type Choropleth struct {
	Collection *geojson.FeatureCollection `json:"geojson"`
	Domain     [2]float64                 `json:"domain"`
	Colors     []string                   `json:"colors"`
	Caption    string                     `json:"caption"`
}

// BuildChoropleth joins per-country sighting counts onto the boundary features
// by ISO alpha-3 code. Features with the unassigned ID are dropped. Joined
// features without sightings get a count of 0. Features with no ID get no count
// and a transparent fill. The color domain spans the observed counts.
//
// geometry is not modified; the returned features share its geometries.
func BuildChoropleth(rows []domain.Sighting, geometry *geojson.FeatureCollection) (Choropleth, error) {
	counts := make(map[string]int)
	for _, r := range rows {
		if r.CountryCode != "" {
			counts[r.CountryCode]++
		}
	}

	fc := geojson.NewFeatureCollection()
	var values []float64
	var joined []*geojson.Feature
	for _, src := range geometry.Features {
		id := featureID(src)
		if id == unassignedID {
			continue
		}
		f := &geojson.Feature{
			ID:         src.ID,
			Type:       src.Type,
			Geometry:   src.Geometry,
			Properties: make(map[string]interface{}, len(src.Properties)+2),
		}
		for k, v := range src.Properties {
			f.Properties[k] = v
		}
		if id == "" {
			f.Properties["fillColor"] = TransparentFill
		} else {
			n := counts[id]
			f.Properties["count"] = n
			values = append(values, float64(n))
			joined = append(joined, f)
		}
		fc.AddFeature(f)
	}

	lo, hi := colorDomain(values)
	cm, err := NewColormap(Palette, lo, hi)
	if err != nil {
		return Choropleth{}, err
	}
	for _, f := range joined {
		f.Properties["fillColor"] = cm.Color(float64(f.Properties["count"].(int)))
	}

	return Choropleth{
		Collection: fc,
		Domain:     [2]float64{lo, hi},
		Colors:     Palette,
		Caption:    Caption,
	}, nil
}

// colorDomain is the empirical 0th and 100th percentile of the counts.
func colorDomain(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return stat.Quantile(0, stat.Empirical, sorted, nil), stat.Quantile(1, stat.Empirical, sorted, nil)
}

func featureID(f *geojson.Feature) string {
	switch v := f.ID.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
