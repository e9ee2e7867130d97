// Package mapdata prepares the marker layer and the per-country choropleth
// shown on the map view.
package mapdata

import (
	"encoding/json"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
)

// Marker is one clustered map point. It serializes as [lat, lon, text].
type Marker struct {
	Lat  float64
	Lon  float64
	Text string
}

func (m Marker) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{m.Lat, m.Lon, m.Text})
}

// Markers returns one marker per sighting with coordinates, in row order.
func Markers(rows []domain.Sighting) []Marker {
	out := make([]Marker, 0, len(rows))
	for _, r := range rows {
		if !r.HasCoords() {
			continue
		}
		out = append(out, Marker{Lat: r.Latitude, Lon: r.Longitude, Text: r.Text})
	}
	return out
}
