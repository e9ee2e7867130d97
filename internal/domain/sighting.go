package domain

import (
	"context"
	"time"
)

// RawSightingRecord is the flat JSON structure of one scrubbed.csv row.
type RawSightingRecord struct {
	DateTime        string `json:"datetime"`
	City            string `json:"city"`
	State           string `json:"state"`
	Country         string `json:"country"`
	Shape           string `json:"shape"`
	DurationSeconds string `json:"duration (seconds)"`
	DurationText    string `json:"duration (hours/min)"`
	Comments        string `json:"comments"`
	DatePosted      string `json:"date posted"`
	Latitude        string `json:"latitude"`
	Longitude       string `json:"longitude"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Sighting is one recorded UFO observation. Empty strings stand for NULL in the
// store for the nullable text columns.
type Sighting struct {
	ID                string    `json:"id"`
	DateTime          time.Time `json:"date_time"`
	Year              int       `json:"year"`
	Month             int       `json:"month"`
	Hour              int       `json:"hour"`
	Season            Season    `json:"season,omitempty"`
	City              string    `json:"city,omitempty"`
	State             string    `json:"state,omitempty"`
	Country           string    `json:"country,omitempty"`
	CountryCode       string    `json:"country_code,omitempty"`
	UFOShape          string    `json:"ufo_shape,omitempty"`
	EncounterSeconds  float64   `json:"encounter_seconds"`
	EncounterDuration string    `json:"encounter_duration,omitempty"`
	Description       string    `json:"description,omitempty"`
	DateDocumented    string    `json:"date_documented,omitempty"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	Text              string    `json:"text,omitempty"`
	IngestedAt        time.Time `json:"ingested_at"`
}

// HasCoords reports whether the sighting carries a usable position. The export
// records a missing position as (0,0).
func (s Sighting) HasCoords() bool {
	return s.Latitude != 0 || s.Longitude != 0
}

// TableRow is the tabular projection of a sighting. The popup label is left out.
type TableRow struct {
	DateTime          time.Time `json:"date_time"`
	Year              int       `json:"year"`
	Month             int       `json:"month"`
	Hour              int       `json:"hour"`
	Season            Season    `json:"season,omitempty"`
	City              string    `json:"city,omitempty"`
	State             string    `json:"state,omitempty"`
	Country           string    `json:"country,omitempty"`
	CountryCode       string    `json:"country_code,omitempty"`
	UFOShape          string    `json:"ufo_shape,omitempty"`
	EncounterDuration string    `json:"encounter_duration,omitempty"`
	Description       string    `json:"description,omitempty"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
}

// Row projects the sighting into a table row.
func (s Sighting) Row() TableRow {
	return TableRow{
		DateTime:          s.DateTime,
		Year:              s.Year,
		Month:             s.Month,
		Hour:              s.Hour,
		Season:            s.Season,
		City:              s.City,
		State:             s.State,
		Country:           s.Country,
		CountryCode:       s.CountryCode,
		UFOShape:          s.UFOShape,
		EncounterDuration: s.EncounterDuration,
		Description:       s.Description,
		Latitude:          s.Latitude,
		Longitude:         s.Longitude,
	}
}

// Table is a filtered dataset ready for the table view.
type Table struct {
	Count int        `json:"count"`
	Rows  []TableRow `json:"rows"`
}

// NewTable projects sightings into a table. The result is never nil so it
// serializes as an empty list.
func NewTable(sightings []Sighting) Table {
	rows := make([]TableRow, 0, len(sightings))
	for _, s := range sightings {
		rows = append(rows, s.Row())
	}
	return Table{Count: len(rows), Rows: rows}
}

// Bounds are the global year and hour ranges observed in the store.
type Bounds struct {
	Years Range `json:"years"`
	Hours Range `json:"hours"`
}

// CountryOptions populate the include and exclude country dropdowns.
type CountryOptions struct {
	Countries []string `json:"countries"` // alphabetical
	Ranked    []string `json:"ranked"`    // most sightings first
}

// DependentOptions populate the season and shape dropdowns for the current
// year, hour and country selection.
type DependentOptions struct {
	Seasons []string `json:"seasons"`
	Shapes  []string `json:"shapes"`
}
