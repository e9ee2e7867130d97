package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateTimeRe parses NUFORC "M/D/YYYY H:MM" timestamps, e.g. "10/10/1949 20:30".
var dateTimeRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})\s+(\d{1,2}):(\d{2})$`)

// ParseRawEvent deserializes a RawEvent's value into a Sighting.
// It expects the flat CSV-style JSON produced by ufoctl publish.
func ParseRawEvent(raw RawEvent) (Sighting, error) {
	var rec RawSightingRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return Sighting{}, fmt.Errorf("parse raw event: %w", err)
	}
	return ParseRecord(rec)
}

// ParseRecord converts a raw CSV record into a Sighting. Only the timestamp is
// mandatory; malformed numeric fields parse as zero.
func ParseRecord(rec RawSightingRecord) (Sighting, error) {
	dt, err := parseDateTime(rec.DateTime)
	if err != nil {
		return Sighting{}, err
	}

	lat := parseFloatOrZero(rec.Latitude)
	lon := parseFloatOrZero(rec.Longitude)
	shape := cleanText(rec.Shape)
	description := cleanText(rec.Comments)

	return Sighting{
		ID:                generateID(rec.DateTime, lat, lon, shape, description),
		DateTime:          dt,
		City:              cleanText(rec.City),
		State:             strings.ToUpper(cleanText(rec.State)),
		Country:           cleanText(rec.Country),
		UFOShape:          shape,
		EncounterSeconds:  parseFloatOrZero(rec.DurationSeconds),
		EncounterDuration: cleanText(rec.DurationText),
		Description:       description,
		DateDocumented:    strings.TrimSpace(rec.DatePosted),
		Latitude:          lat,
		Longitude:         lon,
	}, nil
}

// parseDateTime parses "M/D/YYYY H:MM". Hour 24 rolls over to the next day.
func parseDateTime(s string) (time.Time, error) {
	m := dateTimeRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return time.Time{}, fmt.Errorf("parse datetime %q: unexpected format", s)
	}
	month, _ := strconv.Atoi(m[1])
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	mins, _ := strconv.Atoi(m[5])
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 24 || mins > 59 {
		return time.Time{}, fmt.Errorf("parse datetime %q: out of range", s)
	}
	return time.Date(year, time.Month(month), day, hour, mins, 0, 0, time.UTC), nil
}

// parseFloatOrZero parses a string as float64, returning 0 on failure.
func parseFloatOrZero(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// cleanText unescapes the HTML numeric entities the export uses for punctuation
// and trims surrounding space.
func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}

// generateID produces a deterministic ID from the sighting's key fields so that
// re-importing the same row yields the same primary key.
func generateID(dateTime string, lat, lon float64, shape, description string) string {
	input := fmt.Sprintf("%s|%.5f|%.5f|%s|%s", strings.TrimSpace(dateTime), lat, lon, shape, description)
	hash := sha256.Sum256([]byte(input))
	return "ufo-" + hex.EncodeToString(hash[:8])
}

// EnrichSighting normalizes a parsed sighting and fills the derived columns:
// Year, Month, Hour, Season, the resolved country and its alpha-3 code, the
// popup Text and the ingestion timestamp.
func EnrichSighting(s Sighting) Sighting {
	s.Year = s.DateTime.Year()
	s.Month = int(s.DateTime.Month())
	s.Hour = s.DateTime.Hour()
	s.Season = SeasonForMonth(s.Month)
	s.UFOShape = normalizeShape(s.UFOShape)
	s.Country, s.CountryCode = resolveCountry(s.Country)
	s.Text = displayText(s)
	s.IngestedAt = clock.Now().UTC()
	return s
}

// normalizeShape lowercases the shape; empty stays empty and is stored as NULL.
func normalizeShape(shape string) string {
	return strings.ToLower(strings.TrimSpace(shape))
}

// resolveCountry maps an alpha-2 code or known name to (name, alpha-3). Unknown
// non-empty values are kept as the display name without a code.
func resolveCountry(value string) (string, string) {
	if c, ok := LookupCountry(value); ok {
		return c.Name, c.Alpha3
	}
	return strings.TrimSpace(value), ""
}

// displayText builds the HTML popup label shown on map markers. Every free-text
// field is escaped because the map layer injects the label as innerHTML.
func displayText(s Sighting) string {
	lines := []string{
		"<b>" + s.DateTime.Format("2006-01-02 15:04") + "</b>",
	}
	if place := joinNonEmpty(", ", s.City, s.State, s.Country); place != "" {
		lines = append(lines, html.EscapeString(place))
	}
	if s.UFOShape != "" {
		lines = append(lines, "Shape: "+html.EscapeString(s.UFOShape))
	}
	if s.EncounterDuration != "" {
		lines = append(lines, "Duration: "+html.EscapeString(s.EncounterDuration))
	}
	if s.Description != "" {
		lines = append(lines, html.EscapeString(s.Description))
	}
	return strings.Join(lines, "<br>")
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
