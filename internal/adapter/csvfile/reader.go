// Package csvfile reads the NUFORC "scrubbed" CSV export into raw sighting
// records.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
)

// Column headers of the export. The published file has a trailing space after
// "longitude", so headers are matched after trimming.
const (
	colDateTime        = "datetime"
	colCity            = "city"
	colState           = "state"
	colCountry         = "country"
	colShape           = "shape"
	colDurationSeconds = "duration (seconds)"
	colDurationText    = "duration (hours/min)"
	colComments        = "comments"
	colDatePosted      = "date posted"
	colLatitude        = "latitude"
	colLongitude       = "longitude"
)

// Reader streams records from a CSV export with a header row.
type Reader struct {
	csv   *csv.Reader
	index map[string]int
	line  int
}

// NewReader reads the header row and returns a Reader positioned at the first
// record. The datetime column is required; any other missing column reads as
// empty.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := index[colDateTime]; !ok {
		return nil, fmt.Errorf("read header: missing %q column", colDateTime)
	}
	return &Reader{csv: cr, index: index, line: 1}, nil
}

// Next returns the next record, or io.EOF after the last one.
func (r *Reader) Next() (domain.RawSightingRecord, error) {
	row, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.RawSightingRecord{}, io.EOF
		}
		return domain.RawSightingRecord{}, fmt.Errorf("read line %d: %w", r.line+1, err)
	}
	r.line++

	field := func(name string) string {
		i, ok := r.index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	return domain.RawSightingRecord{
		DateTime:        field(colDateTime),
		City:            field(colCity),
		State:           field(colState),
		Country:         field(colCountry),
		Shape:           field(colShape),
		DurationSeconds: field(colDurationSeconds),
		DurationText:    field(colDurationText),
		Comments:        field(colComments),
		DatePosted:      field(colDatePosted),
		Latitude:        field(colLatitude),
		Longitude:       field(colLongitude),
	}, nil
}

// Line is the 1-based line number of the last record returned.
func (r *Reader) Line() int {
	return r.line
}

// ReadAll reads every record of the export.
func ReadAll(r io.Reader) ([]domain.RawSightingRecord, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}
	var out []domain.RawSightingRecord
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}
