// Package sqlite implements the sightings store and its filter-query builder on
// SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/couchcryptid/ufo-sightings/internal/domain"
	"github.com/couchcryptid/ufo-sightings/internal/observability"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store reads and writes the sightings table.
// It implements domain.SightingQuerier and pipeline.BatchLoader.
type Store struct {
	db      *sql.DB
	metrics *observability.Metrics
}

// Open opens an existing database read-only. The dashboard never writes, so a
// missing file is reported instead of silently creating an empty store.
func Open(ctx context.Context, path string, metrics *observability.Metrics) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrDataUnavailable, path, err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrDataUnavailable, path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", domain.ErrDataUnavailable, path, err)
	}
	return NewFromDB(db, metrics), nil
}

// OpenWritable opens or creates the database and applies the schema.
func OpenWritable(ctx context.Context, path string, metrics *observability.Metrics) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single connection also keeps :memory: databases
	// from splitting across pool connections.
	db.SetMaxOpenConns(1)

	s := NewFromDB(db, metrics)
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewFromDB wraps an already opened handle.
func NewFromDB(db *sql.DB, metrics *observability.Metrics) *Store {
	return &Store{db: db, metrics: metrics}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CheckReadiness pings the database.
func (s *Store) CheckReadiness(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrDataUnavailable, err)
	}
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Bounds returns the global year and hour ranges.
func (s *Store) Bounds(ctx context.Context) (b domain.Bounds, err error) {
	defer s.observe("bounds", time.Now(), &err)

	var yMin, yMax, hMin, hMax sql.NullInt64
	err = s.db.QueryRowContext(ctx,
		`SELECT MIN(Year), MAX(Year), MIN(Hour), MAX(Hour) FROM `+sightingsTable,
	).Scan(&yMin, &yMax, &hMin, &hMax)
	if err != nil {
		return domain.Bounds{}, unavailable("bounds", err)
	}
	return domain.Bounds{
		Years: domain.Range{Min: int(yMin.Int64), Max: int(yMax.Int64)},
		Hours: domain.Range{Min: int(hMin.Int64), Max: int(hMax.Int64)},
	}, nil
}

// CountryOptions lists the non-NULL countries within the filter's year and hour
// ranges, alphabetically and ranked by sighting count.
func (s *Store) CountryOptions(ctx context.Context, f domain.Filter) (opts domain.CountryOptions, err error) {
	defer s.observe("country_options", time.Now(), &err)

	sel := newSelection(f.Years, f.Hours).notNull(colCountry)
	query := `SELECT ` + colCountry + `, COUNT(*) AS count FROM ` + sightingsTable + sel.where() +
		` GROUP BY ` + colCountry + ` ORDER BY count DESC, ` + colCountry

	rows, err := s.db.QueryContext(ctx, query, sel.args...)
	if err != nil {
		return domain.CountryOptions{}, unavailable("country options", err)
	}
	defer rows.Close()

	ranked := []string{}
	for rows.Next() {
		var country string
		var count int
		if err = rows.Scan(&country, &count); err != nil {
			return domain.CountryOptions{}, unavailable("scan country option", err)
		}
		ranked = append(ranked, country)
	}
	if err = rows.Err(); err != nil {
		return domain.CountryOptions{}, unavailable("country options", err)
	}

	alphabetical := slices.Clone(ranked)
	slices.Sort(alphabetical)
	return domain.CountryOptions{Countries: alphabetical, Ranked: ranked}, nil
}

// DependentOptions lists the non-NULL seasons and shapes observed under the
// filter's year, hour and country clauses, so the UI never offers an option
// that selects zero rows.
func (s *Store) DependentOptions(ctx context.Context, f domain.Filter) (opts domain.DependentOptions, err error) {
	defer s.observe("dependent_options", time.Now(), &err)

	seasons, err := s.distinct(ctx, colSeason, f)
	if err != nil {
		return domain.DependentOptions{}, err
	}
	slices.SortFunc(seasons, func(a, b string) int {
		return domain.Season(a).Order() - domain.Season(b).Order()
	})

	shapes, err := s.distinct(ctx, colShape, f)
	if err != nil {
		return domain.DependentOptions{}, err
	}
	slices.Sort(shapes)

	return domain.DependentOptions{Seasons: seasons, Shapes: shapes}, nil
}

func (s *Store) distinct(ctx context.Context, column string, f domain.Filter) ([]string, error) {
	sel := forCountryScope(f).notNull(column)
	query := `SELECT DISTINCT ` + column + ` FROM ` + sightingsTable + sel.where()

	rows, err := s.db.QueryContext(ctx, query, sel.args...)
	if err != nil {
		return nil, unavailable("distinct "+column, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, unavailable("scan "+column, err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("distinct "+column, err)
	}
	return values, nil
}

// Sightings returns the rows selected by the filter in insertion order.
func (s *Store) Sightings(ctx context.Context, f domain.Filter) (out []domain.Sighting, err error) {
	defer s.observe("sightings", time.Now(), &err)

	sel := forFilter(f)
	query := `SELECT ` + sightingColumns + ` FROM ` + sightingsTable + sel.where() + ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, sel.args...)
	if err != nil {
		return nil, unavailable("sightings", err)
	}
	defer rows.Close()

	out = []domain.Sighting{}
	for rows.Next() {
		sighting, err := scanSighting(rows)
		if err != nil {
			return nil, unavailable("scan sighting", err)
		}
		out = append(out, sighting)
	}
	if err = rows.Err(); err != nil {
		return nil, unavailable("sightings", err)
	}
	return out, nil
}

// LoadBatch inserts sightings in one transaction. Rows whose ID already exists
// are ignored so replays are idempotent.
func (s *Store) LoadBatch(ctx context.Context, sightings []domain.Sighting) (err error) {
	if len(sightings) == 0 {
		return nil
	}
	defer s.observe("load_batch", time.Now(), &err)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO `+sightingsTable+` (`+sightingColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, sg := range sightings {
		if _, err = stmt.ExecContext(ctx,
			sg.ID,
			sg.DateTime.UTC().Format(time.RFC3339),
			sg.Year,
			sg.Month,
			sg.Hour,
			nullIfEmpty(string(sg.Season)),
			nullIfEmpty(sg.City),
			nullIfEmpty(sg.State),
			nullIfEmpty(sg.Country),
			nullIfEmpty(sg.CountryCode),
			nullIfEmpty(sg.UFOShape),
			sg.EncounterSeconds,
			nullIfEmpty(sg.EncounterDuration),
			nullIfEmpty(sg.Description),
			nullIfEmpty(sg.DateDocumented),
			sg.Latitude,
			sg.Longitude,
			nullIfEmpty(sg.Text),
			sg.IngestedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert %s: %w", sg.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSighting(row scanner) (domain.Sighting, error) {
	var (
		s                                         domain.Sighting
		dateTime                                  string
		season, city, state, country, countryCode sql.NullString
		shape, duration, description, documented sql.NullString
		text, ingestedAt                          sql.NullString
		seconds, lat, lon                         sql.NullFloat64
	)
	err := row.Scan(
		&s.ID, &dateTime, &s.Year, &s.Month, &s.Hour, &season, &city, &state,
		&country, &countryCode, &shape, &seconds, &duration, &description,
		&documented, &lat, &lon, &text, &ingestedAt,
	)
	if err != nil {
		return domain.Sighting{}, err
	}

	s.DateTime = parseTimeOrZero(time.RFC3339, dateTime)
	s.Season = domain.Season(season.String)
	s.City = city.String
	s.State = state.String
	s.Country = country.String
	s.CountryCode = countryCode.String
	s.UFOShape = shape.String
	s.EncounterSeconds = seconds.Float64
	s.EncounterDuration = duration.String
	s.Description = description.String
	s.DateDocumented = documented.String
	s.Latitude = lat.Float64
	s.Longitude = lon.Float64
	s.Text = text.String
	s.IngestedAt = parseTimeOrZero(time.RFC3339Nano, ingestedAt.String)
	return s, nil
}

func (s *Store) observe(op string, start time.Time, errp *error) {
	s.metrics.QueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if errp != nil && *errp != nil && !errors.Is(*errp, context.Canceled) {
		s.metrics.QueryErrors.WithLabelValues(op).Inc()
	}
}

func unavailable(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrDataUnavailable, what, err)
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func parseTimeOrZero(layout, value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
