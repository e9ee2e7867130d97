package main

import (
	"fmt"
	"io"

	"github.com/couchcryptid/ufo-sightings/internal/adapter/sqlite"
	"github.com/couchcryptid/ufo-sightings/internal/domain"
	"github.com/spf13/cobra"
)

// maxReported caps the failures printed per phase.
const maxReported = 20

var (
	validateDB        string
	validateYears     []int
	validateCountries []string
	validateShapes    []string
	validateSeasons   []string
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the integrity of a sightings store",
		Args:  cobra.NoArgs,
		RunE:  runValidateCmd,
	}
	cmd.Flags().StringVar(&validateDB, "db", defaultDBPath, "path to the SQLite store")
	cmd.Flags().IntSliceVar(&validateYears, "years", nil, "year range to check as min,max (default: the store's bounds)")
	cmd.Flags().StringSliceVar(&validateCountries, "country", nil, "restrict the check to these countries")
	cmd.Flags().StringSliceVar(&validateShapes, "shape", nil, "restrict the check to these shapes")
	cmd.Flags().StringSliceVar(&validateSeasons, "season", nil, "restrict the check to these seasons")
	return cmd
}

func runValidateCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := sqlite.Open(ctx, validateDB, newMetrics())
	if err != nil {
		return err
	}
	defer store.Close()

	bounds, err := store.Bounds(ctx)
	if err != nil {
		return err
	}
	f, err := validateFilter(bounds)
	if err != nil {
		return err
	}
	rows, err := store.Sightings(ctx, f)
	if err != nil {
		return err
	}

	r := validateSightings(rows, f)
	r.print(cmd.OutOrStdout())
	if failed := r.failed(); failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(r.phases))
	}
	return nil
}

// validateFilter builds the selection to check from the command's flags,
// defaulting to every row in the store.
func validateFilter(bounds domain.Bounds) (domain.Filter, error) {
	f := domain.Filter{
		Years:          bounds.Years,
		Hours:          bounds.Hours,
		CountryInclude: validateCountries,
		Shapes:         validateShapes,
		Seasons:        validateSeasons,
	}
	switch len(validateYears) {
	case 0:
	case 2:
		f.Years = domain.Range{Min: validateYears[0], Max: validateYears[1]}
	default:
		return domain.Filter{}, fmt.Errorf("%w: --years wants min,max", domain.ErrInvalidFilter)
	}
	f = f.Normalize()
	if err := f.Validate(); err != nil {
		return domain.Filter{}, err
	}
	return f.ClampTo(bounds), nil
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// nullCounts reports how many rows lack each nullable value. These are
// informational; the export is known to be sparse.
type nullCounts struct {
	country     int
	countryCode int
	shape       int
	coords      int
}

type report struct {
	rows   int
	phases []*phase
	nulls  nullCounts
}

func (r report) failed() int {
	n := 0
	for _, p := range r.phases {
		if !p.passed() {
			n++
		}
	}
	return n
}

func (r report) print(w io.Writer) {
	fmt.Fprintf(w, "rows: %d\n", r.rows)
	for _, p := range r.phases {
		if p.passed() {
			fmt.Fprintf(w, "PASS %s\n", p.name)
			continue
		}
		fmt.Fprintf(w, "FAIL %s (%d)\n", p.name, len(p.errors))
		for i, e := range p.errors {
			if i == maxReported {
				fmt.Fprintf(w, "  ... %d more\n", len(p.errors)-maxReported)
				break
			}
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	fmt.Fprintf(w, "null country: %d, null country code: %d, null shape: %d, no coordinates: %d\n",
		r.nulls.country, r.nulls.countryCode, r.nulls.shape, r.nulls.coords)
}

// validateSightings checks rows returned by the store for f. Besides the
// per-row integrity checks, every row must satisfy f as evaluated in memory,
// which catches drift between the SQL predicate and the filter semantics.
func validateSightings(rows []domain.Sighting, f domain.Filter) report {
	selected := &phase{name: "rows satisfy the selection"}
	ranges := &phase{name: "month and hour ranges"}
	derived := &phase{name: "year and season match the timestamp"}
	codes := &phase{name: "country code present iff country known"}

	r := report{rows: len(rows), phases: []*phase{selected, ranges, derived, codes}}
	for _, s := range rows {
		if !f.Matches(s) {
			selected.errorf("%s: year %d hour %d country %q shape %q season %q outside selection",
				s.ID, s.Year, s.Hour, s.Country, s.UFOShape, s.Season)
		}
		if s.Month < 1 || s.Month > 12 {
			ranges.errorf("%s: month %d", s.ID, s.Month)
		}
		if s.Hour < 0 || s.Hour > 23 {
			ranges.errorf("%s: hour %d", s.ID, s.Hour)
		}

		if s.Year != s.DateTime.Year() || s.Month != int(s.DateTime.Month()) || s.Hour != s.DateTime.Hour() {
			derived.errorf("%s: year/month/hour %d/%d/%d do not match %s",
				s.ID, s.Year, s.Month, s.Hour, s.DateTime.Format("2006-01-02 15:04"))
		}
		if want := domain.SeasonForMonth(s.Month); s.Season != want {
			derived.errorf("%s: season %q for month %d, want %q", s.ID, s.Season, s.Month, want)
		}

		checkCountryCode(codes, s)

		if s.Country == "" {
			r.nulls.country++
		}
		if s.CountryCode == "" {
			r.nulls.countryCode++
		}
		if s.UFOShape == "" {
			r.nulls.shape++
		}
		if !s.HasCoords() {
			r.nulls.coords++
		}
	}
	return r
}

func checkCountryCode(p *phase, s domain.Sighting) {
	c, known := domain.LookupCountry(s.Country)
	switch {
	case known && s.CountryCode != c.Alpha3:
		p.errorf("%s: country %q has code %q, want %q", s.ID, s.Country, s.CountryCode, c.Alpha3)
	case !known && s.CountryCode != "":
		p.errorf("%s: country %q is unknown but has code %q", s.ID, s.Country, s.CountryCode)
	}
}
