package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Range is an inclusive integer interval.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v lies in [Min, Max].
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Overlaps reports whether r and o share at least one value.
func (r Range) Overlaps(o Range) bool {
	return r.Min <= o.Max && o.Min <= r.Max
}

// Clamp moves both ends of r into bounds. A range that does not overlap bounds
// is returned unchanged so that it keeps selecting nothing.
func (r Range) Clamp(bounds Range) Range {
	if !r.Overlaps(bounds) {
		return r
	}
	return Range{
		Min: min(max(r.Min, bounds.Min), bounds.Max),
		Max: max(min(r.Max, bounds.Max), bounds.Min),
	}
}

// Filter is the user's current selection. Empty sets mean "no restriction".
type Filter struct {
	Years          Range
	Hours          Range
	CountryInclude []string
	CountryExclude []string
	Shapes         []string
	Seasons        []string
}

// Normalize trims, de-duplicates and sorts every set so that equal selections
// compare and hash equal. Empty values are dropped.
func (f Filter) Normalize() Filter {
	f.CountryInclude = normalizeSet(f.CountryInclude)
	f.CountryExclude = normalizeSet(f.CountryExclude)
	f.Shapes = normalizeSet(f.Shapes)
	f.Seasons = normalizeSet(f.Seasons)
	return f
}

// Validate rejects inverted ranges and unknown seasons.
func (f Filter) Validate() error {
	if f.Years.Min > f.Years.Max {
		return fmt.Errorf("%w: year range %d-%d is inverted", ErrInvalidFilter, f.Years.Min, f.Years.Max)
	}
	if f.Hours.Min > f.Hours.Max {
		return fmt.Errorf("%w: hour range %d-%d is inverted", ErrInvalidFilter, f.Hours.Min, f.Hours.Max)
	}
	if f.Hours.Min < 0 || f.Hours.Max > 23 {
		return fmt.Errorf("%w: hour range %d-%d outside 0-23", ErrInvalidFilter, f.Hours.Min, f.Hours.Max)
	}
	for _, s := range f.Seasons {
		if _, ok := ParseSeason(s); !ok {
			return fmt.Errorf("%w: unknown season %q", ErrInvalidFilter, s)
		}
	}
	return nil
}

// ClampTo moves the year and hour ranges into the store's global bounds.
func (f Filter) ClampTo(b Bounds) Filter {
	f.Years = f.Years.Clamp(b.Years)
	f.Hours = f.Hours.Clamp(b.Hours)
	return f
}

// Key is the canonical representation of the selection, used for memoization.
// Two filters that select the same rows after Normalize produce the same key.
func (f Filter) Key() string {
	n := f.Normalize()
	var b strings.Builder
	fmt.Fprintf(&b, "y=%d-%d;h=%d-%d", n.Years.Min, n.Years.Max, n.Hours.Min, n.Hours.Max)
	writeSetKey(&b, "ci", n.CountryInclude)
	writeSetKey(&b, "ce", n.CountryExclude)
	writeSetKey(&b, "sh", n.Shapes)
	writeSetKey(&b, "se", n.Seasons)
	return b.String()
}

// CountryScope is the part of a filter that feeds the dependent dropdowns.
func (f Filter) CountryScope() Filter {
	return Filter{
		Years:          f.Years,
		Hours:          f.Hours,
		CountryInclude: f.CountryInclude,
		CountryExclude: f.CountryExclude,
	}
}

// RangeScope is the part of a filter that feeds the country dropdowns.
func (f Filter) RangeScope() Filter {
	return Filter{Years: f.Years, Hours: f.Hours}
}

// Matches evaluates the selection against a single sighting in memory, with the
// same semantics as the SQL predicate. NULL fields never satisfy an IN clause
// and never trip a NOT IN clause.
func (f Filter) Matches(s Sighting) bool {
	if !f.Years.Contains(s.Year) || !f.Hours.Contains(s.Hour) {
		return false
	}
	if len(f.Shapes) > 0 && !slices.Contains(f.Shapes, s.UFOShape) {
		return false
	}
	if len(f.Seasons) > 0 && !slices.Contains(f.Seasons, string(s.Season)) {
		return false
	}
	if len(f.CountryInclude) > 0 && !slices.Contains(f.CountryInclude, s.Country) {
		return false
	}
	if len(f.CountryExclude) > 0 && (s.Country == "" || slices.Contains(f.CountryExclude, s.Country)) {
		return false
	}
	return true
}

func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

func writeSetKey(b *strings.Builder, name string, values []string) {
	b.WriteString(";")
	b.WriteString(name)
	b.WriteString("=[")
	for i, v := range values {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(strconv.Quote(v))
	}
	b.WriteString("]")
}
