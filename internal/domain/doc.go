// Package domain models UFO sighting reports and the filter selections used to
// explore them.
//
// # Data Source
//
// Sightings originate from the NUFORC reports published on Kaggle as
// "ufo-sightings-around-the-world" (scrubbed.csv). Each CSV row is published as
// flat JSON to the raw Kafka topic (see ufoctl publish) or imported directly
// into the SQLite store (see ufoctl import).
//
// # Source Data Conventions
//
// Date/time format:
//
//	"M/D/YYYY H:MM" in local observer time, e.g. "10/10/1949 20:30".
//	"24:00" appears for midnight and rolls over to 00:00 of the next day.
//
// Country:
//
//	Lowercase ISO-3166 alpha-2 code ("us", "gb", "ca", "au", "de") or empty.
//	Codes are resolved to a display name and an alpha-3 code, the key used to join
//	against country boundary polygons. Rows without a country may be resolved by
//	reverse geocoding their coordinates.
//
// Text fields:
//
//	Comments and places carry HTML numeric entities in place of punctuation
//	("&#44" for a comma, "&#33" for "!"). They are unescaped during parsing and
//	escaped again when building the popup label.
//
// Shape:
//
//	Free-form lowercase word ("light", "triangle", "circle", ...). Empty and
//	"unknown" are kept distinct: empty is stored as NULL.
//
// # Derived Fields
//
// Season is derived from the month using meteorological seasons for the northern
// hemisphere (Mar-May Spring, Jun-Aug Summer, Sep-Nov Autumn, Dec-Feb Winter).
// Text is a multi-line HTML label for map popups.
//
// # ID Generation
//
// Sighting IDs are deterministic SHA-256 hashes of datetime|lat|lon|shape|comments.
// The store inserts with INSERT OR IGNORE, so replaying a topic or re-importing a
// CSV never duplicates rows. See [generateID].
package domain
