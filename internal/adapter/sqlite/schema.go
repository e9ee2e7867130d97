package sqlite

// sightingColumns is the column list shared by inserts and row scans.
const sightingColumns = `id, Date_time, Year, Month, Hour, Season, City, State, Country, Country_Code,
	UFO_shape, Encounter_Seconds, Encounter_Duration, Description, Date_documented,
	latitude, longitude, Text, Ingested_at`

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sightings (
		id TEXT PRIMARY KEY,
		Date_time TEXT NOT NULL,
		Year INTEGER NOT NULL,
		Month INTEGER NOT NULL,
		Hour INTEGER NOT NULL,
		Season TEXT,
		City TEXT,
		State TEXT,
		Country TEXT,
		Country_Code TEXT,
		UFO_shape TEXT,
		Encounter_Seconds REAL,
		Encounter_Duration TEXT,
		Description TEXT,
		Date_documented TEXT,
		latitude REAL,
		longitude REAL,
		Text TEXT,
		Ingested_at TEXT
	);`,
	`CREATE INDEX IF NOT EXISTS idx_sightings_year_hour ON sightings(Year, Hour);`,
	`CREATE INDEX IF NOT EXISTS idx_sightings_country ON sightings(Country);`,
}
