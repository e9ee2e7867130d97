package domain

import "strings"

// Country is a resolved country with its alpha-3 code. The alpha-3 code matches
// the feature IDs of the world boundary GeoJSON used by the choropleth.
type Country struct {
	Alpha2 string
	Alpha3 string
	Name   string
}

// countries covers every country present in the NUFORC export plus the countries
// reverse geocoding most often returns for offshore and border reports.
var countries = []Country{
	{"us", "USA", "United States"},
	{"gb", "GBR", "United Kingdom"},
	{"ca", "CAN", "Canada"},
	{"au", "AUS", "Australia"},
	{"de", "DEU", "Germany"},
	{"mx", "MEX", "Mexico"},
	{"ie", "IRL", "Ireland"},
	{"fr", "FRA", "France"},
	{"es", "ESP", "Spain"},
	{"pt", "PRT", "Portugal"},
	{"it", "ITA", "Italy"},
	{"nl", "NLD", "Netherlands"},
	{"be", "BEL", "Belgium"},
	{"ch", "CHE", "Switzerland"},
	{"at", "AUT", "Austria"},
	{"se", "SWE", "Sweden"},
	{"no", "NOR", "Norway"},
	{"dk", "DNK", "Denmark"},
	{"fi", "FIN", "Finland"},
	{"pl", "POL", "Poland"},
	{"gr", "GRC", "Greece"},
	{"tr", "TUR", "Turkey"},
	{"ru", "RUS", "Russia"},
	{"in", "IND", "India"},
	{"cn", "CHN", "China"},
	{"jp", "JPN", "Japan"},
	{"ph", "PHL", "Philippines"},
	{"nz", "NZL", "New Zealand"},
	{"za", "ZAF", "South Africa"},
	{"br", "BRA", "Brazil"},
	{"ar", "ARG", "Argentina"},
	{"cl", "CHL", "Chile"},
	{"pr", "PRI", "Puerto Rico"},
	{"bs", "BHS", "The Bahamas"},
	{"is", "ISL", "Iceland"},
}

var (
	byAlpha2 = make(map[string]Country, len(countries))
	byName   = make(map[string]Country, len(countries))
)

func init() {
	for _, c := range countries {
		byAlpha2[c.Alpha2] = c
		byName[strings.ToLower(c.Name)] = c
	}
}

// LookupCountry resolves an alpha-2 code or a country name, case-insensitively.
func LookupCountry(value string) (Country, bool) {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return Country{}, false
	}
	if c, ok := byAlpha2[key]; ok {
		return c, true
	}
	c, ok := byName[key]
	return c, ok
}
