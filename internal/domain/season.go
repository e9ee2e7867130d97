package domain

// Season is a meteorological season bucket derived from the month.
type Season string

const (
	Spring Season = "Spring"
	Summer Season = "Summer"
	Autumn Season = "Autumn"
	Winter Season = "Winter"
)

// Seasons lists every season in calendar order starting with spring.
var Seasons = []Season{Spring, Summer, Autumn, Winter}

// SeasonForMonth maps a month (1-12) to its northern-hemisphere season.
// Returns "" for months outside 1-12.
func SeasonForMonth(month int) Season {
	switch month {
	case 3, 4, 5:
		return Spring
	case 6, 7, 8:
		return Summer
	case 9, 10, 11:
		return Autumn
	case 12, 1, 2:
		return Winter
	default:
		return ""
	}
}

// ParseSeason returns the season named by s, matched exactly.
func ParseSeason(s string) (Season, bool) {
	for _, season := range Seasons {
		if string(season) == s {
			return season, true
		}
	}
	return "", false
}

// Order is the position of the season in Seasons, or len(Seasons) if unknown.
func (s Season) Order() int {
	for i, season := range Seasons {
		if season == s {
			return i
		}
	}
	return len(Seasons)
}
