package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SeasonString renders an FPL season label, e.g. 2023 → "2023-24".
func SeasonString(startYear int) (string, error) {
	if startYear < 1000 || startYear > 9999 {
		return "", fmt.Errorf("season start year must have four digits, got %d", startYear)
	}
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100), nil
}

// SeasonStart parses the leading four-digit year of "2017-18" or "2017-2018".
func SeasonStart(season string) (int, error) {
	season = strings.TrimSpace(season)
	if len(season) < 4 {
		return 0, fmt.Errorf("bad season %q", season)
	}
	y, err := strconv.Atoi(season[:4])
	if err != nil {
		return 0, fmt.Errorf("bad season %q: %w", season, err)
	}
	return y, nil
}

// SeasonEnd returns the calendar year a season finishes in.
func SeasonEnd(season string) (int, error) {
	start, err := SeasonStart(season)
	if err != nil {
		return 0, err
	}
	return start + 1, nil
}

// ShortSeason turns a Championship label "2017-2018" into "2017-18".
// Labels already in short form are returned unchanged.
func ShortSeason(season string) string {
	parts := strings.Split(strings.TrimSpace(season), "-")
	if len(parts) != 2 || len(parts[1]) != 4 {
		return season
	}
	return parts[0] + "-" + parts[1][2:]
}

// SlashSeason renders "2018-19" as "18/19" for compact labels.
func SlashSeason(season string) string {
	if len(season) >= 5 {
		season = season[len(season)-5:]
	}
	return strings.ReplaceAll(season, "-", "/")
}
