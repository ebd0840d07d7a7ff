package model

import "strings"

// Position codes used by FPL element_type 1..4.
const (
	PosGK  = "GK"
	PosDEF = "DEF"
	PosMID = "MID"
	PosFWD = "FWD"
)

// Positions in squad order; also the order statistical partitions are visited.
var Positions = []string{PosGK, PosDEF, PosMID, PosFWD}

// PositionFromElementType maps FPL element_type to a position code.
func PositionFromElementType(t int) string {
	switch t {
	case 1:
		return PosGK
	case 2:
		return PosDEF
	case 3:
		return PosMID
	case 4:
		return PosFWD
	default:
		return "Unknown"
	}
}

// Metric is a Championship leaderboard.
type Metric string

const (
	Goals   Metric = "Goals"
	Assists Metric = "Assists"
)

// Metrics lists every scraped leaderboard.
var Metrics = []Metric{Goals, Assists}

// Slug is the lowercase form used in directory and file names.
func (m Metric) Slug() string {
	switch m {
	case Goals:
		return "goals"
	case Assists:
		return "assists"
	}
	return string(m)
}

// ParseMetric accepts "goals"/"assists" in any case.
func ParseMetric(s string) (Metric, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "goals":
		return Goals, true
	case "assists":
		return Assists, true
	}
	return "", false
}

// PlayerSeason is one FPL player aggregated over one season. The join step
// fills SeasonStart, NameSeason and PromotedFromChampionship.
type PlayerSeason struct {
	Name               string `csv:"name" parquet:"name"`
	Team               string `csv:"team" parquet:"team"`
	Position           string `csv:"position" parquet:"position"`
	TotalPoints        int    `csv:"total_points" parquet:"total_points"`
	GoalsScored        int    `csv:"goals_scored" parquet:"goals_scored"`
	Assists            int    `csv:"assists" parquet:"assists"`
	CleanSheets        int    `csv:"clean_sheets" parquet:"clean_sheets"`
	YellowCards        int    `csv:"yellow_cards" parquet:"yellow_cards"`
	RedCards           int    `csv:"red_cards" parquet:"red_cards"`
	GoalsConceded      int    `csv:"goals_conceded" parquet:"goals_conceded"`
	OwnGoals           int    `csv:"own_goals" parquet:"own_goals"`
	PenaltiesMissed    int    `csv:"penalties_missed" parquet:"penalties_missed"`
	PenaltiesSaved     int    `csv:"penalties_saved" parquet:"penalties_saved"`
	Saves              int    `csv:"saves" parquet:"saves"`
	BonusPoints        int    `csv:"bonus_points" parquet:"bonus_points"`
	MinutesPlayed      int    `csv:"minutes_played" parquet:"minutes_played"`
	CountGWsMinMinutes int    `csv:"count_gws_min_minutes" parquet:"count_gws_min_minutes"`
	MinGW              int    `csv:"min_gw" parquet:"min_gw"`
	ValueFirstGW       int    `csv:"value_first_gw" parquet:"value_first_gw"`

	TeamStrength            int `csv:"team_strength" parquet:"team_strength"`
	TeamStrengthOverallHome int `csv:"team_strength_overall_home" parquet:"team_strength_overall_home"`
	TeamStrengthOverallAway int `csv:"team_strength_overall_away" parquet:"team_strength_overall_away"`
	TeamStrengthAttackHome  int `csv:"team_strength_attack_home" parquet:"team_strength_attack_home"`
	TeamStrengthAttackAway  int `csv:"team_strength_attack_away" parquet:"team_strength_attack_away"`
	TeamStrengthDefenceHome int `csv:"team_strength_defence_home" parquet:"team_strength_defence_home"`
	TeamStrengthDefenceAway int `csv:"team_strength_defence_away" parquet:"team_strength_defence_away"`
	TeamStrengthEstimated   int `csv:"team_strength_estimated" parquet:"team_strength_estimated"`

	Season                   string `csv:"season" parquet:"season"`
	SeasonStart              int    `csv:"season_start" parquet:"season_start"`
	NameSeason               string `csv:"name_season" parquet:"name_season"`
	PromotedFromChampionship int    `csv:"promoted_from_championship" parquet:"promoted_from_championship"`
}

// UnknownTeamStrength marks a team with neither a teams.csv row nor an
// estimate. It never satisfies a team strength threshold.
const UnknownTeamStrength = -1

// StrengthAtMost reports whether the team strength is known and <= max.
func (p PlayerSeason) StrengthAtMost(max int) bool {
	return p.TeamStrength != UnknownTeamStrength && p.TeamStrength <= max
}

// Price returns the FPL price in millions (value is stored in tenths).
func (p PlayerSeason) Price() float64 { return float64(p.ValueFirstGW) / 10 }

// ChampionshipRow is one scorer/assister line from a Championship season table,
// plus the labels attached by the join step.
type ChampionshipRow struct {
	Player  string
	Country string
	Team    string
	Season  string // "2017-2018"
	Metric  Metric
	Count   int

	SeasonStart int
	// PromotionYear is the season-start year the promotion table is keyed by:
	// the year the Championship campaign ends, which is also the FPL season
	// a promoted side plays in.
	PromotionYear      int
	PromotedNextSeason int
	NextSeasonStart    int
}

// PlayerSeasonRef names a player in one FPL season, e.g. an exclusion.
type PlayerSeasonRef struct {
	Name   string `mapstructure:"name"`
	Season string `mapstructure:"season"`
}

// TeamStrengthEstimate fills team strength for seasons without teams.csv.
type TeamStrengthEstimate struct {
	Season   string `mapstructure:"season"`
	Team     string `mapstructure:"team"`
	Strength int    `mapstructure:"strength"`
}
