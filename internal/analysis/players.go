package analysis

import (
	"github.com/tyler180/fpl-championship-analysis/internal/model"
	"github.com/tyler180/fpl-championship-analysis/internal/stats"
)

// AllPositions disables the position filter in TopPlayers.
const AllPositions = "All"

// gamesPerSeason normalises season totals to a per-game average.
const gamesPerSeason = 38

// TopPlayer is a row of the promoted-player leaderboard.
type TopPlayer struct {
	Player           string  `csv:"Player" json:"player"`
	Season           string  `csv:"Season" json:"season"`
	TotalPoints      int     `csv:"Total Points" json:"total_points"`
	Position         string  `csv:"Position" json:"position"`
	Team             string  `csv:"Team" json:"team"`
	Value            float64 `csv:"Value" json:"value"`
	AvgPointsPerGame float64 `csv:"Avg. Points per Game*" json:"avg_points_per_game"`
	Goals            int     `csv:"Goals" json:"goals"`
	Assists          int     `csv:"Assists" json:"assists"`
	Saves            int     `csv:"Saves" json:"saves"`
	GoalsConceded    int     `csv:"Goals Conceded" json:"goals_conceded"`
	MinutesPlayed    int     `csv:"Minutes Played" json:"minutes_played"`
}

// TopPlayers ranks promoted players by total points within a position (or
// AllPositions) and a price range in millions, inclusive at both ends.
func TopPlayers(rows []model.PlayerSeason, position string, minPrice, maxPrice float64, topN int) []TopPlayer {
	lo, hi := int(minPrice*10+0.5), int(maxPrice*10+0.5)
	var pool []model.PlayerSeason
	for _, r := range rows {
		if r.PromotedFromChampionship != 1 {
			continue
		}
		if position != AllPositions && position != "" && r.Position != position {
			continue
		}
		if r.ValueFirstGW < lo || r.ValueFirstGW > hi {
			continue
		}
		pool = append(pool, r)
	}

	ranked := TopRanked(pool, func(p model.PlayerSeason) float64 { return float64(p.TotalPoints) }, topN)
	out := make([]TopPlayer, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, TopPlayer{
			Player:           r.Name,
			Season:           r.Season,
			TotalPoints:      r.TotalPoints,
			Position:         r.Position,
			Team:             r.Team,
			Value:            r.Price(),
			AvgPointsPerGame: stats.Round1(float64(r.TotalPoints) / gamesPerSeason),
			Goals:            r.GoalsScored,
			Assists:          r.Assists,
			Saves:            r.Saves,
			GoalsConceded:    r.GoalsConceded,
			MinutesPlayed:    r.MinutesPlayed,
		})
	}
	return out
}
