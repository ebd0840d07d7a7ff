package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/tyler180/fpl-championship-analysis/internal/dataset"
	"github.com/tyler180/fpl-championship-analysis/internal/logging"
	"github.com/tyler180/fpl-championship-analysis/internal/model"
	"github.com/tyler180/fpl-championship-analysis/internal/teams"
)

// Getter is the slice of fetch.Client needed to pull remote tables.
type Getter interface {
	GetBytes(ctx context.Context, url, referer string) ([]byte, error)
}

// TeamTableRow is one line of a season's FPL points-by-team table.
type TeamTableRow struct {
	Team        string `csv:"team"`
	TotalPoints int    `csv:"total_points"`
	GKPoints    int    `csv:"gk_points"`
	DEFPoints   int    `csv:"def_points"`
	MIDPoints   int    `csv:"mid_points"`
	FWDPoints   int    `csv:"fwd_points"`
	GoalsScored int    `csv:"goals_scored"`
	Assists     int    `csv:"assists"`
	CleanSheets int    `csv:"clean_sheets"`
}

var teamTableRequired = []string{"team", "total_points"}

// TeamPerformanceRow is written to team_performance_fpl_points.csv.
type TeamPerformanceRow struct {
	Team        string `csv:"Team" json:"team"`
	Season      string `csv:"Season" json:"season"`
	TotalPoints int    `csv:"Total Points" json:"total_points"`
	GKPoints    int    `csv:"GK Points" json:"gk_points"`
	DEFPoints   int    `csv:"DEF Points" json:"def_points"`
	MIDPoints   int    `csv:"MID Points" json:"mid_points"`
	FWDPoints   int    `csv:"FWD Points" json:"fwd_points"`
	GoalsScored int    `csv:"Goals Scored" json:"goals_scored"`
	Assists     int    `csv:"Assists" json:"assists"`
	CleanSheets int    `csv:"Clean Sheets" json:"clean_sheets"`
}

// LoadTeamTables downloads urlTemplate (one %s for the season label) for each
// season and tags the rows with it.
func LoadTeamTables(ctx context.Context, g Getter, urlTemplate string, seasons []string) ([]TeamPerformanceRow, error) {
	log := logging.WithComponent("team_performance")
	var out []TeamPerformanceRow
	for _, season := range seasons {
		url := fmt.Sprintf(urlTemplate, season)
		b, err := g.GetBytes(ctx, url, "")
		if err != nil {
			return nil, fmt.Errorf("team table %s: %w", season, err)
		}
		rows, err := dataset.UnmarshalRemote[TeamTableRow](b, teamTableRequired...)
		if err != nil {
			return nil, fmt.Errorf("team table %s: %w", season, err)
		}
		for _, r := range rows {
			out = append(out, TeamPerformanceRow{
				Team:        r.Team,
				Season:      season,
				TotalPoints: r.TotalPoints,
				GKPoints:    r.GKPoints,
				DEFPoints:   r.DEFPoints,
				MIDPoints:   r.MIDPoints,
				FWDPoints:   r.FWDPoints,
				GoalsScored: r.GoalsScored,
				Assists:     r.Assists,
				CleanSheets: r.CleanSheets,
			})
		}
		log.WithField("season", season).WithField("teams", len(rows)).Debug("loaded team table")
	}
	return out, nil
}

// PromotedTeamPerformance keeps the sides that were promoted into the season
// they are listed under, best total first.
func PromotedTeamPerformance(rows []TeamPerformanceRow, promos teams.Promotions) ([]TeamPerformanceRow, error) {
	var out []TeamPerformanceRow
	for _, r := range rows {
		start, err := model.SeasonStart(r.Season)
		if err != nil {
			return nil, err
		}
		if promos.IsPromoted(start, r.Team) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalPoints > out[j].TotalPoints })
	return out, nil
}
