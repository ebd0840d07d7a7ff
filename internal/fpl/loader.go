package fpl

import (
	"context"
	"fmt"
	"strings"

	"github.com/tyler180/fpl-championship-analysis/internal/dataset"
	"github.com/tyler180/fpl-championship-analysis/internal/logging"
	"github.com/tyler180/fpl-championship-analysis/internal/model"
)

// Getter is the slice of fetch.Client the loader needs.
type Getter interface {
	GetBytes(ctx context.Context, url, referer string) ([]byte, error)
}

// Loader pulls vaastav/Fantasy-Premier-League season data.
type Loader struct {
	Client     Getter
	BaseURL    string // .../Fantasy-Premier-League/master/data
	DataDir    string
	MinMinutes int
	Estimates  []model.TeamStrengthEstimate
}

func (l *Loader) url(parts ...string) string {
	return strings.TrimRight(l.BaseURL, "/") + "/" + strings.Join(parts, "/")
}

// FetchSeason builds the per-player table for the season starting in startYear.
func (l *Loader) FetchSeason(ctx context.Context, startYear int) ([]model.PlayerSeason, error) {
	season, err := model.SeasonString(startYear)
	if err != nil {
		return nil, err
	}
	log := logging.WithSeason("fpl", season)

	raw, err := l.Client.GetBytes(ctx, l.url(season, "gws", "merged_gw.csv"), "")
	if err != nil {
		return nil, fmt.Errorf("merged_gw %s: %w", season, err)
	}
	gws, err := dataset.UnmarshalRemote[GameweekRow](raw, gameweekRequired...)
	if err != nil {
		return nil, fmt.Errorf("merged_gw %s: %w", season, err)
	}

	hdr, _ := dataset.Header(dataset.DecodeText(raw))
	if !dataset.HasColumn(hdr, "position") {
		log.Debug("merged_gw has no position column; merging players_raw")
		if err := l.enrich(ctx, gws, season); err != nil {
			return nil, err
		}
	}

	players := Aggregate(gws, season, l.MinMinutes)

	var strengths []TeamStrength
	if b, err := l.Client.GetBytes(ctx, l.url(season, "teams.csv"), ""); err != nil {
		log.WithError(err).Warn("teams.csv unavailable; using estimated strength")
	} else if strengths, err = dataset.UnmarshalRemote[TeamStrength](b, "name", "strength"); err != nil {
		log.WithError(err).Warn("teams.csv unreadable; using estimated strength")
		strengths = nil
	}
	MergeTeamStrength(players, strengths, l.Estimates)

	log.WithField("players", len(players)).Info("aggregated season")
	return players, nil
}

func (l *Loader) enrich(ctx context.Context, gws []GameweekRow, season string) error {
	b, err := l.Client.GetBytes(ctx, l.url(season, "players_raw.csv"), "")
	if err != nil {
		return fmt.Errorf("players_raw %s: %w", season, err)
	}
	players, err := dataset.UnmarshalRemote[PlayerRaw](b, "id", "team", "element_type")
	if err != nil {
		return fmt.Errorf("players_raw %s: %w", season, err)
	}
	b, err = l.Client.GetBytes(ctx, l.url("master_team_list.csv"), "")
	if err != nil {
		return fmt.Errorf("master_team_list: %w", err)
	}
	master, err := dataset.UnmarshalRemote[MasterTeam](b, "season", "team", "team_name")
	if err != nil {
		return fmt.Errorf("master_team_list: %w", err)
	}
	EnrichPositions(gws, players, master, season)
	return nil
}

// ProcessSeasons writes data/fpl_data/<season>.csv for start..end inclusive.
// A season that fails to download is logged and skipped.
func (l *Loader) ProcessSeasons(ctx context.Context, start, end int) (int, error) {
	written := 0
	for y := start; y <= end; y++ {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		players, err := l.FetchSeason(ctx, y)
		if err != nil {
			logging.WithComponent("fpl").WithField("season_start", y).WithError(err).Warn("season skipped")
			continue
		}
		if len(players) == 0 {
			continue
		}
		path := dataset.FPLSeasonPath(l.DataDir, players[0].Season)
		if err := dataset.WriteCSV(path, players); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
