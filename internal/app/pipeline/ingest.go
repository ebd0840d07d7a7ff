package pipeline

import (
	"context"

	"github.com/tyler180/fpl-championship-analysis/internal/fpl"
	"github.com/tyler180/fpl-championship-analysis/internal/worldfootball"
)

// GetChampionshipData scrapes every configured Championship season for each
// requested metric into data/championship_<metric>/<season>.csv.
func GetChampionshipData(ctx context.Context, env *Env, e Event) (Summary, error) {
	metrics, err := e.metrics()
	if err != nil {
		return nil, err
	}
	s := &worldfootball.Scraper{
		Client:  env.HTTP,
		DataDir: env.Cfg.DataDir,
		URLFor:  env.Cfg.ChampionshipURL,
	}
	written := map[string]int{}
	for _, m := range metrics {
		n, err := s.FetchAllSeasons(ctx, m, env.Cfg.ChampionshipSeasons)
		if err != nil {
			return nil, err
		}
		written[m.Slug()] = n
	}
	return Summary{"ok": true, "seasons_written": written}, nil
}

// GetFPLData builds the per-season FPL player tables.
func GetFPLData(ctx context.Context, env *Env, e Event) (Summary, error) {
	start, end := e.seasonRange(env.Cfg.Parameters)
	l := &fpl.Loader{
		Client:     env.HTTP,
		BaseURL:    env.Cfg.FPLBaseURL,
		DataDir:    env.Cfg.DataDir,
		MinMinutes: env.Cfg.MinimumMinutesPerGameweek,
		Estimates:  env.Cfg.EstimatedTeamStrength,
	}
	n, err := l.ProcessSeasons(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return Summary{"ok": true, "start_season": start, "end_season": end, "seasons_written": n}, nil
}
