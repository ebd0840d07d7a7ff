package pipeline

import (
	"context"

	"github.com/tyler180/fpl-championship-analysis/internal/analysis"
	"github.com/tyler180/fpl-championship-analysis/internal/config"
	"github.com/tyler180/fpl-championship-analysis/internal/dataset"
	"github.com/tyler180/fpl-championship-analysis/internal/join"
	"github.com/tyler180/fpl-championship-analysis/internal/match"
	"github.com/tyler180/fpl-championship-analysis/internal/model"
	"github.com/tyler180/fpl-championship-analysis/internal/stats"
	"github.com/tyler180/fpl-championship-analysis/internal/teams"
)

// ChampionshipPlayerPerformance links promoted Championship scorers and
// assisters to their next FPL season and writes
// <metric>_championship_fpl_points.csv.
func ChampionshipPlayerPerformance(ctx context.Context, env *Env, e Event) (Summary, error) {
	cfg := env.Cfg
	metrics, err := e.metrics()
	if err != nil {
		return nil, err
	}
	export := e.export(true)

	fplRows, err := join.LoadCombineFPL(cfg.DataDir, cfg.FPLSeasons(), cfg.Promotions, export)
	if err != nil {
		return nil, err
	}
	rec := teams.NewReconciler(cfg.Promotions.Teams()...)

	written := map[string]int{}
	for _, m := range metrics {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		champ, err := join.LoadCombineChampionship(cfg.DataDir, m, cfg.ChampionshipSeasons, export)
		if err != nil {
			return nil, err
		}
		promoted, err := join.ProcessPromotions(champ, rec, cfg.Promotions)
		if err != nil {
			return nil, err
		}
		merged := match.MatchAndMerge(promoted, fplRows, cfg.FuzzyMatchThreshold)
		rows := analysis.FormatChampionshipPerformance(merged, m)
		if err := analysis.WritePerformance(dataset.AnalysisPath(cfg.DataDir, dataset.PerformanceFile(m)), m, rows); err != nil {
			return nil, err
		}
		env.Log.WithField("metric", m.Slug()).
			WithField("promoted_rows", len(promoted)).
			WithField("matched", len(rows)).
			Info("championship performance written")
		written[m.Slug()] = len(rows)
	}
	return Summary{"ok": true, "rows": written, "unmapped_teams": rec.Unmapped()}, nil
}

// TestFilterFor builds the hypothesis-test filter from parameters.yaml.
func TestFilterFor(p config.Parameters) analysis.TestFilter {
	return analysis.TestFilter{
		MinGameweeks:         p.NumberGameweeksPlayedMin,
		RequireFirstGameweek: p.RequireFirstGameweek,
		MaxTeamStrength:      p.TeamStrengthThreshold,
		Exclude:              p.Excluded,
	}
}

var batteries = []struct {
	name string
	file string
	test stats.TestFunc
}{
	{stats.WelchName, dataset.WelchTTestFile, stats.WelchTTest},
	{stats.MannWhitneyName, dataset.MannWhitneyFile, stats.MannWhitneyU},
}

// StatsTests runs both two-sample tests over every (position, price) bucket
// and writes test_welchs_ttest.csv and test_mw_u_test.csv.
func StatsTests(ctx context.Context, env *Env, e Event) (Summary, error) {
	cfg := env.Cfg
	rows, err := join.LoadCombineFPL(cfg.DataDir, cfg.FPLSeasons(), cfg.Promotions, e.export(false))
	if err != nil {
		return nil, err
	}
	filtered := TestFilterFor(cfg.Parameters).Apply(rows)
	env.Log.WithField("rows", len(rows)).WithField("filtered", len(filtered)).Info("filtered for testing")

	out := Summary{"ok": true, "player_seasons": len(filtered)}
	for _, b := range batteries {
		res := stats.FormatResults(stats.RunBattery(filtered, b.name, b.test), cfg.SampleSizeThreshold, cfg.SignificanceLevel)
		if err := dataset.WriteCSV(dataset.AnalysisPath(cfg.DataDir, b.file), res); err != nil {
			return nil, err
		}
		sig := 0
		for _, r := range res {
			if r.Significant {
				sig++
			}
		}
		out[b.file] = Summary{"partitions": len(res), "significant": sig}
	}
	return out, nil
}

// TeamPerformance writes FPL points by promoted team.
func TeamPerformance(ctx context.Context, env *Env, e Event) (Summary, error) {
	cfg := env.Cfg
	rows, err := analysis.LoadTeamTables(ctx, env.HTTP, cfg.TeamPerformanceURL, cfg.FPLSeasons())
	if err != nil {
		return nil, err
	}
	promoted, err := analysis.PromotedTeamPerformance(rows, cfg.Promotions)
	if err != nil {
		return nil, err
	}
	if err := dataset.WriteCSV(dataset.AnalysisPath(cfg.DataDir, dataset.TeamPerformanceFile), promoted); err != nil {
		return nil, err
	}
	return Summary{"ok": true, "teams": len(promoted)}, nil
}

// BoxPlot writes the promoted vs not-promoted distribution summary for the
// configured position and price.
func BoxPlot(ctx context.Context, env *Env, e Event) (Summary, error) {
	cfg := env.Cfg
	rows, err := join.LoadCombineFPL(cfg.DataDir, cfg.FPLSeasons(), cfg.Promotions, false)
	if err != nil {
		return nil, err
	}
	box := analysis.BoxPlotSummary(rows, cfg.BoxPlotPosition, cfg.BoxPlotValue, cfg.NumberGameweeksPlayedMin)
	if err := dataset.WriteCSV(dataset.AnalysisPath(cfg.DataDir, dataset.BoxPlotFile), box); err != nil {
		return nil, err
	}
	return Summary{"ok": true, "groups": len(box)}, nil
}

// ForwardCorrelation writes the correlation matrix between forwards'
// Championship goals and their FPL points and price.
func ForwardCorrelation(ctx context.Context, env *Env, e Event) (Summary, error) {
	cfg := env.Cfg
	perf, err := analysis.ReadPerformance(dataset.AnalysisPath(cfg.DataDir, dataset.PerformanceFile(model.Goals)), model.Goals)
	if err != nil {
		return nil, err
	}
	m, err := analysis.ForwardCorrelation(perf)
	if err != nil {
		return nil, err
	}
	if err := dataset.WriteCSV(dataset.AnalysisPath(cfg.DataDir, dataset.FwdCorrFile), m); err != nil {
		return nil, err
	}
	return Summary{"ok": true, "variables": len(m)}, nil
}
