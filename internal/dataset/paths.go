package dataset

import (
	"path/filepath"

	"github.com/tyler180/fpl-championship-analysis/internal/model"
)

// Output file names under <data>/analysis.
const (
	TeamPerformanceFile = "team_performance_fpl_points.csv"
	WelchTTestFile      = "test_welchs_ttest.csv"
	MannWhitneyFile     = "test_mw_u_test.csv"
	BoxPlotFile         = "comparison_box_plot.csv"
	FwdCorrFile         = "fwd_corr_matrix.csv"

	joinedDir  = "joined"
	joinedFile = "seasons_joined.csv"
)

func ChampionshipDir(dataDir string, m model.Metric) string {
	return filepath.Join(dataDir, "championship_"+m.Slug())
}

// ChampionshipSeasonPath is data/championship_<metric>/<season>.csv.
func ChampionshipSeasonPath(dataDir string, m model.Metric, season string) string {
	return filepath.Join(ChampionshipDir(dataDir, m), season+".csv")
}

func ChampionshipJoinedPath(dataDir string, m model.Metric) string {
	return filepath.Join(ChampionshipDir(dataDir, m), joinedDir, joinedFile)
}

func FPLDir(dataDir string) string { return filepath.Join(dataDir, "fpl_data") }

// FPLSeasonPath is data/fpl_data/<YYYY-YY>.csv.
func FPLSeasonPath(dataDir, season string) string {
	return filepath.Join(FPLDir(dataDir), season+".csv")
}

func FPLJoinedPath(dataDir string) string {
	return filepath.Join(FPLDir(dataDir), joinedDir, joinedFile)
}

func AnalysisPath(dataDir, name string) string {
	return filepath.Join(dataDir, "analysis", name)
}

// PerformanceFile is <metric>_championship_fpl_points.csv.
func PerformanceFile(m model.Metric) string {
	return m.Slug() + "_championship_fpl_points.csv"
}
