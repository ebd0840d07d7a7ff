package analysis

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/tyler180/fpl-championship-analysis/internal/dataset"
	"github.com/tyler180/fpl-championship-analysis/internal/match"
	"github.com/tyler180/fpl-championship-analysis/internal/model"
)

// PerformanceRow pairs a promoted player's Championship tally with their
// first Premier League season in FPL.
type PerformanceRow struct {
	Player             string       `json:"player"`
	Team               string       `json:"team"`
	Position           string       `json:"position"`
	ChampionshipSeason string       `json:"championship_season"`
	Metric             model.Metric `json:"metric"`
	ChampionshipCount  int          `json:"championship_count"`
	FPLSeason          string       `json:"fpl_season"`
	FPLPoints          int          `json:"fpl_points"`
	FPLGoals           int          `json:"fpl_goals"`
	FPLAssists         int          `json:"fpl_assists"`
	FPLValue           float64      `json:"fpl_value"`
	Label              string       `json:"label"`
	ShortLabel         string       `json:"short_label"`
}

// FormatChampionshipPerformance drops unmatched rows and orders the rest by
// the Championship tally, highest first.
func FormatChampionshipPerformance(merged []match.Merged, m model.Metric) []PerformanceRow {
	out := make([]PerformanceRow, 0, len(merged))
	for _, r := range merged {
		if r.FPL == nil {
			continue
		}
		out = append(out, PerformanceRow{
			Player:             r.Player,
			Team:               r.Team,
			Position:           r.FPL.Position,
			ChampionshipSeason: model.ShortSeason(r.Season),
			Metric:             m,
			ChampionshipCount:  r.Count,
			FPLSeason:          r.FPL.Season,
			FPLPoints:          r.FPL.TotalPoints,
			FPLGoals:           r.FPL.GoalsScored,
			FPLAssists:         r.FPL.Assists,
			FPLValue:           r.FPL.Price(),
			Label:              r.Player + " (" + r.FPL.Season + ")",
			ShortLabel:         surname(r.Player) + ": " + model.SlashSeason(r.FPL.Season),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ChampionshipCount > out[j].ChampionshipCount })
	return out
}

func surname(name string) string {
	f := strings.Fields(name)
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}

func performanceHeader(m model.Metric) []string {
	return []string{
		"Player", "Team", "Position", "Championship Season", "Championship " + string(m),
		"FPL Season", "FPL Points", "FPL Goals", "FPL Assists", "FPL Value",
		"Player (FPL Season)", "Player (FPL Season) - Short",
	}
}

// WritePerformance writes <metric>_championship_fpl_points.csv.
func WritePerformance(path string, m model.Metric, rows []PerformanceRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	_ = w.Write(performanceHeader(m))
	for _, r := range rows {
		_ = w.Write([]string{
			r.Player, r.Team, r.Position, r.ChampionshipSeason, strconv.Itoa(r.ChampionshipCount),
			r.FPLSeason, strconv.Itoa(r.FPLPoints), strconv.Itoa(r.FPLGoals), strconv.Itoa(r.FPLAssists),
			strconv.FormatFloat(r.FPLValue, 'f', 1, 64), r.Label, r.ShortLabel,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadPerformance loads a file written by WritePerformance.
func ReadPerformance(path string, m model.Metric) ([]PerformanceRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	want := performanceHeader(m)
	if err := dataset.RequireColumns(recs[0], want...); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	idx := map[string]int{}
	for i, h := range recs[0] {
		idx[h] = i
	}
	atoi := func(rec []string, col string) int {
		n, _ := strconv.Atoi(rec[idx[col]])
		return n
	}
	out := make([]PerformanceRow, 0, len(recs)-1)
	for _, rec := range recs[1:] {
		if len(rec) < len(want) {
			continue
		}
		val, _ := strconv.ParseFloat(rec[idx["FPL Value"]], 64)
		out = append(out, PerformanceRow{
			Player:             rec[idx["Player"]],
			Team:               rec[idx["Team"]],
			Position:           rec[idx["Position"]],
			ChampionshipSeason: rec[idx["Championship Season"]],
			Metric:             m,
			ChampionshipCount:  atoi(rec, "Championship "+string(m)),
			FPLSeason:          rec[idx["FPL Season"]],
			FPLPoints:          atoi(rec, "FPL Points"),
			FPLGoals:           atoi(rec, "FPL Goals"),
			FPLAssists:         atoi(rec, "FPL Assists"),
			FPLValue:           val,
			Label:              rec[idx["Player (FPL Season)"]],
			ShortLabel:         rec[idx["Player (FPL Season) - Short"]],
		})
	}
	return out, nil
}
