package analysis

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyler180/fpl-championship-analysis/internal/fpl"
	"github.com/tyler180/fpl-championship-analysis/internal/match"
	"github.com/tyler180/fpl-championship-analysis/internal/model"
	"github.com/tyler180/fpl-championship-analysis/internal/teams"
)

func ps(name, pos string, value, points, promoted int) model.PlayerSeason {
	return model.PlayerSeason{
		Name: name, Position: pos, ValueFirstGW: value, TotalPoints: points,
		PromotedFromChampionship: promoted, Season: "2019-20",
		CountGWsMinMinutes: 25, MinGW: 1, TeamStrength: 2,
	}
}

func TestTestFilter(t *testing.T) {
	ok := ps("Keeper", "MID", 50, 100, 1)
	few := ps("Few", "MID", 50, 100, 1)
	few.CountGWsMinMinutes = 5
	late := ps("Late", "MID", 50, 100, 1)
	late.MinGW = 3
	strong := ps("Strong", "MID", 50, 100, 0)
	strong.TeamStrength = 5
	excluded := ps("Cole Palmer", "MID", 50, 100, 0)
	excluded.Season = "2023-24"

	f := TestFilter{
		MinGameweeks:         20,
		RequireFirstGameweek: true,
		MaxTeamStrength:      3,
		Exclude: func(name, season string) bool {
			return name == "Cole Palmer" && season == "2023-24"
		},
	}
	got := f.Apply([]model.PlayerSeason{ok, few, late, strong, excluded})
	require.Len(t, got, 1)
	assert.Equal(t, "Keeper", got[0].Name)

	f.RequireFirstGameweek = false
	f.MaxTeamStrength = 0
	assert.Len(t, f.Apply([]model.PlayerSeason{ok, late, strong}), 3)
}

func TestTestFilter_UnknownTeamStrength(t *testing.T) {
	known := ps("A", "MID", 50, 100, 0)
	known.Team = "Known"
	mystery := ps("B", "MID", 50, 100, 1)
	mystery.Team = "Mystery"
	rows := []model.PlayerSeason{known, mystery}
	fpl.MergeTeamStrength(rows, []fpl.TeamStrength{{Name: "Known", Strength: 3}}, nil)
	require.Equal(t, model.UnknownTeamStrength, rows[1].TeamStrength)

	f := TestFilter{MinGameweeks: 20, RequireFirstGameweek: true, MaxTeamStrength: 3}
	got := f.Apply(rows)
	require.Len(t, got, 1)
	assert.Equal(t, "Known", got[0].Team)

	f.MaxTeamStrength = 0
	assert.Len(t, f.Apply(rows), 2, "no threshold keeps unknown strength")

	q := FilterPlayersFPL(rows, PlayerQuery{MaxTeamStrength: 3})
	require.Len(t, q, 1)
	assert.Equal(t, "A", q[0].Name)
}

func TestTopRanked_KeepsTies(t *testing.T) {
	scores := []float64{5, 9, 7, 9, 7, 1}
	got := TopRanked(scores, func(f float64) float64 { return f }, 3)
	assert.Equal(t, []float64{9, 9, 7, 7}, got, "rank(7) is 3 under the min method")

	assert.Empty(t, TopRanked([]float64{}, func(f float64) float64 { return f }, 3))
	assert.Equal(t, []float64{9, 9}, TopRanked(scores, func(f float64) float64 { return f }, 1))
}

func TestTopPlayers(t *testing.T) {
	rows := []model.PlayerSeason{
		ps("A", "MID", 55, 150, 1),
		ps("B", "MID", 60, 190, 1),
		ps("C", "MID", 75, 200, 1), // above range
		ps("D", "MID", 55, 210, 0), // not promoted
		ps("E", "FWD", 50, 120, 1),
	}
	got := TopPlayers(rows, model.PosMID, 4.5, 6.0, 10)
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Player)
	assert.Equal(t, 6.0, got[0].Value)
	assert.Equal(t, 5.0, got[0].AvgPointsPerGame)

	all := TopPlayers(rows, AllPositions, 4.5, 6.0, 10)
	assert.Len(t, all, 3)
}

func TestFilterPlayersFPL(t *testing.T) {
	rows := []model.PlayerSeason{
		ps("A", "MID", 50, 90, 1),
		ps("B", "MID", 50, 120, 0),
		ps("C", "DEF", 50, 130, 1),
	}
	got := FilterPlayersFPL(rows, PlayerQuery{Position: "MID", ValueFirstGW: 50})
	require.Len(t, got, 2)
	assert.Equal(t, "B", got[0].Name)

	got = FilterPlayersFPL(rows, PlayerQuery{PromotedOnly: true, Limit: 1})
	require.Len(t, got, 1)
	assert.Equal(t, "C", got[0].Name)
}

func TestFormatChampionshipPerformance(t *testing.T) {
	fplRow := &model.PlayerSeason{Name: "Aleksandar Mitrovic", Position: "FWD", Season: "2018-19",
		TotalPoints: 141, GoalsScored: 11, Assists: 3, ValueFirstGW: 65}
	merged := []match.Merged{
		{ChampionshipRow: model.ChampionshipRow{Player: "Tom Cairney", Team: "Fulham", Season: "2017-2018", Count: 5}},
		{ChampionshipRow: model.ChampionshipRow{Player: "Aleksandar Mitrović", Team: "Fulham", Season: "2017-2018", Count: 12},
			FuzzyMatch: "Aleksandar Mitrovic", MatchScore: 100, FPL: fplRow},
	}
	got := FormatChampionshipPerformance(merged, model.Goals)
	require.Len(t, got, 1, "unmatched rows are dropped")
	r := got[0]
	assert.Equal(t, "2017-18", r.ChampionshipSeason)
	assert.Equal(t, 6.5, r.FPLValue)
	assert.Equal(t, "Aleksandar Mitrović (2018-19)", r.Label)
	assert.Equal(t, "Mitrović: 18/19", r.ShortLabel)

	path := filepath.Join(t.TempDir(), "analysis", "goals_championship_fpl_points.csv")
	require.NoError(t, WritePerformance(path, model.Goals, got))
	back, err := ReadPerformance(path, model.Goals)
	require.NoError(t, err)
	assert.Equal(t, got, back)

	_, err = ReadPerformance(path, model.Assists)
	assert.ErrorContains(t, err, "Championship Assists")
}

type fakeGetter map[string]string

func (f fakeGetter) GetBytes(_ context.Context, url, _ string) ([]byte, error) {
	b, ok := f[url]
	if !ok {
		return nil, fmt.Errorf("404 %s", url)
	}
	return []byte(b), nil
}

func TestTeamPerformance(t *testing.T) {
	const hdr = "team,total_points,gk_points,def_points,mid_points,fwd_points,goals_scored,assists,clean_sheets\n"
	g := fakeGetter{
		"tables/2018-19.csv": hdr + "Fulham,1500,100,300,700,400,34,20,5\nLiverpool,2500,200,700,1000,600,89,60,21\nWolves,1900,150,500,800,450,47,30,12\n",
		"tables/2019-20.csv": hdr + "Sheffield Utd,2000,180,600,800,420,39,25,13\n",
	}
	rows, err := LoadTeamTables(context.Background(), g, "tables/%s.csv", []string{"2018-19", "2019-20"})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	promos := teams.Promotions{2018: {"Wolves", "Fulham", "Cardiff"}, 2019: {"Sheffield Utd"}}
	got, err := PromotedTeamPerformance(rows, promos)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Sheffield Utd", got[0].Team)
	assert.Equal(t, "2019-20", got[0].Season)
	assert.Equal(t, "Wolves", got[1].Team)
	assert.Equal(t, "Fulham", got[2].Team)

	_, err = LoadTeamTables(context.Background(), g, "tables/%s.csv", []string{"2020-21"})
	assert.Error(t, err)
}

func TestBoxPlotSummary(t *testing.T) {
	rows := []model.PlayerSeason{
		ps("P1", "MID", 50, 40, 1),
		ps("P2", "MID", 50, 60, 1),
		ps("P3", "MID", 50, 80, 1),
		ps("N1", "MID", 50, 100, 0),
		ps("X", "MID", 55, 300, 0),
		ps("Y", "FWD", 50, 300, 1),
	}
	got := BoxPlotSummary(rows, model.PosMID, 50, 20)
	require.Len(t, got, 2)
	p := got[0]
	assert.Equal(t, GroupPromoted, p.Group)
	assert.Equal(t, 3, p.N)
	assert.Equal(t, 40.0, p.Min)
	assert.True(t, p.Min <= p.Q1 && p.Q1 <= p.Median && p.Median <= p.Q3 && p.Q3 <= p.Max)
	assert.Equal(t, 80.0, p.Max)
	assert.Equal(t, 60.0, p.Mean)
	assert.Equal(t, 5.0, p.Price)

	assert.Equal(t, GroupNotPromoted, got[1].Group)
	assert.Equal(t, 1, got[1].N)

	assert.Empty(t, BoxPlotSummary(rows, model.PosGK, 50, 20))
}

func TestForwardCorrelation(t *testing.T) {
	rows := []PerformanceRow{
		{Position: "FWD", FPLPoints: 100, FPLValue: 6.0, ChampionshipCount: 10},
		{Position: "FWD", FPLPoints: 150, FPLValue: 6.5, ChampionshipCount: 20},
		{Position: "FWD", FPLPoints: 200, FPLValue: 7.0, ChampionshipCount: 30},
		{Position: "MID", FPLPoints: 10, FPLValue: 12, ChampionshipCount: 1},
	}
	got, err := ForwardCorrelation(rows)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "FPL Points", got[0].Variable)
	assert.Equal(t, 1.0, got[0].FPLPoints)
	assert.InDelta(t, 1.0, got[0].ChampionshipGoals, 1e-9)
	assert.InDelta(t, 1.0, got[2].FPLValue, 1e-9)

	_, err = ForwardCorrelation(rows[3:])
	assert.Error(t, err)
}

func TestForwardCorrelation_ConstantColumn(t *testing.T) {
	rows := []PerformanceRow{
		{Position: "FWD", FPLPoints: 100, FPLValue: 6.0, ChampionshipCount: 10},
		{Position: "FWD", FPLPoints: 150, FPLValue: 6.0, ChampionshipCount: 20},
	}
	got, err := ForwardCorrelation(rows)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got[0].FPLValue))
}
