package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyler180/fpl-championship-analysis/internal/model"
	"github.com/tyler180/fpl-championship-analysis/internal/stats"
)

type gwLine struct {
	Name  string `csv:"name"`
	Value int    `csv:"value"`
}

func TestUnmarshalRemote_Latin1(t *testing.T) {
	// "Agüero" encoded as ISO-8859-1
	raw := []byte("name,value\nAg\xfcero,120\n")
	rows, err := UnmarshalRemote[gwLine](raw, "name", "value")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Agüero", rows[0].Name)
	assert.Equal(t, 120, rows[0].Value)
}

func TestUnmarshalRemote_MissingColumns(t *testing.T) {
	_, err := UnmarshalRemote[gwLine]([]byte("name\nX\n"), "name", "value", "GW")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required columns missing (value, GW)")
}

func TestUnmarshalRemote_StripsBOM(t *testing.T) {
	rows, err := UnmarshalRemote[gwLine]([]byte("\xef\xbb\xbfname,value\nX,40\n"), "name")
	require.NoError(t, err)
	assert.Equal(t, "X", rows[0].Name)
}

func TestPlayerSeasonFile(t *testing.T) {
	path := FPLSeasonPath(t.TempDir(), "2018-19")
	in := []model.PlayerSeason{
		{Name: "Aleksandar Mitrović", Team: "Fulham", Position: model.PosFWD, TotalPoints: 118, ValueFirstGW: 65, Season: "2018-19"},
	}
	require.NoError(t, WriteCSV(path, in))

	out, err := ReadCSV[model.PlayerSeason](path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestChampionshipFile(t *testing.T) {
	path := ChampionshipSeasonPath(t.TempDir(), model.Goals, "2017-2018")
	assert.Equal(t, filepath.Join("championship_goals", "2017-2018.csv"), filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))

	in := []model.ChampionshipRow{
		{Player: "Aleksandar Mitrović", Country: "Serbia", Team: "Fulham FC", Count: 12, Season: "2017-2018", Metric: model.Goals},
	}
	require.NoError(t, WriteChampionship(path, model.Goals, in))

	out, err := ReadChampionship(path, model.Goals)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	_, err = ReadChampionship(path, model.Assists)
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "fpl_data", "joined", "seasons_joined.csv"), FPLJoinedPath("data"))
	assert.Equal(t, filepath.Join("data", "championship_assists", "joined", "seasons_joined.csv"), ChampionshipJoinedPath("data", model.Assists))
	assert.Equal(t, "goals_championship_fpl_points.csv", PerformanceFile(model.Goals))
}

func TestWriteCSV_NaNResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis", WelchTTestFile)
	rows := []stats.FormattedResult{{Test: stats.WelchName, Position: "GK", Price: 4.5, Statistic: math.NaN(), PValue: math.NaN()}}
	require.NoError(t, WriteCSV(path, rows))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), ",NaN,NaN,false"), string(b))

	back, err := ReadCSV[stats.FormattedResult](path)
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.True(t, math.IsNaN(back[0].PValue))
	assert.False(t, back[0].Significant)
}
