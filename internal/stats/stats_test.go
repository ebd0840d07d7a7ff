package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tyler180/fpl-championship-analysis/internal/model"
)

func TestWelchTTest(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{2, 4, 6, 8, 10}

	tt, p := WelchTTest(a, b)
	assert.InDelta(t, -1.8974, tt, 1e-4)
	assert.Greater(t, p, 0.09)
	assert.Less(t, p, 0.13)

	tt2, p2 := WelchTTest(b, a)
	assert.InDelta(t, -tt, tt2, 1e-12)
	assert.InDelta(t, p, p2, 1e-12)
}

func TestWelchTTest_Degenerate(t *testing.T) {
	tt, p := WelchTTest([]float64{1}, []float64{1, 2, 3})
	assert.True(t, math.IsNaN(tt))
	assert.True(t, math.IsNaN(p))

	tt, _ = WelchTTest([]float64{4, 4}, []float64{4, 4, 4})
	assert.True(t, math.IsNaN(tt))
}

func TestMannWhitneyU_Exact(t *testing.T) {
	u, p := MannWhitneyU([]float64{1, 2, 3}, []float64{4, 5, 6})
	assert.Equal(t, 0.0, u)
	assert.InDelta(t, 0.1, p, 1e-12)

	u, p = MannWhitneyU([]float64{4, 5, 6}, []float64{1, 2, 3})
	assert.Equal(t, 9.0, u)
	assert.InDelta(t, 0.1, p, 1e-12)
}

func TestMannWhitneyU_ExactAtLimit(t *testing.T) {
	var a, b []float64
	for i := 0; i < 8; i++ {
		a = append(a, float64(2*i+1))
	}
	for i := 0; i < 12; i++ {
		b = append(b, float64(2*i+2))
	}
	u, p := MannWhitneyU(a, b)
	big := math.Max(u, float64(8*12)-u)
	assert.InDelta(t, 2*exactSF(int(big), 8, 12), p, 1e-12)
	assert.NotEqual(t, asymptoticP(big, 8, 12, 0), p)

	// one more value on the smaller side leaves the exact range
	a = append(a, 100)
	u, p = MannWhitneyU(a, b)
	big = math.Max(u, float64(9*12)-u)
	assert.InDelta(t, asymptoticP(big, 9, 12, 0), p, 1e-12)
}

func TestMannWhitneyU_Asymptotic(t *testing.T) {
	var a, b []float64
	for i := 1; i <= 10; i++ {
		a = append(a, float64(i))
		b = append(b, float64(i+10))
	}
	u, p := MannWhitneyU(a, b)
	assert.Equal(t, 0.0, u)
	assert.InDelta(t, 1.83e-4, p, 1e-5)
}

func TestMannWhitneyU_AllTied(t *testing.T) {
	a := []float64{5, 5, 5, 5, 5, 5, 5, 5}
	u, p := MannWhitneyU(a, a)
	assert.Equal(t, 32.0, u)
	assert.Equal(t, 1.0, p)
}

func TestMannWhitneyU_Empty(t *testing.T) {
	u, p := MannWhitneyU(nil, []float64{1})
	assert.True(t, math.IsNaN(u))
	assert.True(t, math.IsNaN(p))
}

func TestUFrequencies(t *testing.T) {
	assert.Equal(t, []float64{1, 1}, uFrequencies(1, 1))
	assert.Equal(t, []float64{1, 1, 2, 1, 1}, uFrequencies(2, 2))
	sum := 0.0
	for _, c := range uFrequencies(3, 5) {
		sum += c
	}
	assert.Equal(t, 56.0, sum) // C(8,3)
}

func player(pos string, value, points, promoted int) model.PlayerSeason {
	return model.PlayerSeason{Position: pos, ValueFirstGW: value, TotalPoints: points, PromotedFromChampionship: promoted}
}

func TestRunBattery(t *testing.T) {
	rows := []model.PlayerSeason{
		player("MID", 50, 100, 1),
		player("MID", 50, 80, 1),
		player("MID", 50, 60, 0),
		player("MID", 50, 70, 0),
		player("MID", 50, 20, 0),
		player("FWD", 60, 90, 0), // no promoted players: skipped
		player("GK", 45, 120, 1),
		player("GK", 45, 100, 0),
		player("DEF", 40, 50, 1),
		player("DEF", 45, 40, 0),
	}

	var calls [][2]int
	got := RunBattery(rows, "fake", func(a, b []float64) (float64, float64) {
		calls = append(calls, [2]int{len(a), len(b)})
		return 1.5, 0.01
	})

	require.Len(t, got, 2)
	assert.Equal(t, "GK", got[0].Position)
	assert.Equal(t, "MID", got[1].Position)

	mid := got[1]
	assert.Equal(t, 50, mid.ValueFirstGW)
	assert.Equal(t, 2, mid.SampleSizePromoted)
	assert.Equal(t, 3, mid.SampleSizeNotPromoted)
	assert.Equal(t, 90.0, mid.AvgPromoted)
	assert.Equal(t, 50.0, mid.AvgNotPromoted)
	assert.Equal(t, "fake", mid.Test)
	assert.Equal(t, [][2]int{{1, 1}, {2, 3}}, calls)
}

func TestFormatResults(t *testing.T) {
	results := []Result{
		{Test: WelchName, Position: "MID", ValueFirstGW: 55, SampleSizePromoted: 12, SampleSizeNotPromoted: 40,
			AvgPromoted: 101.26, AvgNotPromoted: 90.11, Statistic: 2.1, PValue: 0.05},
		{Test: WelchName, Position: "FWD", ValueFirstGW: 60, SampleSizePromoted: 5, SampleSizeNotPromoted: 14,
			AvgPromoted: 80, AvgNotPromoted: 70, PValue: 0.001},
		{Test: WelchName, Position: "DEF", ValueFirstGW: 45, SampleSizePromoted: 10, SampleSizeNotPromoted: 10,
			AvgPromoted: 60, AvgNotPromoted: 66.66, PValue: 0.2},
	}
	got := FormatResults(results, 20, 0.05)
	require.Len(t, got, 2, "combined 19 is below the threshold")

	mid := got[0]
	assert.Equal(t, 5.5, mid.Price)
	assert.Equal(t, 101.3, mid.AvgPromoted)
	assert.Equal(t, 90.1, mid.AvgNotPromoted)
	assert.Equal(t, Round1(101.26-90.11), mid.Difference)
	assert.True(t, mid.Significant, "p == alpha is significant")

	def := got[1]
	assert.Equal(t, -6.7, def.Difference)
	assert.False(t, def.Significant)

	for _, r := range got {
		assert.GreaterOrEqual(t, r.SampleSizePromoted+r.SampleSizeNotPromoted, 20)
	}
}
