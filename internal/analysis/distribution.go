package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/tyler180/fpl-championship-analysis/internal/model"
)

// Group labels for the promoted / not promoted comparison.
const (
	GroupPromoted    = "Promoted"
	GroupNotPromoted = "Not Promoted"
)

// BoxStats is the five-number summary of total points for one group.
type BoxStats struct {
	Position string  `csv:"Position" json:"position"`
	Price    float64 `csv:"Price" json:"price"`
	Group    string  `csv:"Group" json:"group"`
	N        int     `csv:"N" json:"n"`
	Min      float64 `csv:"Min" json:"min"`
	Q1       float64 `csv:"Q1" json:"q1"`
	Median   float64 `csv:"Median" json:"median"`
	Q3       float64 `csv:"Q3" json:"q3"`
	Max      float64 `csv:"Max" json:"max"`
	Mean     float64 `csv:"Mean" json:"mean"`
}

// BoxPlotSummary compares total points of promoted and non-promoted players
// at one position and starting price who met the gameweek minimum. Groups
// with no players are omitted.
func BoxPlotSummary(rows []model.PlayerSeason, position string, value, minGameweeks int) []BoxStats {
	var groups [2][]float64
	for _, r := range rows {
		if r.Position != position || r.ValueFirstGW != value || r.CountGWsMinMinutes < minGameweeks {
			continue
		}
		i := 1
		if r.PromotedFromChampionship == 1 {
			i = 0
		}
		groups[i] = append(groups[i], float64(r.TotalPoints))
	}

	var out []BoxStats
	for i, label := range []string{GroupPromoted, GroupNotPromoted} {
		x := groups[i]
		if len(x) == 0 {
			continue
		}
		sort.Float64s(x)
		out = append(out, BoxStats{
			Position: position,
			Price:    float64(value) / 10,
			Group:    label,
			N:        len(x),
			Min:      x[0],
			Q1:       stat.Quantile(0.25, stat.LinInterp, x, nil),
			Median:   stat.Quantile(0.5, stat.LinInterp, x, nil),
			Q3:       stat.Quantile(0.75, stat.LinInterp, x, nil),
			Max:      x[len(x)-1],
			Mean:     stat.Mean(x, nil),
		})
	}
	return out
}

// Variables of the forward correlation matrix, in row/column order.
var corrVariables = []string{"FPL Points", "FPL Value", "Championship Goals"}

// CorrRow is one row of the correlation matrix.
type CorrRow struct {
	Variable          string  `csv:"Variable" json:"variable"`
	FPLPoints         float64 `csv:"FPL Points" json:"fpl_points"`
	FPLValue          float64 `csv:"FPL Value" json:"fpl_value"`
	ChampionshipGoals float64 `csv:"Championship Goals" json:"championship_goals"`
}

// ForwardCorrelation returns the Pearson correlation matrix between FPL
// points, FPL price and Championship goals for forwards. At least two
// forwards are required.
func ForwardCorrelation(rows []PerformanceRow) ([]CorrRow, error) {
	var cols [3][]float64
	for _, r := range rows {
		if r.Position != model.PosFWD {
			continue
		}
		cols[0] = append(cols[0], float64(r.FPLPoints))
		cols[1] = append(cols[1], r.FPLValue)
		cols[2] = append(cols[2], float64(r.ChampionshipCount))
	}
	if len(cols[0]) < 2 {
		return nil, fmt.Errorf("forward correlation: need at least 2 forwards, have %d", len(cols[0]))
	}

	var m [3][3]float64
	for i := range cols {
		for j := range cols {
			if i == j {
				m[i][j] = 1
				continue
			}
			c := stat.Correlation(cols[i], cols[j], nil)
			if math.IsInf(c, 0) {
				c = math.NaN()
			}
			m[i][j] = c
		}
	}

	out := make([]CorrRow, len(corrVariables))
	for i, v := range corrVariables {
		out[i] = CorrRow{Variable: v, FPLPoints: m[i][0], FPLValue: m[i][1], ChampionshipGoals: m[i][2]}
	}
	return out, nil
}
