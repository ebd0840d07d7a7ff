package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/tyler180/fpl-championship-analysis/internal/logging"
	"github.com/tyler180/fpl-championship-analysis/internal/model"
)

// Test names as written to result files.
const (
	WelchName       = "Welch's t-test"
	MannWhitneyName = "Mann-Whitney U"
)

// TestFunc is a two-sample test returning (statistic, p-value).
type TestFunc func(a, b []float64) (float64, float64)

// Result is one (position, price) partition tested promoted vs not promoted.
type Result struct {
	Test                  string
	Position              string
	ValueFirstGW          int
	SampleSizePromoted    int
	SampleSizeNotPromoted int
	AvgPromoted           float64
	AvgNotPromoted        float64
	Statistic             float64
	PValue                float64
}

// Combined is the partition's total sample size.
func (r Result) Combined() int { return r.SampleSizePromoted + r.SampleSizeNotPromoted }

type partition struct {
	pos   string
	value int
}

// RunBattery runs test on total points for every (position, value_first_gw)
// partition present in rows. Partitions where either promotion group is
// empty are skipped. Positions are visited GK, DEF, MID, FWD (then any other
// label alphabetically) and prices ascending.
func RunBattery(rows []model.PlayerSeason, name string, test TestFunc) []Result {
	promoted := map[partition][]float64{}
	other := map[partition][]float64{}
	posSet := map[string]struct{}{}
	valSet := map[int]struct{}{}
	for _, r := range rows {
		k := partition{r.Position, r.ValueFirstGW}
		posSet[r.Position] = struct{}{}
		valSet[r.ValueFirstGW] = struct{}{}
		if r.PromotedFromChampionship == 1 {
			promoted[k] = append(promoted[k], float64(r.TotalPoints))
		} else {
			other[k] = append(other[k], float64(r.TotalPoints))
		}
	}

	log := logging.WithComponent("stats").WithField("test", name)
	var out []Result
	skipped := 0
	for _, pos := range orderedPositions(posSet) {
		for _, v := range orderedValues(valSet) {
			k := partition{pos, v}
			a, b := promoted[k], other[k]
			if len(a) == 0 || len(b) == 0 {
				if len(a)+len(b) > 0 {
					skipped++
				}
				continue
			}
			s, p := test(a, b)
			out = append(out, Result{
				Test:                  name,
				Position:              pos,
				ValueFirstGW:          v,
				SampleSizePromoted:    len(a),
				SampleSizeNotPromoted: len(b),
				AvgPromoted:           stat.Mean(a, nil),
				AvgNotPromoted:        stat.Mean(b, nil),
				Statistic:             s,
				PValue:                p,
			})
		}
	}
	log.WithField("partitions", len(out)).WithField("skipped", skipped).Info("battery complete")
	return out
}

func orderedPositions(set map[string]struct{}) []string {
	var out []string
	for _, p := range model.Positions {
		if _, ok := set[p]; ok {
			out = append(out, p)
			delete(set, p)
		}
	}
	var rest []string
	for p := range set {
		rest = append(rest, p)
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func orderedValues(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Round1 rounds half away from zero to one decimal place.
func Round1(x float64) float64 { return math.Round(x*10) / 10 }
