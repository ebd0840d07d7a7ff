package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// WelchTTest is the two-sided unequal-variance t-test of mean(a) vs mean(b).
// The statistic is positive when a has the larger mean. It returns NaN for
// both values when either group has fewer than two observations or both
// groups have zero variance.
func WelchTTest(a, b []float64) (t, p float64) {
	n1, n2 := float64(len(a)), float64(len(b))
	if len(a) < 2 || len(b) < 2 {
		return math.NaN(), math.NaN()
	}
	m1, v1 := stat.MeanVariance(a, nil)
	m2, v2 := stat.MeanVariance(b, nil)

	se1, se2 := v1/n1, v2/n2
	se := se1 + se2
	if se == 0 {
		return math.NaN(), math.NaN()
	}
	t = (m1 - m2) / math.Sqrt(se)
	df := se * se / (se1*se1/(n1-1) + se2*se2/(n2-1))

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.CDF(-math.Abs(t))
	return t, math.Min(p, 1)
}
