package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// exactLimit: the exact null distribution is used when the smaller sample
// has at most this many values and there are no ties.
const exactLimit = 8

// MannWhitneyU is the two-sided Mann-Whitney U test. The statistic is U for
// sample a. Small tie-free samples use the exact distribution; otherwise the
// normal approximation with tie and continuity correction. Either sample
// empty gives NaN.
func MannWhitneyU(a, b []float64) (u, p float64) {
	n1, n2 := len(a), len(b)
	if n1 == 0 || n2 == 0 {
		return math.NaN(), math.NaN()
	}

	ranks, tieTerm := rankAll(a, b)
	r1 := 0.0
	for i := 0; i < n1; i++ {
		r1 += ranks[i]
	}
	u1 := r1 - float64(n1*(n1+1))/2
	u2 := float64(n1*n2) - u1
	big := math.Max(u1, u2)

	if min(n1, n2) <= exactLimit && tieTerm == 0 {
		p = 2 * exactSF(int(math.Round(big)), n1, n2)
	} else {
		p = asymptoticP(big, n1, n2, tieTerm)
	}
	return u1, math.Min(math.Max(p, 0), 1)
}

// rankAll ranks a followed by b (average ranks for ties) and returns
// Σ(t³−t) over tie groups.
func rankAll(a, b []float64) ([]float64, float64) {
	type obs struct {
		v   float64
		idx int
	}
	all := make([]obs, 0, len(a)+len(b))
	for i, v := range a {
		all = append(all, obs{v, i})
	}
	for i, v := range b {
		all = append(all, obs{v, len(a) + i})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].v < all[j].v })

	ranks := make([]float64, len(all))
	tieTerm := 0.0
	for i := 0; i < len(all); {
		j := i + 1
		for j < len(all) && all[j].v == all[i].v {
			j++
		}
		avg := float64(i+1+j) / 2 // mean of ranks i+1..j
		for k := i; k < j; k++ {
			ranks[all[k].idx] = avg
		}
		if t := float64(j - i); t > 1 {
			tieTerm += t*t*t - t
		}
		i = j
	}
	return ranks, tieTerm
}

func asymptoticP(u float64, n1, n2 int, tieTerm float64) float64 {
	fn1, fn2 := float64(n1), float64(n2)
	n := fn1 + fn2
	mu := fn1 * fn2 / 2
	sigma := math.Sqrt(fn1 * fn2 / 12 * ((n + 1) - tieTerm/(n*(n-1))))
	if sigma == 0 || math.IsNaN(sigma) {
		return 1
	}
	z := (u - mu - 0.5) / sigma
	return 2 * distuv.UnitNormal.Survival(z)
}

// exactSF returns P(U >= u) under H0 for sample sizes m and n. The counts of
// each U value are the coefficients of the Gaussian binomial [m+n choose m]_q.
func exactSF(u, m, n int) float64 {
	freq := uFrequencies(m, n)
	total, tail := 0.0, 0.0
	for k, c := range freq {
		total += c
		if k >= u {
			tail += c
		}
	}
	return tail / total
}

// uFrequencies builds ∏_{i=1..m} (1 − q^{n+i}) / (1 − q^i) as a polynomial in q.
func uFrequencies(m, n int) []float64 {
	deg := m * n
	// work with enough headroom for the intermediate numerator terms
	poly := make([]float64, deg+m+n+1)
	poly[0] = 1
	for i := 1; i <= m; i++ {
		// multiply by (1 − q^{n+i})
		s := n + i
		for k := len(poly) - 1; k >= s; k-- {
			poly[k] -= poly[k-s]
		}
		// divide by (1 − q^i): running sum with stride i
		for k := i; k < len(poly); k++ {
			poly[k] += poly[k-i]
		}
	}
	return poly[:deg+1]
}
