package teams

import "sort"

// Promotions maps a season-start year to the teams promoted into the
// Premier League for that season. It is static and read-only after load.
type Promotions map[int][]string

// IsPromoted reports whether team was promoted for the season starting in year.
// Unknown years are simply not promoted.
func (p Promotions) IsPromoted(year int, team string) bool {
	for _, t := range p[year] {
		if t == team {
			return true
		}
	}
	return false
}

// Flag is IsPromoted as the 0/1 label used in every output file.
func (p Promotions) Flag(year int, team string) int {
	if p.IsPromoted(year, team) {
		return 1
	}
	return 0
}

// Years returns the mapped season-start years in ascending order.
func (p Promotions) Years() []int {
	out := make([]int, 0, len(p))
	for y := range p {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Teams returns every team that appears anywhere in the mapping.
func (p Promotions) Teams() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, y := range p.Years() {
		for _, t := range p[y] {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
