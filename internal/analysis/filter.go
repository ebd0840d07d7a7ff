package analysis

import (
	"sort"

	"github.com/tyler180/fpl-championship-analysis/internal/model"
)

// TestFilter selects the player-seasons that enter the hypothesis tests.
type TestFilter struct {
	MinGameweeks         int  // count_gws_min_minutes >= MinGameweeks
	RequireFirstGameweek bool // min_gw == 1
	MaxTeamStrength      int  // known team_strength <= MaxTeamStrength; 0 disables
	Exclude              func(name, season string) bool
}

// Apply returns the rows passing every criterion, in input order.
func (f TestFilter) Apply(rows []model.PlayerSeason) []model.PlayerSeason {
	out := make([]model.PlayerSeason, 0, len(rows))
	for _, r := range rows {
		if r.CountGWsMinMinutes < f.MinGameweeks {
			continue
		}
		if f.RequireFirstGameweek && r.MinGW != 1 {
			continue
		}
		if f.MaxTeamStrength > 0 && !r.StrengthAtMost(f.MaxTeamStrength) {
			continue
		}
		if f.Exclude != nil && f.Exclude(r.Name, r.Season) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// PlayerQuery is an exploratory filter over the joined FPL table.
type PlayerQuery struct {
	Position        string
	ValueFirstGW    int
	MaxTeamStrength int
	PromotedOnly    bool
	Limit           int
}

// FilterPlayersFPL returns matching rows sorted by total points, highest
// first, truncated to Limit when positive.
func FilterPlayersFPL(rows []model.PlayerSeason, q PlayerQuery) []model.PlayerSeason {
	var out []model.PlayerSeason
	for _, r := range rows {
		if q.Position != "" && r.Position != q.Position {
			continue
		}
		if q.ValueFirstGW > 0 && r.ValueFirstGW != q.ValueFirstGW {
			continue
		}
		if q.MaxTeamStrength > 0 && !r.StrengthAtMost(q.MaxTeamStrength) {
			continue
		}
		if q.PromotedOnly && r.PromotedFromChampionship != 1 {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalPoints > out[j].TotalPoints })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

// TopRanked keeps rows whose competition rank ("min" method, highest score
// first) is within topN, so ties at the cut-off are all kept. The result is
// sorted by score, highest first.
func TopRanked[T any](rows []T, score func(T) float64, topN int) []T {
	sorted := make([]T, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return score(sorted[i]) > score(sorted[j]) })

	out := make([]T, 0, min(topN, len(sorted)))
	rank := 0
	for i, r := range sorted {
		if i == 0 || score(r) != score(sorted[i-1]) {
			rank = i + 1
		}
		if rank > topN {
			break
		}
		out = append(out, r)
	}
	return out
}
