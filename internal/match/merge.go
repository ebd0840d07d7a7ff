package match

import (
	"github.com/tyler180/fpl-championship-analysis/internal/logging"
	"github.com/tyler180/fpl-championship-analysis/internal/model"
)

// Merged is a Championship row left-joined to the FPL season its promoted
// team played next. FPL is nil when the player was not matched or did not
// play for that team in that season.
type Merged struct {
	model.ChampionshipRow
	FuzzyMatch string
	MatchScore int
	FPL        *model.PlayerSeason
}

type fplKey struct {
	name, team string
	season     int
}

// MatchAndMerge fuzzy-matches each Championship player against the FPL names
// active in the season the player's side was promoted into, then left-joins
// on (matched name, team, season). Every input row yields at least one output
// row; a name+team with several FPL rows yields one row per FPL row.
func MatchAndMerge(champ []model.ChampionshipRow, fpl []model.PlayerSeason, threshold int) []Merged {
	namesBySeason := map[int][]string{}
	seen := map[int]map[string]struct{}{}
	rowsByKey := map[fplKey][]int{}
	for i, p := range fpl {
		if seen[p.SeasonStart] == nil {
			seen[p.SeasonStart] = map[string]struct{}{}
		}
		if _, ok := seen[p.SeasonStart][p.Name]; !ok {
			seen[p.SeasonStart][p.Name] = struct{}{}
			namesBySeason[p.SeasonStart] = append(namesBySeason[p.SeasonStart], p.Name)
		}
		k := fplKey{p.Name, p.Team, p.SeasonStart}
		rowsByKey[k] = append(rowsByKey[k], i)
	}

	log := logging.WithComponent("match")
	out := make([]Merged, 0, len(champ))
	matched := 0
	for _, c := range champ {
		m := Merged{ChampionshipRow: c}
		best, score, ok := BestMatch(c.Player, namesBySeason[c.PromotionYear], threshold)
		m.MatchScore = score
		if !ok {
			out = append(out, m)
			continue
		}
		m.FuzzyMatch = best
		idx := rowsByKey[fplKey{best, c.Team, c.PromotionYear}]
		if len(idx) == 0 {
			out = append(out, m)
			continue
		}
		matched++
		for _, i := range idx {
			row := m
			p := fpl[i]
			row.FPL = &p
			out = append(out, row)
		}
	}
	log.WithFields(map[string]interface{}{"rows": len(champ), "joined": matched}).Info("fuzzy join complete")
	return out
}
