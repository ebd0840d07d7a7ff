package fpl

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tyler180/fpl-championship-analysis/internal/logging"
	"github.com/tyler180/fpl-championship-analysis/internal/model"
)

var reTrailingID = regexp.MustCompile(`\s\d+$`)

// CleanName turns "Mohamed_Salah_253" into "Mohamed Salah".
func CleanName(raw string) string {
	s := strings.ReplaceAll(strings.TrimSpace(raw), "_", " ")
	return strings.TrimSpace(reTrailingID.ReplaceAllString(s, ""))
}

type playerAgg struct {
	out       model.PlayerSeason
	minGW     int
	latestGW  int
	firstSeen bool
}

// Aggregate collapses gameweek rows into one row per player (keyed by the raw
// FPL name) for season. Position and team come from the player's latest
// gameweek; value_first_gw from their earliest. Output is sorted by total
// points, highest first, with ties kept in first-appearance order.
func Aggregate(rows []GameweekRow, season string, minMinutes int) []model.PlayerSeason {
	byName := map[string]*playerAgg{}
	var order []string

	for _, r := range rows {
		a := byName[r.Name]
		if a == nil {
			a = &playerAgg{}
			byName[r.Name] = a
			order = append(order, r.Name)
		}
		o := &a.out
		o.TotalPoints += r.TotalPoints
		o.GoalsScored += r.GoalsScored
		o.Assists += r.Assists
		o.CleanSheets += r.CleanSheets
		o.YellowCards += r.YellowCards
		o.RedCards += r.RedCards
		o.GoalsConceded += r.GoalsConceded
		o.OwnGoals += r.OwnGoals
		o.PenaltiesMissed += r.PenaltiesMissed
		o.PenaltiesSaved += r.PenaltiesSaved
		o.Saves += r.Saves
		o.BonusPoints += r.Bonus
		o.MinutesPlayed += r.Minutes
		if r.Minutes >= minMinutes {
			o.CountGWsMinMinutes++
		}

		// first row at the earliest GW sets the starting price
		if !a.firstSeen || r.GW < a.minGW {
			a.minGW = r.GW
			o.ValueFirstGW = r.Value
		}
		// last row at the latest GW sets team and position
		if !a.firstSeen || r.GW >= a.latestGW {
			a.latestGW = r.GW
			o.Team = r.Team
			o.Position = r.Position
		}
		a.firstSeen = true
	}

	out := make([]model.PlayerSeason, 0, len(order))
	for _, name := range order {
		a := byName[name]
		a.out.Name = CleanName(name)
		a.out.MinGW = a.minGW
		a.out.Season = season
		out = append(out, a.out)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalPoints > out[j].TotalPoints })
	return out
}

// EnrichPositions fills position and team for seasons whose merged_gw.csv
// lacks them, via players_raw.csv and master_team_list.csv.
func EnrichPositions(rows []GameweekRow, players []PlayerRaw, master []MasterTeam, season string) {
	type elem struct{ team, etype int }
	byID := make(map[int]elem, len(players))
	for _, p := range players {
		byID[p.ID] = elem{p.Team, p.ElementType}
	}
	teamName := map[int]string{}
	for _, m := range master {
		if m.Season == season {
			teamName[m.Team] = m.TeamName
		}
	}

	log := logging.WithSeason("fpl", season)
	missing := 0
	for i := range rows {
		e, ok := byID[rows[i].Element]
		if !ok {
			missing++
			rows[i].Position = model.PositionFromElementType(0)
			continue
		}
		rows[i].Position = model.PositionFromElementType(e.etype)
		rows[i].Team = teamName[e.team]
	}
	if missing > 0 {
		log.WithField("rows", missing).Warn("gameweek rows without a players_raw entry")
	}
}

// MergeTeamStrength attaches teams.csv strength columns by team name. Teams
// absent from teams.csv take the configured estimate for (season, team) and
// are flagged TeamStrengthEstimated=1; the rest get model.UnknownTeamStrength.
func MergeTeamStrength(players []model.PlayerSeason, teams []TeamStrength, estimates []model.TeamStrengthEstimate) {
	byName := make(map[string]TeamStrength, len(teams))
	for _, t := range teams {
		byName[t.Name] = t
	}
	est := map[string]int{}
	for _, e := range estimates {
		est[e.Season+"|"+e.Team] = e.Strength
	}

	unknown := map[string]struct{}{}
	for i := range players {
		p := &players[i]
		if t, ok := byName[p.Team]; ok {
			p.TeamStrength = t.Strength
			p.TeamStrengthOverallHome = t.OverallHome
			p.TeamStrengthOverallAway = t.OverallAway
			p.TeamStrengthAttackHome = t.AttackHome
			p.TeamStrengthAttackAway = t.AttackAway
			p.TeamStrengthDefenceHome = t.DefenceHome
			p.TeamStrengthDefenceAway = t.DefenceAway
			continue
		}
		if s, ok := est[p.Season+"|"+p.Team]; ok {
			p.TeamStrength = s
			p.TeamStrengthEstimated = 1
			continue
		}
		p.TeamStrength = model.UnknownTeamStrength
		if p.Team != "" {
			unknown[p.Team] = struct{}{}
		}
	}
	if len(unknown) > 0 {
		names := make([]string, 0, len(unknown))
		for n := range unknown {
			names = append(names, n)
		}
		sort.Strings(names)
		season := ""
		if len(players) > 0 {
			season = players[0].Season
		}
		logging.WithSeason("fpl", season).WithField("teams", names).Warn("no team strength available")
	}
}
