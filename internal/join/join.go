package join

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/tyler180/fpl-championship-analysis/internal/dataset"
	"github.com/tyler180/fpl-championship-analysis/internal/logging"
	"github.com/tyler180/fpl-championship-analysis/internal/model"
	"github.com/tyler180/fpl-championship-analysis/internal/teams"
)

// LoadCombineFPL concatenates the per-season FPL files in season order and
// labels each row with season_start, "Name (Season)" and whether the player's
// team was promoted into that season. Seasons without a file are skipped.
func LoadCombineFPL(dataDir string, seasons []string, promos teams.Promotions, export bool) ([]model.PlayerSeason, error) {
	log := logging.WithComponent("join")
	var all []model.PlayerSeason
	for _, season := range seasons {
		rows, err := dataset.ReadCSV[model.PlayerSeason](dataset.FPLSeasonPath(dataDir, season))
		if errors.Is(err, fs.ErrNotExist) {
			log.WithField("season", season).Warn("no FPL file for season")
			continue
		}
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
	}
	if err := LabelFPL(all, promos); err != nil {
		return nil, err
	}
	if export {
		if err := dataset.WriteCSV(dataset.FPLJoinedPath(dataDir), all); err != nil {
			return nil, err
		}
	}
	return all, nil
}

// LabelFPL fills SeasonStart, NameSeason and PromotedFromChampionship in place.
func LabelFPL(rows []model.PlayerSeason, promos teams.Promotions) error {
	for i := range rows {
		r := &rows[i]
		start, err := model.SeasonStart(r.Season)
		if err != nil {
			return fmt.Errorf("row %d (%s): %w", i, r.Name, err)
		}
		r.SeasonStart = start
		r.NameSeason = r.Name + " (" + r.Season + ")"
		r.PromotedFromChampionship = promos.Flag(start, r.Team)
	}
	return nil
}

// LoadCombineChampionship concatenates per-season Championship files for one
// metric, filling SeasonStart.
func LoadCombineChampionship(dataDir string, m model.Metric, seasons []string, export bool) ([]model.ChampionshipRow, error) {
	log := logging.WithComponent("join").WithField("metric", m.Slug())
	var all []model.ChampionshipRow
	for _, season := range seasons {
		rows, err := dataset.ReadChampionship(dataset.ChampionshipSeasonPath(dataDir, m, season), m)
		if errors.Is(err, fs.ErrNotExist) {
			log.WithField("season", season).Warn("no Championship file for season")
			continue
		}
		if err != nil {
			return nil, err
		}
		for i := range rows {
			if rows[i].SeasonStart, err = model.SeasonStart(rows[i].Season); err != nil {
				return nil, err
			}
		}
		all = append(all, rows...)
	}
	if export {
		if err := dataset.WriteChampionship(dataset.ChampionshipJoinedPath(dataDir, m), m, all); err != nil {
			return nil, err
		}
	}
	return all, nil
}

// LabelChampionship renames each team to FPL spelling, then flags whether it
// was promoted at the end of that Championship campaign. The promotion table
// is keyed by the year the campaign ends ("2017-2018" → 2018), which is also
// the start of the Premier League season the side plays in next;
// NextSeasonStart is one year on from that.
func LabelChampionship(rows []model.ChampionshipRow, rec *teams.Reconciler, promos teams.Promotions) error {
	for i := range rows {
		r := &rows[i]
		start, err := model.SeasonStart(r.Season)
		if err != nil {
			return fmt.Errorf("row %d (%s): %w", i, r.Player, err)
		}
		r.Team = rec.Canonical(r.Team)
		r.SeasonStart = start
		r.PromotionYear = start + 1
		r.PromotedNextSeason = promos.Flag(r.PromotionYear, r.Team)
		r.NextSeasonStart = r.PromotionYear + 1
	}
	return nil
}

// FilterPromoted keeps rows whose team was promoted.
func FilterPromoted(rows []model.ChampionshipRow) []model.ChampionshipRow {
	out := make([]model.ChampionshipRow, 0, len(rows))
	for _, r := range rows {
		if r.PromotedNextSeason == 1 {
			out = append(out, r)
		}
	}
	return out
}

// DropLatestSeason removes rows from the most recent Championship season,
// whose promoted sides have no completed FPL season yet.
func DropLatestSeason(rows []model.ChampionshipRow) []model.ChampionshipRow {
	latest := 0
	for _, r := range rows {
		if r.SeasonStart > latest {
			latest = r.SeasonStart
		}
	}
	out := make([]model.ChampionshipRow, 0, len(rows))
	for _, r := range rows {
		if r.SeasonStart != latest {
			out = append(out, r)
		}
	}
	return out
}

// ProcessPromotions is LabelChampionship → FilterPromoted → DropLatestSeason.
func ProcessPromotions(rows []model.ChampionshipRow, rec *teams.Reconciler, promos teams.Promotions) ([]model.ChampionshipRow, error) {
	if err := LabelChampionship(rows, rec, promos); err != nil {
		return nil, err
	}
	return DropLatestSeason(FilterPromoted(rows)), nil
}
