package worldfootball

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tyler180/fpl-championship-analysis/internal/dataset"
	"github.com/tyler180/fpl-championship-analysis/internal/logging"
	"github.com/tyler180/fpl-championship-analysis/internal/model"
)

const referer = "https://www.worldfootball.net/"

// Getter is the slice of fetch.Client the scraper needs.
type Getter interface {
	GetText(ctx context.Context, url, referer string) (string, error)
}

// Scraper pulls Championship leaderboards one season at a time.
type Scraper struct {
	Client  Getter
	DataDir string
	URLFor  func(m model.Metric, season string) string
}

// FetchSeason downloads and parses one leaderboard. Any failure is logged and
// yields no rows so the remaining seasons still run.
func (s *Scraper) FetchSeason(ctx context.Context, m model.Metric, season string) []model.ChampionshipRow {
	url := s.URLFor(m, season)
	log := logging.WithSeason("worldfootball", season).WithFields(logrus.Fields{"metric": m.Slug(), "url": url})

	html, err := s.Client.GetText(ctx, url, referer)
	if err != nil {
		log.WithError(err).Warn("fetch failed")
		return nil
	}
	rows, err := ParseTable(html, m, season)
	if err != nil {
		log.WithError(err).Warn("parse failed")
		return nil
	}
	log.WithField("rows", len(rows)).Debug("parsed leaderboard")
	return rows
}

// FetchAllSeasons writes data/championship_<metric>/<season>.csv for every
// season that returned rows and reports how many files were written.
func (s *Scraper) FetchAllSeasons(ctx context.Context, m model.Metric, seasons []string) (int, error) {
	written := 0
	for _, season := range seasons {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		rows := s.FetchSeason(ctx, m, season)
		if len(rows) == 0 {
			continue
		}
		path := dataset.ChampionshipSeasonPath(s.DataDir, m, season)
		if err := dataset.WriteChampionship(path, m, rows); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written++
		logging.WithSeason("worldfootball", season).WithFields(logrus.Fields{
			"metric": m.Slug(),
			"rows":   len(rows),
			"path":   path,
		}).Info("saved season")
	}
	return written, nil
}
