package worldfootball

import (
	"errors"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tyler180/fpl-championship-analysis/internal/model"
)

// ErrNoTable is returned when a page has no leaderboard table.
var ErrNoTable = errors.New("worldfootball: no standard_tabelle table")

// Leaderboard columns: rank, player, flag, country, team, count.
const (
	colRank = iota
	colPlayer
	colFlag
	colCountry
	colTeam
	colCount
	numCols
)

// cellText keeps the last line of the trimmed cell text; cells often carry a
// hidden line above the visible value.
func cellText(s *goquery.Selection) string {
	txt := strings.TrimSpace(s.Text())
	if i := strings.LastIndex(txt, "\n"); i >= 0 {
		txt = txt[i+1:]
	}
	return strings.TrimSpace(txt)
}

// cleanCount turns "12 (3)" (goals with penalties) into 12.
func cleanCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// ParseTable extracts one season's leaderboard. Rows with too few cells or a
// non-numeric count are skipped.
func ParseTable(html string, m model.Metric, season string) ([]model.ChampionshipRow, error) {
	// some tables sit inside HTML comments
	html = strings.ReplaceAll(html, "<!--", "")
	html = strings.ReplaceAll(html, "-->", "")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	table := doc.Find("table.standard_tabelle").First()
	if table.Length() == 0 {
		return nil, ErrNoTable
	}

	var out []model.ChampionshipRow
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return // header
		}
		tds := tr.Find("td")
		if tds.Length() < numCols {
			return
		}
		cells := make([]string, numCols)
		tds.Each(func(j int, td *goquery.Selection) {
			if j < numCols {
				cells[j] = cellText(td)
			}
		})
		n, ok := cleanCount(cells[colCount])
		if !ok || cells[colPlayer] == "" {
			return
		}
		out = append(out, model.ChampionshipRow{
			Player:  cells[colPlayer],
			Country: cells[colCountry],
			Team:    cells[colTeam],
			Count:   n,
			Season:  season,
			Metric:  m,
		})
	})
	return out, nil
}
