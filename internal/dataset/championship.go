package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tyler180/fpl-championship-analysis/internal/model"
)

// Championship files carry the metric as a column name (Goals or Assists),
// so they are written with encoding/csv rather than a tagged struct.

// WriteChampionship writes Player,Country,Team,<Metric>,Season.
func WriteChampionship(path string, m model.Metric, rows []model.ChampionshipRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	_ = w.Write([]string{"Player", "Country", "Team", string(m), "Season"})
	for _, r := range rows {
		_ = w.Write([]string{r.Player, r.Country, r.Team, strconv.Itoa(r.Count), r.Season})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ReadChampionship loads one per-season (or joined) Championship file.
func ReadChampionship(path string, m model.Metric) ([]model.ChampionshipRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	hdr := recs[0]
	if err := RequireColumns(hdr, "Player", "Team", string(m), "Season"); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	iPlayer, iCountry, iTeam := colIndex(hdr, "Player"), colIndex(hdr, "Country"), colIndex(hdr, "Team")
	iMetric, iSeason := colIndex(hdr, string(m)), colIndex(hdr, "Season")

	get := func(rec []string, i int) string {
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	out := make([]model.ChampionshipRow, 0, len(recs)-1)
	for _, rec := range recs[1:] {
		n, err := strconv.Atoi(get(rec, iMetric))
		if err != nil {
			return nil, fmt.Errorf("%s: bad %s value %q for %s", path, m, get(rec, iMetric), get(rec, iPlayer))
		}
		out = append(out, model.ChampionshipRow{
			Player:  get(rec, iPlayer),
			Country: get(rec, iCountry),
			Team:    get(rec, iTeam),
			Count:   n,
			Season:  get(rec, iSeason),
			Metric:  m,
		})
	}
	return out, nil
}
