package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/tyler180/fpl-championship-analysis/internal/config"
	"github.com/tyler180/fpl-championship-analysis/internal/model"
)

// Event is the Lambda payload shared by every step. Zero fields fall back to
// parameters.yaml.
type Event struct {
	Metrics     []string `json:"metrics"`      // "goals", "assists"
	StartSeason int      `json:"start_season"` // FPL season start year
	EndSeason   int      `json:"end_season"`
	Export      *bool    `json:"export"` // write joined intermediate files
	RunID       string   `json:"run_id"` // publish only
}

// Raw keeps the Lambda edge decoupled from Event.
type Raw = json.RawMessage

// Summary is returned to the Lambda runtime and printed when run locally.
type Summary map[string]any

func (e Event) metrics() ([]model.Metric, error) {
	if len(e.Metrics) == 0 {
		return model.Metrics, nil
	}
	out := make([]model.Metric, 0, len(e.Metrics))
	for _, s := range e.Metrics {
		m, ok := model.ParseMetric(s)
		if !ok {
			return nil, fmt.Errorf("unknown metric %q", s)
		}
		out = append(out, m)
	}
	return out, nil
}

func (e Event) seasonRange(p config.Parameters) (int, int) {
	start, end := p.FPLStartSeason, p.FPLEndSeason
	if e.StartSeason > 0 {
		start = e.StartSeason
	}
	if e.EndSeason > 0 {
		end = e.EndSeason
	}
	return start, end
}

func (e Event) export(def bool) bool {
	if e.Export == nil {
		return def
	}
	return *e.Export
}
