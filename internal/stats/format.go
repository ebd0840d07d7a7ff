package stats

// FormattedResult is the row written to test_*.csv and served by the dashboard.
type FormattedResult struct {
	Test                  string  `csv:"Test" json:"test" parquet:"test"`
	Position              string  `csv:"Position" json:"position" parquet:"position"`
	Price                 float64 `csv:"Price" json:"price" parquet:"price"`
	SampleSizePromoted    int     `csv:"Sample Size (Promoted)" json:"sample_size_promoted" parquet:"sample_size_promoted"`
	SampleSizeNotPromoted int     `csv:"Sample Size (Not Promoted)" json:"sample_size_not_promoted" parquet:"sample_size_not_promoted"`
	AvgPromoted           float64 `csv:"Avg. Points (Promoted)" json:"avg_points_promoted" parquet:"avg_points_promoted"`
	AvgNotPromoted        float64 `csv:"Avg. Points (Not Promoted)" json:"avg_points_not_promoted" parquet:"avg_points_not_promoted"`
	Difference            float64 `csv:"Difference" json:"difference" parquet:"difference"`
	Statistic             float64 `csv:"Statistic" json:"statistic" parquet:"statistic"`
	PValue                float64 `csv:"P-Value" json:"p_value" parquet:"p_value"`
	Significant           bool    `csv:"Significant" json:"significant" parquet:"significant"`
}

// FormatResults drops partitions whose combined sample is below
// sampleThreshold and marks p <= alpha as significant. Difference is taken
// from the unrounded means.
func FormatResults(results []Result, sampleThreshold int, alpha float64) []FormattedResult {
	out := make([]FormattedResult, 0, len(results))
	for _, r := range results {
		if r.Combined() < sampleThreshold {
			continue
		}
		out = append(out, FormattedResult{
			Test:                  r.Test,
			Position:              r.Position,
			Price:                 float64(r.ValueFirstGW) / 10,
			SampleSizePromoted:    r.SampleSizePromoted,
			SampleSizeNotPromoted: r.SampleSizeNotPromoted,
			AvgPromoted:           Round1(r.AvgPromoted),
			AvgNotPromoted:        Round1(r.AvgNotPromoted),
			Difference:            Round1(r.AvgPromoted - r.AvgNotPromoted),
			Statistic:             r.Statistic,
			PValue:                r.PValue,
			Significant:           r.PValue <= alpha,
		})
	}
	return out
}
