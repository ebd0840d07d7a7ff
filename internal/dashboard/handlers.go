package dashboard

import (
	"errors"
	"io/fs"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tyler180/fpl-championship-analysis/internal/analysis"
	"github.com/tyler180/fpl-championship-analysis/internal/dataset"
	"github.com/tyler180/fpl-championship-analysis/internal/model"
	"github.com/tyler180/fpl-championship-analysis/internal/stats"
)

// Handler serves the pipeline outputs under DataDir.
type Handler struct {
	DataDir              string
	TopN                 int
	MinChampionshipGoals int
	DefaultMinPrice      float64
	DefaultMaxPrice      float64
	Logger               *logrus.Logger
	started              time.Time
}

// NewHandler returns a Handler with the price slider defaults.
func NewHandler(dataDir string, topN, minGoals int, logger *logrus.Logger) *Handler {
	return &Handler{
		DataDir:              dataDir,
		TopN:                 topN,
		MinChampionshipGoals: minGoals,
		DefaultMinPrice:      3.5,
		DefaultMaxPrice:      15.0,
		Logger:               logger,
		started:              time.Now(),
	}
}

// ErrorResponse is returned for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// testFiles maps the :test path segment to its result file.
var testFiles = map[string]string{
	"welch":       dataset.WelchTTestFile,
	"mannwhitney": dataset.MannWhitneyFile,
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// GetTopPlayers handles GET /api/players/top?position=&min_price=&max_price=&top_n=
func (h *Handler) GetTopPlayers(c *gin.Context) {
	pos := c.DefaultQuery("position", analysis.AllPositions)
	lo, err1 := strconv.ParseFloat(c.DefaultQuery("min_price", strconv.FormatFloat(h.DefaultMinPrice, 'f', 1, 64)), 64)
	hi, err2 := strconv.ParseFloat(c.DefaultQuery("max_price", strconv.FormatFloat(h.DefaultMaxPrice, 'f', 1, 64)), 64)
	topN, err3 := strconv.Atoi(c.DefaultQuery("top_n", strconv.Itoa(h.TopN)))
	if err := errors.Join(err1, err2, err3); err != nil || lo > hi || topN <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_price, max_price or top_n"})
		return
	}

	rows, err := dataset.ReadCSV[model.PlayerSeason](dataset.FPLJoinedPath(h.DataDir))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis.TopPlayers(rows, pos, lo, hi, topN))
}

// GetPlayers handles GET /api/players?position=&value=&max_strength=&promoted=&limit=
func (h *Handler) GetPlayers(c *gin.Context) {
	var q analysis.PlayerQuery
	var errs []error
	q.Position = c.Query("position")
	if v := c.Query("value"); v != "" {
		n, err := strconv.Atoi(v)
		errs = append(errs, err)
		q.ValueFirstGW = n
	}
	if v := c.Query("max_strength"); v != "" {
		n, err := strconv.Atoi(v)
		errs = append(errs, err)
		q.MaxTeamStrength = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		errs = append(errs, err)
		q.Limit = n
	}
	q.PromotedOnly = c.Query("promoted") == "true"
	if err := errors.Join(errs...); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid value, max_strength or limit"})
		return
	}

	rows, err := dataset.ReadCSV[model.PlayerSeason](dataset.FPLJoinedPath(h.DataDir))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis.FilterPlayersFPL(rows, q))
}

// GetChampionship handles GET /api/championship/:metric?min=
func (h *Handler) GetChampionship(c *gin.Context) {
	m, ok := model.ParseMetric(c.Param("metric"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown metric " + c.Param("metric")})
		return
	}
	minCount, err := strconv.Atoi(c.DefaultQuery("min", strconv.Itoa(h.MinChampionshipGoals)))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min"})
		return
	}

	rows, err := analysis.ReadPerformance(dataset.AnalysisPath(h.DataDir, dataset.PerformanceFile(m)), m)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]analysis.PerformanceRow, 0, len(rows))
	for _, r := range rows {
		if r.ChampionshipCount >= minCount {
			out = append(out, r)
		}
	}
	c.JSON(http.StatusOK, out)
}

// GetTeamPerformance handles GET /api/teams/performance
func (h *Handler) GetTeamPerformance(c *gin.Context) {
	rows, err := dataset.ReadCSV[analysis.TeamPerformanceRow](dataset.AnalysisPath(h.DataDir, dataset.TeamPerformanceFile))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// testResult is FormattedResult with NaN statistics rendered as null.
type testResult struct {
	stats.FormattedResult
	Statistic *float64 `json:"statistic"`
	PValue    *float64 `json:"p_value"`
}

func finite(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// GetTestResults handles GET /api/tests/:test?significant=true
func (h *Handler) GetTestResults(c *gin.Context) {
	file, ok := testFiles[c.Param("test")]
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "unknown test " + c.Param("test")})
		return
	}
	onlySig := c.Query("significant") == "true"

	rows, err := dataset.ReadCSV[stats.FormattedResult](dataset.AnalysisPath(h.DataDir, file))
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]testResult, 0, len(rows))
	for _, r := range rows {
		if onlySig && !r.Significant {
			continue
		}
		out = append(out, testResult{FormattedResult: r, Statistic: finite(r.Statistic), PValue: finite(r.PValue)})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "dataset not generated yet"})
		return
	}
	h.Logger.WithError(err).WithField("path", c.FullPath()).Error("dashboard request failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
