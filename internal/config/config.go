package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tyler180/fpl-championship-analysis/internal/model"
	"github.com/tyler180/fpl-championship-analysis/internal/teams"
)

const (
	ParametersFile = "parameters.yaml"
	PromotionsFile = "promoted_teams_by_season.yaml"
	EnvPrefix      = "FPLCHAMP"
)

// Parameters mirrors conf/parameters.yaml.
type Parameters struct {
	DataDir string `mapstructure:"data_dir"`

	ChampionshipSeasons    []string `mapstructure:"championship_seasons"`
	ChampionshipGoalsURL   string   `mapstructure:"championship_goals_url"`
	ChampionshipAssistsURL string   `mapstructure:"championship_assists_url"`

	FPLBaseURL         string `mapstructure:"fpl_base_url"`
	FPLStartSeason     int    `mapstructure:"fpl_start_season"`
	FPLEndSeason       int    `mapstructure:"fpl_end_season"`
	TeamPerformanceURL string `mapstructure:"team_performance_url"`

	SleepTimeSeconds   float64 `mapstructure:"sleep_time_seconds"`
	HTTPTimeoutSeconds int     `mapstructure:"http_timeout_seconds"`
	HTTPMaxAttempts    int     `mapstructure:"http_max_attempts"`
	HTTPRetryBaseMS    int     `mapstructure:"http_retry_base_ms"`
	HTTPRetryMaxMS     int     `mapstructure:"http_retry_max_ms"`
	HTTPCooldownMS     int     `mapstructure:"http_cooldown_ms"`

	NumberGameweeksPlayedMin  int  `mapstructure:"number_gameweeks_played_min"`
	MinimumMinutesPerGameweek int  `mapstructure:"minimum_minutes_per_gameweek"`
	RequireFirstGameweek      bool `mapstructure:"require_first_gameweek"`
	TeamStrengthThreshold     int  `mapstructure:"team_strength_threshold"`

	SampleSizeThreshold int     `mapstructure:"sample_size_threshold"`
	SignificanceLevel   float64 `mapstructure:"significance_level"`
	FuzzyMatchThreshold int     `mapstructure:"fuzzy_match_threshold"`
	TopN                int     `mapstructure:"top_n"`

	DashboardMinChampionshipGoals int    `mapstructure:"dashboard_min_championship_goals"`
	BoxPlotPosition               string `mapstructure:"box_plot_position"`
	BoxPlotValue                  int    `mapstructure:"box_plot_value"`

	ExcludedPlayerSeasons []model.PlayerSeasonRef      `mapstructure:"excluded_player_seasons"`
	EstimatedTeamStrength []model.TeamStrengthEstimate `mapstructure:"estimated_team_strength"`
}

// Config bundles the tunables with the static promotion table.
type Config struct {
	Parameters
	Promotions teams.Promotions
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("championship_goals_url", "https://www.worldfootball.net/goalgetter/eng-championship-%s/")
	v.SetDefault("championship_assists_url", "https://www.worldfootball.net/assists/eng-championship-%s/")
	v.SetDefault("fpl_base_url", "https://raw.githubusercontent.com/vaastav/Fantasy-Premier-League/master/data")
	v.SetDefault("fpl_start_season", 2016)
	v.SetDefault("fpl_end_season", 2024)
	v.SetDefault("team_performance_url", "https://raw.githubusercontent.com/EdwardAnalytics/fpl-pl-table/main/data/fpl_premier_league_tables/%s.csv")
	v.SetDefault("sleep_time_seconds", 0.5)
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("http_max_attempts", 4)
	v.SetDefault("http_retry_base_ms", 400)
	v.SetDefault("http_retry_max_ms", 6000)
	v.SetDefault("http_cooldown_ms", 7000)
	v.SetDefault("number_gameweeks_played_min", 20)
	v.SetDefault("minimum_minutes_per_gameweek", 60)
	v.SetDefault("require_first_gameweek", true)
	v.SetDefault("team_strength_threshold", 3)
	v.SetDefault("sample_size_threshold", 20)
	v.SetDefault("significance_level", 0.05)
	v.SetDefault("fuzzy_match_threshold", 70)
	v.SetDefault("top_n", 25)
	v.SetDefault("dashboard_min_championship_goals", 5)
	v.SetDefault("box_plot_position", model.PosMID)
	v.SetDefault("box_plot_value", 50)
}

// Load reads parameters.yaml and promoted_teams_by_season.yaml from dir.
// A missing parameters file leaves defaults in place; a missing promotion
// table is an error because every label depends on it.
func Load(dir string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(filepath.Join(dir, ParametersFile))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !isNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", ParametersFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg.Parameters); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ParametersFile, err)
	}
	if err := cfg.Parameters.validate(); err != nil {
		return nil, err
	}

	promos, err := LoadPromotions(filepath.Join(dir, PromotionsFile))
	if err != nil {
		return nil, err
	}
	cfg.Promotions = promos
	return &cfg, nil
}

// LoadPromotions parses `<season-start-year>: [team, ...]`.
func LoadPromotions(path string) (teams.Promotions, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read promotions %s: %w", path, err)
	}
	out := teams.Promotions{}
	keys := v.AllKeys()
	sort.Strings(keys)
	for _, k := range keys {
		year, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, fmt.Errorf("promotions: key %q is not a year", k)
		}
		out[year] = v.GetStringSlice(k)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("promotions: %s is empty", path)
	}
	return out, nil
}

func (p Parameters) validate() error {
	if p.FPLEndSeason < p.FPLStartSeason {
		return fmt.Errorf("fpl_end_season %d before fpl_start_season %d", p.FPLEndSeason, p.FPLStartSeason)
	}
	if p.FuzzyMatchThreshold < 0 || p.FuzzyMatchThreshold > 100 {
		return fmt.Errorf("fuzzy_match_threshold must be 0..100, got %d", p.FuzzyMatchThreshold)
	}
	if p.SignificanceLevel <= 0 || p.SignificanceLevel >= 1 {
		return fmt.Errorf("significance_level must be in (0,1), got %v", p.SignificanceLevel)
	}
	return nil
}

// FPLSeasons lists the FPL season labels from start to end inclusive.
func (p Parameters) FPLSeasons() []string {
	var out []string
	for y := p.FPLStartSeason; y <= p.FPLEndSeason; y++ {
		s, err := model.SeasonString(y)
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SleepTime is the polite delay between outbound requests.
func (p Parameters) SleepTime() time.Duration {
	return time.Duration(p.SleepTimeSeconds * float64(time.Second))
}

// ChampionshipURL returns the leaderboard URL for a metric and season.
func (p Parameters) ChampionshipURL(m model.Metric, season string) string {
	tmpl := p.ChampionshipGoalsURL
	if m == model.Assists {
		tmpl = p.ChampionshipAssistsURL
	}
	return fmt.Sprintf(tmpl, season)
}

// Excluded reports whether a player-season is on the exclusion list.
func (p Parameters) Excluded(name, season string) bool {
	for _, e := range p.ExcludedPlayerSeasons {
		if strings.EqualFold(e.Name, name) && e.Season == season {
			return true
		}
	}
	return false
}
