// Package config defines pipeline configuration and how it is loaded.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Store drivers.
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Report formats.
const (
	ReportTable = "table"
	ReportJSON  = "json"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// BaseURL is the upstream site root used to build scorecard,
	// match and commentary URLs.
	BaseURL string `koanf:"base_url"`

	// SeriesURL is the tournament listing page.
	SeriesURL string `koanf:"series_url"`

	// MatchLimit caps how many matches one run handles. 0 means all.
	MatchLimit int `koanf:"match_limit"`

	// CompletedOnly drops fixtures without a result.
	CompletedOnly bool `koanf:"completed_only"`

	// DotBalls enables the per-bowler commentary lookup.
	DotBalls bool `koanf:"dot_balls"`

	// Resume skips matches the store already marks as processed.
	Resume bool `koanf:"resume"`

	// RequestDelayMS is the minimum gap between upstream requests.
	RequestDelayMS int `koanf:"request_delay_ms"`

	HTTPTimeoutMS       int `koanf:"http_timeout_ms"`
	RetryMaxAttempts    int `koanf:"retry_max_attempts"`
	RetryInitialDelayMS int `koanf:"retry_initial_delay_ms"`
	RetryMaxDelayMS     int `koanf:"retry_max_delay_ms"`

	UserAgent string `koanf:"user_agent"`

	// FallbackIPs maps a host to an address tried when DNS cannot resolve it.
	FallbackIPs map[string]string `koanf:"fallback_ips"`

	// PlayersPath points at the player reference JSON. Optional.
	PlayersPath string `koanf:"players_path"`

	// StoreDriver is sqlite or memory.
	StoreDriver  string `koanf:"store_driver"`
	DatabasePath string `koanf:"database_path"`

	// MetricsPath, when set, receives a Prometheus textfile after each run.
	MetricsPath string `koanf:"metrics_path"`

	// MetricsEnabled turns recording off entirely when false.
	MetricsEnabled   bool   `koanf:"metrics_enabled"`
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsLabels are constant labels on every series, e.g. series=wpl-2025.
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// StandingsLimit caps the season table printed after a run.
	StandingsLimit int `koanf:"standings_limit"`

	// ReportFormat is table or json.
	ReportFormat string `koanf:"report_format"`

	Scoring Scoring `koanf:"scoring"`
}

// Scoring is the configurable part of the point table.
type Scoring struct {
	Run                int     `koanf:"run"`
	Four               int     `koanf:"four"`
	Six                int     `koanf:"six"`
	MilestoneRuns      int     `koanf:"milestone_runs"`
	MilestoneBonus     int     `koanf:"milestone_bonus"`
	StrikeRateMinBalls int     `koanf:"strike_rate_min_balls"`
	Wicket             int     `koanf:"wicket"`
	WicketBonus        int     `koanf:"wicket_bonus"`
	Maiden             int     `koanf:"maiden"`
	DotBall            int     `koanf:"dot_ball"`
	EconomyMinOvers    float64 `koanf:"economy_min_overs"`
	WidesPerPenalty    int     `koanf:"wides_per_penalty"`
	NoBallPenalty      int     `koanf:"no_ball_penalty"`
	Catch              int     `koanf:"catch"`
	Stumping           int     `koanf:"stumping"`
	RunOut             int     `koanf:"run_out"`
	POTM               int     `koanf:"potm"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		BaseURL:             "https://www.cricbuzz.com",
		SeriesURL:           "https://www.cricbuzz.com/cricket-series/9351/womens-premier-league-2025/matches",
		CompletedOnly:       true,
		Resume:              true,
		RequestDelayMS:      2000,
		HTTPTimeoutMS:       30000,
		RetryMaxAttempts:    5,
		RetryInitialDelayMS: 1000,
		RetryMaxDelayMS:     30000,
		UserAgent:           "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		FallbackIPs:         map[string]string{"www.cricbuzz.com": "13.234.66.76"},
		PlayersPath:         "",
		StoreDriver:         StoreSQLite,
		DatabasePath:        "fantasy.db",
		MetricsEnabled:      true,
		MetricsNamespace:    "fantasy",
		MetricsSubsystem:    "pipeline",
		StandingsLimit:      25,
		ReportFormat:        ReportTable,
		Scoring: Scoring{
			Run:                1,
			Four:               1,
			Six:                2,
			MilestoneRuns:      25,
			MilestoneBonus:     10,
			StrikeRateMinBalls: 10,
			Wicket:             20,
			WicketBonus:        10,
			Maiden:             20,
			DotBall:            2,
			EconomyMinOvers:    1,
			WidesPerPenalty:    2,
			NoBallPenalty:      2,
			Catch:              10,
			Stumping:           10,
			RunOut:             10,
			POTM:               50,
		},
	}
}

// Validate checks the settings a run cannot do without.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.SeriesURL) == "":
		return fmt.Errorf("%w: series_url must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.BaseURL) == "":
		return fmt.Errorf("%w: base_url must not be empty", ErrInvalidConfig)
	case c.RetryMaxAttempts < 1:
		return fmt.Errorf("%w: retry_max_attempts must be at least 1", ErrInvalidConfig)
	case c.MatchLimit < 0:
		return fmt.Errorf("%w: match_limit must not be negative", ErrInvalidConfig)
	case c.RequestDelayMS < 0 || c.RetryInitialDelayMS < 0:
		return fmt.Errorf("%w: delays must not be negative", ErrInvalidConfig)
	case c.Scoring.MilestoneRuns < 0 || c.Scoring.WidesPerPenalty < 0:
		return fmt.Errorf("%w: scoring divisors must not be negative", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case StoreSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("%w: database_path must not be empty for sqlite", ErrInvalidConfig)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.ReportFormat != ReportTable && c.ReportFormat != ReportJSON {
		return fmt.Errorf("%w: unknown report_format %q", ErrInvalidConfig, c.ReportFormat)
	}
	return nil
}

// RequestDelay is RequestDelayMS as a duration.
func (c *Config) RequestDelay() time.Duration { return ms(c.RequestDelayMS) }

// HTTPTimeout is HTTPTimeoutMS as a duration.
func (c *Config) HTTPTimeout() time.Duration { return ms(c.HTTPTimeoutMS) }

// RetryInitialDelay is RetryInitialDelayMS as a duration.
func (c *Config) RetryInitialDelay() time.Duration { return ms(c.RetryInitialDelayMS) }

// RetryMaxDelay is RetryMaxDelayMS as a duration.
func (c *Config) RetryMaxDelay() time.Duration { return ms(c.RetryMaxDelayMS) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }
