// Package config defines service configuration structures and loading hooks.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DatabaseDSN selects the Postgres store when set. Empty means the
	// in-memory store.
	DatabaseDSN string `koanf:"database_dsn"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// CriteriaWeights maps criterion names to their share of a judge's
	// weighted total, as percentages.
	CriteriaWeights map[string]float64 `koanf:"criteria_weights"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DatabaseDSN:         "",
		MaxLeaderboardLimit: 500,
		CriteriaWeights: map[string]float64{
			"innovation":   25,
			"technical":    25,
			"ux":           20,
			"business":     15,
			"presentation": 15,
		},
	}
}
