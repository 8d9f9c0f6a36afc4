package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if JUDGED_CONFIG is set
//  3. env (prefix JUDGED_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("JUDGED_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: JUDGED_ADDR, JUDGED_DATABASE_DSN, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("JUDGED_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "judged_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.MaxLeaderboardLimit < 1 {
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	if len(c.CriteriaWeights) == 0 {
		return fmt.Errorf("%w: criteria_weights must not be empty", ErrInvalidConfig)
	}
	for name, weight := range c.CriteriaWeights {
		if weight <= 0 {
			return fmt.Errorf("%w: criterion %q weight must be positive, got %g", ErrInvalidConfig, name, weight)
		}
	}
	return nil
}
