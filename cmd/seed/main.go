package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/judged/internal/seed"
	"github.com/okian/judged/pkg/logger"
)

// Default configuration constants.
const (
	defaultTeams   = 12
	defaultJudges  = 3
	defaultTopN    = 5
	defaultTimeout = 30 * time.Second
	runTimeout     = 5 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		teams     = flag.Int("teams", defaultTeams, "Number of demo teams")
		judges    = flag.Int("judges", defaultJudges, "Number of demo judges")
		topN      = flag.Int("top", defaultTopN, "Shortlist size for the demo round")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		hackathon = flag.String("hackathon", "", "Hackathon id to reuse (default: random)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	err := seed.Run(ctx, seed.Options{
		BaseURL:   *baseURL,
		Teams:     *teams,
		Judges:    *judges,
		TopN:      *topN,
		Timeout:   *timeout,
		Hackathon: *hackathon,
	})
	if err != nil {
		logger.Get().Fatal(ctx, "seed run failed", logger.Error(err))
	}
}
