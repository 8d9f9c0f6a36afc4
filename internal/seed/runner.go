package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/okian/judged/pkg/logger"
)

// Options controls the demo run.
type Options struct {
	BaseURL   string
	Teams     int
	Judges    int
	TopN      int
	Timeout   time.Duration
	Hackathon string
}

// Run drives a full demo round through the API: register two rounds,
// submit one entry per team, score each entry with every judge, shortlist
// the top N and print the resulting leaderboard and a few eligibility
// checks.
func Run(ctx context.Context, opts Options) error {
	log := logger.Get().Named("seed")
	client := NewClient(opts.BaseURL, opts.Timeout)

	hackathonID := opts.Hackathon
	if hackathonID == "" {
		hackathonID = uuid.NewString()
	}

	policy := map[string]interface{}{"mode": "topN", "count": opts.TopN}
	if err := client.RegisterRound(hackathonID, 0, "idea", policy); err != nil {
		return fmt.Errorf("register round 0: %w", err)
	}
	if err := client.RegisterRound(hackathonID, 1, "project", policy); err != nil {
		return fmt.Errorf("register round 1: %w", err)
	}
	log.Info(ctx, "rounds registered", logger.String("hackathon", hackathonID))

	teams := GenerateTeams(opts.Teams)
	judges := GenerateJudges(opts.Judges)

	submissionByTeam := make(map[string]string, len(teams))
	for _, team := range teams {
		subID, err := client.CreateSubmission(hackathonID, team.ID, 0)
		if err != nil {
			return fmt.Errorf("submit for %s: %w", team.Name, err)
		}
		submissionByTeam[team.ID] = subID
	}
	log.Info(ctx, "submissions created", logger.Int("count", len(teams)))

	for _, team := range teams {
		for _, judgeID := range judges {
			card := GenerateScorecard(judgeID, team)
			if err := client.RecordScore(submissionByTeam[team.ID], card); err != nil {
				return fmt.Errorf("score %s: %w", team.Name, err)
			}
		}
	}
	log.Info(ctx, "scores recorded", logger.Int("count", len(teams)*len(judges)))

	result, err := client.Shortlist(hackathonID, 0, policy)
	if err != nil {
		return fmt.Errorf("shortlist round 0: %w", err)
	}
	log.Info(ctx, "shortlist applied",
		logger.String("message", result.Message),
		logger.Int("teams", len(result.ShortlistedTeams)),
	)

	board, err := client.Leaderboard(hackathonID, 0)
	if err != nil {
		return fmt.Errorf("fetch leaderboard: %w", err)
	}
	fmt.Printf("\nLeaderboard for hackathon %s, round 0:\n", hackathonID)
	for _, entry := range board.Leaderboard {
		fmt.Printf("  #%-3d %-38s avg=%5.2f judges=%d status=%s\n",
			entry.Rank, entry.TeamID, entry.AverageScore, entry.ScoreCount, entry.Status)
	}
	fmt.Printf("Summary: total=%d shortlisted=%d rejected=%d pending=%d\n",
		board.Summary.Total, board.Summary.Shortlisted, board.Summary.Rejected, board.Summary.Pending)

	// Show the gate verdicts for the best and the worst team.
	if len(teams) > 0 {
		for _, team := range []Team{teams[len(teams)-1], teams[0]} {
			elig, err := client.Eligibility(hackathonID, team.ID, 1)
			if err != nil {
				return fmt.Errorf("eligibility for %s: %w", team.Name, err)
			}
			fmt.Printf("Eligibility of %s for round 1: eligible=%v reason=%s\n",
				team.Name, elig.IsEligible, elig.Reason)
		}
	}
	return nil
}
