// Package seed generates a demo hackathon and drives it through the live
// HTTP API: rounds, submissions, judge scorecards and a shortlist run.
package seed

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// Demo shape constants.
const (
	randomFloatDivisor = 1000000
	criterionSpread    = 4.0
)

// Criteria used by the demo scorecards. The server aggregates with its
// configured weight table; these names match the defaults.
var criteria = []string{"innovation", "technical", "ux", "business", "presentation"}

// Team is one generated demo team.
type Team struct {
	ID   string
	Name string
	// Strength in [0,1]; stronger teams draw higher criterion values so
	// the resulting leaderboard has a visible spread.
	Strength float64
}

// Scorecard is one generated judge scorecard.
type Scorecard struct {
	JudgeID  string
	Criteria map[string]float64
	Feedback string
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// GenerateTeams creates count demo teams with spread-out strengths.
func GenerateTeams(count int) []Team {
	teams := make([]Team, count)
	for i := range teams {
		teams[i] = Team{
			ID:       uuid.NewString(),
			Name:     fmt.Sprintf("team-%02d", i+1),
			Strength: float64(i) / float64(max(count-1, 1)),
		}
	}
	return teams
}

// GenerateJudges creates count judge ids.
func GenerateJudges(count int) []string {
	judges := make([]string, count)
	for i := range judges {
		judges[i] = uuid.NewString()
	}
	return judges
}

// GenerateScorecard draws a scorecard for a team from one judge. Values
// center on the team's strength with per-criterion noise, clamped to [0,10].
func GenerateScorecard(judgeID string, team Team) Scorecard {
	values := make(map[string]float64, len(criteria))
	for _, name := range criteria {
		base := 3.0 + team.Strength*6.0
		noise := (getRandomFloat() - 0.5) * criterionSpread
		value := base + noise
		if value < 0 {
			value = 0
		}
		if value > 10 {
			value = 10
		}
		values[name] = value
	}
	return Scorecard{
		JudgeID:  judgeID,
		Criteria: values,
		Feedback: fmt.Sprintf("auto-generated feedback for %s", team.Name),
	}
}
