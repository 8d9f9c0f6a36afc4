// Package rank builds ranked leaderboards for one round of a hackathon.
package rank

import (
	"sort"
	"time"

	"github.com/okian/judged/internal/domain/aggregate"
	"github.com/okian/judged/internal/domain/model"
)

// Entry is one leaderboard row. Entries are derived on demand and never
// persisted or cached across shortlist runs.
type Entry struct {
	Rank                int
	SubmissionID        string
	TeamID              string
	AverageScore        float64
	ScoreCount          int
	PerCriterionAverage map[string]float64
	Status              model.SubmissionStatus
	SubmittedAt         time.Time
}

// Summary counts submission statuses across the round.
type Summary struct {
	Total       int
	Shortlisted int
	Rejected    int
	Pending     int
}

// Build ranks the submissions of exactly one (hackathon, round).
//
// Ordering is average score descending; ties break by earlier SubmittedAt,
// then by submission ID so the order never depends on store iteration.
// Submissions whose round index differs from roundIndex are skipped:
// carried-over records from prior rounds must not leak into the ranking.
func Build(
	submissions []model.Submission,
	scoresBySubmission map[string][]model.Score,
	weights aggregate.Weights,
	roundIndex int,
) ([]Entry, Summary) {
	entries := make([]Entry, 0, len(submissions))
	var summary Summary

	for _, sub := range submissions {
		if sub.RoundIndex != roundIndex {
			continue
		}
		agg := aggregate.Compute(scoresBySubmission[sub.ID], weights)
		entries = append(entries, Entry{
			SubmissionID:        sub.ID,
			TeamID:              sub.TeamID,
			AverageScore:        agg.AverageScore,
			ScoreCount:          agg.ScoreCount,
			PerCriterionAverage: agg.PerCriterionAverage,
			Status:              sub.Status,
			SubmittedAt:         sub.SubmittedAt,
		})

		summary.Total++
		switch sub.Status {
		case model.StatusShortlisted:
			summary.Shortlisted++
		case model.StatusRejected:
			summary.Rejected++
		default:
			summary.Pending++
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].AverageScore != entries[j].AverageScore {
			return entries[i].AverageScore > entries[j].AverageScore
		}
		if !entries[i].SubmittedAt.Equal(entries[j].SubmittedAt) {
			return entries[i].SubmittedAt.Before(entries[j].SubmittedAt)
		}
		return entries[i].SubmissionID < entries[j].SubmissionID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, summary
}
