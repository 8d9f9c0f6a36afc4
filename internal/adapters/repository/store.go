// Package repository defines the persistence port for the judging core and
// provides the default in-memory adapter.
package repository

import (
	"context"

	"github.com/okian/judged/internal/domain/model"
)

// Store provides read/write access to judging state. Implementations must
// make ApplyShortlist atomic: either every submission status and the round
// progress record land together, or nothing does.
type Store interface {
	// PutRound registers or replaces a round definition.
	PutRound(ctx context.Context, round model.Round) error
	// Round returns a round definition.
	// Returns ErrNotFound if the (hackathon, index) pair is unknown.
	Round(ctx context.Context, hackathonID string, roundIndex int) (model.Round, error)

	// CreateSubmission stores a new submission.
	// Returns ErrDuplicateSubmission if the id already exists.
	CreateSubmission(ctx context.Context, sub model.Submission) error
	// Submission returns a submission by id.
	Submission(ctx context.Context, id string) (model.Submission, error)
	// SubmissionsByRound returns every submission created for the round.
	// Order is not guaranteed; ranking is the caller's concern.
	SubmissionsByRound(ctx context.Context, hackathonID string, roundIndex int) ([]model.Submission, error)
	// SubmissionByTeam returns a team's submission for a round, if any.
	SubmissionByTeam(ctx context.Context, hackathonID string, roundIndex int, teamID string) (model.Submission, error)

	// UpsertScore stores a judge's scorecard, replacing any existing record
	// for the same (judge, submission) pair. Last write wins.
	UpsertScore(ctx context.Context, score model.Score) error
	// ScoresBySubmission returns a submission's scorecards ordered by judge id.
	ScoresBySubmission(ctx context.Context, submissionID string) ([]model.Score, error)
	// ScoresByRound returns every scorecard for the round keyed by
	// submission id, each slice ordered by judge id.
	ScoresByRound(ctx context.Context, hackathonID string, roundIndex int) (map[string][]model.Score, error)

	// RoundProgress returns the shortlist record for a round.
	// Returns ErrNotFound if shortlisting has not produced one yet.
	RoundProgress(ctx context.Context, hackathonID string, roundIndex int) (model.RoundProgress, error)
	// ApplyShortlist atomically writes the round progress record and the
	// given submission statuses. progress.Version must equal the stored
	// record's version (0 when no record exists); the stored version is
	// bumped on success. Returns ErrVersionMismatch when the guard fails.
	ApplyShortlist(ctx context.Context, progress model.RoundProgress, statuses map[string]model.SubmissionStatus) error

	// CountSubmissions returns the number of stored submissions.
	CountSubmissions(ctx context.Context) int
	// CountFinalizedRounds returns the number of finalized progress records.
	CountFinalizedRounds(ctx context.Context) int
}
