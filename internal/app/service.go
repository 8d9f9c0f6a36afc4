// Package app provides the core judging service that implements the
// dependencies required by the HTTP API.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/judged/internal/adapters/repository"
	"github.com/okian/judged/internal/domain/aggregate"
	"github.com/okian/judged/internal/domain/inflight"
	"github.com/okian/judged/internal/domain/model"
	"github.com/okian/judged/internal/domain/rank"
	"github.com/okian/judged/pkg/logger"
	"github.com/okian/judged/pkg/metrics"
)

// Criterion value bounds enforced on the score write path.
const (
	minCriterionValue = 0
	maxCriterionValue = 10
)

// Service orchestrates scoring, ranking, shortlisting and eligibility on
// top of a repository.Store. All operations run to completion within the
// inbound request; there is no background processing.
type Service struct {
	store   repository.Store
	guard   inflight.Guard
	weights aggregate.Weights

	now   func() time.Time
	newID func() string

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCriteriaWeights sets the criterion weight table used for aggregation.
func WithCriteriaWeights(weights map[string]float64) Option {
	return func(s *Service) {
		if len(weights) > 0 {
			s.weights = weights
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGuard sets the in-flight guard used to serialize shortlist runs.
func WithGuard(g inflight.Guard) Option {
	return func(s *Service) {
		if g != nil {
			s.guard = g
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the id source. Used by tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// Default criterion weights, percentages summing to 100. Overridden from
// configuration in the normal wiring.
func defaultWeights() aggregate.Weights {
	return aggregate.Weights{
		"innovation":   25,
		"technical":    25,
		"ux":           20,
		"business":     15,
		"presentation": 15,
	}
}

// New constructs a Service over the given store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		guard:   inflight.NewInMemoryGuard(),
		weights: defaultWeights(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}
	return s
}

// RegisterRound stores a round definition after validating its default
// policy, when one is set.
func (s *Service) RegisterRound(ctx context.Context, round model.Round) error {
	if strings.TrimSpace(round.HackathonID) == "" || round.Index < 0 {
		return fmt.Errorf("%w: round needs a hackathon id and a non-negative index", ErrInvalidRound)
	}
	if !round.Policy.IsZero() {
		if err := round.Policy.Validate(); err != nil {
			return err
		}
	}
	if err := s.store.PutRound(ctx, round); err != nil {
		return err
	}
	s.logger.Info(ctx, "round registered",
		logger.String("hackathon", round.HackathonID),
		logger.Int("round", round.Index),
		logger.String("type", string(round.Type)),
	)
	return nil
}

// CreateSubmission stores a new submission for a team. For rounds past the
// first, the eligibility gate is consulted and the create fails closed.
func (s *Service) CreateSubmission(ctx context.Context, sub model.Submission) (model.Submission, error) {
	if _, err := s.store.Round(ctx, sub.HackathonID, sub.RoundIndex); err != nil {
		return model.Submission{}, err
	}

	if sub.RoundIndex > 0 {
		elig, err := s.Eligibility(ctx, sub.TeamID, sub.HackathonID, sub.RoundIndex)
		if err != nil {
			return model.Submission{}, err
		}
		if !elig.IsEligible {
			return model.Submission{}, fmt.Errorf("%w: team %s, round %d: %s",
				ErrNotEligible, sub.TeamID, sub.RoundIndex, elig.Reason)
		}
	}

	if sub.ID == "" {
		sub.ID = s.newID()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = s.now()
	}
	sub.Status = model.StatusSubmitted

	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		return model.Submission{}, err
	}
	metrics.UpdateSubmissionsTracked(s.store.CountSubmissions(ctx))
	s.logger.Info(ctx, "submission created",
		logger.String("submission", sub.ID),
		logger.String("team", sub.TeamID),
		logger.Int("round", sub.RoundIndex),
	)
	return sub, nil
}

// RecordScore validates and stores one judge's scorecard. Rewrites by the
// same judge replace the stored record wholesale.
func (s *Service) RecordScore(ctx context.Context, score model.Score) error {
	if strings.TrimSpace(score.JudgeID) == "" {
		return fmt.Errorf("%w: missing judge id", ErrInvalidScore)
	}
	if strings.TrimSpace(score.SubmissionID) == "" {
		return fmt.Errorf("%w: missing submission id", ErrInvalidScore)
	}
	if len(score.Criteria) == 0 {
		return fmt.Errorf("%w: empty criteria", ErrInvalidScore)
	}
	for name, value := range score.Criteria {
		if value < minCriterionValue || value > maxCriterionValue {
			return fmt.Errorf("%w: criterion %q value %g outside [0,10]", ErrInvalidScore, name, value)
		}
	}

	score.UpdatedAt = s.now()
	if err := s.store.UpsertScore(ctx, score); err != nil {
		return err
	}
	metrics.RecordScoreUpsert()
	s.logger.Debug(ctx, "score recorded",
		logger.String("submission", score.SubmissionID),
		logger.String("judge", score.JudgeID),
	)
	return nil
}

// Leaderboard ranks a round's submissions on demand.
func (s *Service) Leaderboard(ctx context.Context, hackathonID string, roundIndex int) ([]rank.Entry, rank.Summary, error) {
	if _, err := s.store.Round(ctx, hackathonID, roundIndex); err != nil {
		return nil, rank.Summary{}, err
	}

	start := s.now()
	subs, err := s.store.SubmissionsByRound(ctx, hackathonID, roundIndex)
	if err != nil {
		return nil, rank.Summary{}, err
	}
	scores, err := s.store.ScoresByRound(ctx, hackathonID, roundIndex)
	if err != nil {
		return nil, rank.Summary{}, err
	}
	entries, summary := rank.Build(subs, scores, s.weights, roundIndex)
	metrics.RecordLeaderboardBuildDuration(float64(time.Since(start).Milliseconds()))
	return entries, summary, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()
	submissions := s.store.CountSubmissions(ctx)
	finalized := s.store.CountFinalizedRounds(ctx)

	metrics.UpdateSubmissionsTracked(submissions)
	metrics.UpdateRoundsFinalized(finalized)

	return map[string]interface{}{
		"submissions":         submissions,
		"finalizedRounds":     finalized,
		"shortlistsInFlight":  s.guard.Size(),
		"criteriaWeightCount": len(s.weights),
	}
}
