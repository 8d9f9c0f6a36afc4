// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/judged/internal/adapters/repository"
	"github.com/okian/judged/internal/app"
	"github.com/okian/judged/internal/domain/model"
	"github.com/okian/judged/internal/domain/policy"
	"github.com/okian/judged/internal/domain/rank"
)

// Dependencies bundles everything the HTTP handlers need. Using an
// interface bundle keeps the handler layer loosely coupled to the service
// implementation.
type Dependencies interface {
	RoundDependencies
	SubmissionDependencies
	ScoreDependencies
	LeaderboardDependencies
	ShortlistDependencies
	EligibilityDependencies
}

// RoundDependencies defines the interface for round registration.
type RoundDependencies interface {
	RegisterRound(ctx context.Context, round model.Round) error
}

// SubmissionDependencies defines the interface for submission creation.
type SubmissionDependencies interface {
	CreateSubmission(ctx context.Context, sub model.Submission) (model.Submission, error)
}

// ScoreDependencies defines the interface for judge scorecard writes.
type ScoreDependencies interface {
	RecordScore(ctx context.Context, score model.Score) error
}

// LeaderboardDependencies defines the interface for leaderboard reads.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, hackathonID string, roundIndex int) ([]rank.Entry, rank.Summary, error)
}

// ShortlistDependencies defines the interface for shortlist operations.
type ShortlistDependencies interface {
	Shortlist(ctx context.Context, hackathonID string, roundIndex int, p policy.Policy) (app.ShortlistResult, error)
	ToggleShortlist(ctx context.Context, submissionID string, shortlist bool) (model.RoundProgress, error)
}

// EligibilityDependencies defines the interface for eligibility reads.
type EligibilityDependencies interface {
	Eligibility(ctx context.Context, teamID, hackathonID string, roundIndex int) (app.EligibilityResult, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	roundsHandler      *RoundsHandler
	submissionsHandler *SubmissionsHandler
	scoresHandler      *ScoresHandler
	leaderboardHandler *LeaderboardHandler
	shortlistHandler   *ShortlistHandler
	eligibilityHandler *EligibilityHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		roundsHandler:      NewRoundsHandler(deps),
		submissionsHandler: NewSubmissionsHandler(deps),
		scoresHandler:      NewScoresHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		shortlistHandler:   NewShortlistHandler(deps),
		eligibilityHandler: NewEligibilityHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/rounds", MetricsMiddleware(s.roundsHandler.HandlePostRound, "rounds"))
	mux.HandleFunc("/submissions", MetricsMiddleware(s.submissionsHandler.HandlePostSubmission, "submissions"))
	mux.HandleFunc("/scores", MetricsMiddleware(s.scoresHandler.HandlePostScore, "scores"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/shortlist", MetricsMiddleware(s.shortlistHandler.HandlePostShortlist, "shortlist"))
	mux.HandleFunc("/shortlist/toggle", MetricsMiddleware(s.shortlistHandler.HandlePostToggle, "shortlist_toggle"))
	mux.HandleFunc("/eligibility", MetricsMiddleware(s.eligibilityHandler.HandleGetEligibility, "eligibility"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service-layer sentinels to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, policy.ErrInvalidPolicy):
		writeError(w, http.StatusBadRequest, "invalid_policy", err)
	case errors.Is(err, app.ErrInvalidScore), errors.Is(err, app.ErrInvalidRound):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, app.ErrNotEligible):
		writeError(w, http.StatusForbidden, "not_eligible", err)
	case errors.Is(err, app.ErrShortlistInProgress), errors.Is(err, repository.ErrDuplicateSubmission):
		writeError(w, http.StatusConflict, "conflict", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
