// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/judged/internal/domain/rank"
)

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps, maxLimit: maxLimit}
}

type leaderboardEntry struct {
	Rank                int                `json:"rank"`
	SubmissionID        string             `json:"submission_id"`
	TeamID              string             `json:"team_id"`
	AverageScore        float64            `json:"average_score"`
	ScoreCount          int                `json:"score_count"`
	PerCriterionAverage map[string]float64 `json:"per_criterion_average"`
	Status              string             `json:"status"`
	SubmittedAt         time.Time          `json:"submitted_at"`
}

type leaderboardSummary struct {
	Total       int `json:"total"`
	Shortlisted int `json:"shortlisted"`
	Rejected    int `json:"rejected"`
	Pending     int `json:"pending"`
}

type leaderboardResponse struct {
	Leaderboard []leaderboardEntry `json:"leaderboard"`
	Summary     leaderboardSummary `json:"summary"`
}

// HandleGetLeaderboard handles GET /leaderboard?hackathon_id=X&round=N
// requests. An optional limit=N truncates the returned entries.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	hackathonID := r.URL.Query().Get("hackathon_id")
	if hackathonID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing hackathon_id", ErrBadRequest))
		return
	}
	roundIndex, err := strconv.Atoi(r.URL.Query().Get("round"))
	if err != nil || roundIndex < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: round must be a non-negative integer", ErrBadRequest))
		return
	}
	limit := h.maxLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
		if limit > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: limit exceeds maximum %d", ErrBadRequest, h.maxLimit))
			return
		}
	}

	entries, summary, err := h.deps.Leaderboard(r.Context(), hackathonID, roundIndex)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	writeJSON(w, http.StatusOK, toLeaderboardResponse(entries, summary))
}

func toLeaderboardResponse(entries []rank.Entry, summary rank.Summary) leaderboardResponse {
	resp := leaderboardResponse{
		Leaderboard: make([]leaderboardEntry, len(entries)),
		Summary: leaderboardSummary{
			Total:       summary.Total,
			Shortlisted: summary.Shortlisted,
			Rejected:    summary.Rejected,
			Pending:     summary.Pending,
		},
	}
	for i, e := range entries {
		resp.Leaderboard[i] = leaderboardEntry{
			Rank:                e.Rank,
			SubmissionID:        e.SubmissionID,
			TeamID:              e.TeamID,
			AverageScore:        e.AverageScore,
			ScoreCount:          e.ScoreCount,
			PerCriterionAverage: e.PerCriterionAverage,
			Status:              string(e.Status),
			SubmittedAt:         e.SubmittedAt,
		}
	}
	return resp
}
