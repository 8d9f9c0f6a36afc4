// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/okian/judged/internal/domain/model"
)

// SubmissionsHandler handles submission creation requests.
type SubmissionsHandler struct {
	deps SubmissionDependencies
}

// NewSubmissionsHandler creates a new submissions handler.
func NewSubmissionsHandler(deps SubmissionDependencies) *SubmissionsHandler {
	return &SubmissionsHandler{deps: deps}
}

type submissionRequest struct {
	HackathonID        string `json:"hackathon_id"`
	TeamID             string `json:"team_id"`
	Round              int    `json:"round"`
	ProblemStatementID string `json:"problem_statement_id"`
}

func (s submissionRequest) validate() error {
	switch {
	case strings.TrimSpace(s.HackathonID) == "":
		return fmt.Errorf("%w: missing hackathon_id", ErrBadRequest)
	case strings.TrimSpace(s.TeamID) == "":
		return fmt.Errorf("%w: missing team_id", ErrBadRequest)
	case s.Round < 0:
		return fmt.Errorf("%w: round must be non-negative", ErrBadRequest)
	}
	return nil
}

type submissionResponse struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// HandlePostSubmission handles POST /submissions requests. Creation for
// rounds past the first consults the eligibility gate and fails closed.
func (h *SubmissionsHandler) HandlePostSubmission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req submissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	sub, err := h.deps.CreateSubmission(r.Context(), model.Submission{
		HackathonID:        req.HackathonID,
		TeamID:             req.TeamID,
		RoundIndex:         req.Round,
		ProblemStatementID: req.ProblemStatementID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, submissionResponse{
		ID:          sub.ID,
		Status:      string(sub.Status),
		SubmittedAt: sub.SubmittedAt,
	})
}
