// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/judged/internal/domain/policy"
)

// ShortlistHandler handles bulk shortlist runs and single-submission
// organizer overrides.
type ShortlistHandler struct {
	deps ShortlistDependencies
}

// NewShortlistHandler creates a new shortlist handler.
func NewShortlistHandler(deps ShortlistDependencies) *ShortlistHandler {
	return &ShortlistHandler{deps: deps}
}

type shortlistRequest struct {
	HackathonID string        `json:"hackathon_id"`
	Round       int           `json:"round"`
	Policy      policy.Policy `json:"policy"`
}

type shortlistResponse struct {
	Message                string   `json:"message"`
	ShortlistedSubmissions []string `json:"shortlisted_submissions"`
	ShortlistedTeams       []string `json:"shortlisted_teams"`
}

// HandlePostShortlist handles POST /shortlist requests.
func (h *ShortlistHandler) HandlePostShortlist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req shortlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if strings.TrimSpace(req.HackathonID) == "" || req.Round < 0 {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: hackathon_id and a non-negative round are required", ErrBadRequest))
		return
	}
	result, err := h.deps.Shortlist(r.Context(), req.HackathonID, req.Round, req.Policy)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shortlistResponse{
		Message:                result.Message,
		ShortlistedSubmissions: result.ShortlistedSubmissions,
		ShortlistedTeams:       result.ShortlistedTeams,
	})
}

type toggleRequest struct {
	SubmissionID string `json:"submission_id"`
	Shortlist    bool   `json:"shortlist"`
}

// HandlePostToggle handles POST /shortlist/toggle requests.
func (h *ShortlistHandler) HandlePostToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if strings.TrimSpace(req.SubmissionID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing submission_id", ErrBadRequest))
		return
	}
	progress, err := h.deps.ToggleShortlist(r.Context(), req.SubmissionID, req.Shortlist)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shortlistResponse{
		Message:                "shortlist updated",
		ShortlistedSubmissions: progress.ShortlistedSubmissions,
		ShortlistedTeams:       progress.ShortlistedTeams,
	})
}
