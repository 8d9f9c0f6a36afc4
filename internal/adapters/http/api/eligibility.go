// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// EligibilityHandler handles eligibility queries.
type EligibilityHandler struct {
	deps EligibilityDependencies
}

// NewEligibilityHandler creates a new eligibility handler.
func NewEligibilityHandler(deps EligibilityDependencies) *EligibilityHandler {
	return &EligibilityHandler{deps: deps}
}

type eligibilityDetails struct {
	Round            int       `json:"round"`
	ShortlistedAt    time.Time `json:"shortlisted_at"`
	ShortlistedCount int       `json:"shortlisted_count"`
	SubmissionID     string    `json:"submission_id,omitempty"`
}

type eligibilityResponse struct {
	IsEligible         bool                `json:"is_eligible"`
	Reason             string              `json:"reason"`
	ShortlistingSource string              `json:"shortlisting_source"`
	ShortlistingDetail *eligibilityDetails `json:"shortlisting_details,omitempty"`
}

// HandleGetEligibility handles
// GET /eligibility?team_id=X&hackathon_id=Y&round=N requests.
func (h *EligibilityHandler) HandleGetEligibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	teamID := r.URL.Query().Get("team_id")
	hackathonID := r.URL.Query().Get("hackathon_id")
	if teamID == "" || hackathonID == "" {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: team_id and hackathon_id are required", ErrBadRequest))
		return
	}
	roundIndex, err := strconv.Atoi(r.URL.Query().Get("round"))
	if err != nil || roundIndex < 0 {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: round must be a non-negative integer", ErrBadRequest))
		return
	}

	result, err := h.deps.Eligibility(r.Context(), teamID, hackathonID, roundIndex)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := eligibilityResponse{
		IsEligible:         result.IsEligible,
		Reason:             result.Reason,
		ShortlistingSource: result.Source,
	}
	if result.Details != nil {
		resp.ShortlistingDetail = &eligibilityDetails{
			Round:            result.Details.RoundIndex,
			ShortlistedAt:    result.Details.ShortlistedAt,
			ShortlistedCount: result.Details.ShortlistedCount,
			SubmissionID:     result.Details.SubmissionID,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
