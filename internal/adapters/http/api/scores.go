// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/judged/internal/domain/model"
)

// ScoresHandler handles judge scorecard requests.
type ScoresHandler struct {
	deps ScoreDependencies
}

// NewScoresHandler creates a new scores handler.
func NewScoresHandler(deps ScoreDependencies) *ScoresHandler {
	return &ScoresHandler{deps: deps}
}

type scoreRequest struct {
	SubmissionID string             `json:"submission_id"`
	JudgeID      string             `json:"judge_id"`
	Criteria     map[string]float64 `json:"criteria"`
	Feedback     string             `json:"feedback"`
}

func (s scoreRequest) validate() error {
	switch {
	case strings.TrimSpace(s.SubmissionID) == "":
		return fmt.Errorf("%w: missing submission_id", ErrBadRequest)
	case strings.TrimSpace(s.JudgeID) == "":
		return fmt.Errorf("%w: missing judge_id", ErrBadRequest)
	case len(s.Criteria) == 0:
		return fmt.Errorf("%w: missing criteria", ErrBadRequest)
	}
	return nil
}

// HandlePostScore handles POST /scores requests. A judge re-scoring the
// same submission replaces their earlier scorecard.
func (h *ScoresHandler) HandlePostScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	err := h.deps.RecordScore(r.Context(), model.Score{
		SubmissionID: req.SubmissionID,
		JudgeID:      req.JudgeID,
		Criteria:     req.Criteria,
		Feedback:     req.Feedback,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "score recorded"})
}
