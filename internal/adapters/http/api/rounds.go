// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/judged/internal/domain/model"
	"github.com/okian/judged/internal/domain/policy"
)

// RoundsHandler handles round registration requests.
type RoundsHandler struct {
	deps RoundDependencies
}

// NewRoundsHandler creates a new rounds handler.
func NewRoundsHandler(deps RoundDependencies) *RoundsHandler {
	return &RoundsHandler{deps: deps}
}

type roundRequest struct {
	HackathonID string        `json:"hackathon_id"`
	Index       int           `json:"index"`
	Type        string        `json:"type"`
	Policy      policy.Policy `json:"policy"`
}

func (r roundRequest) validate() error {
	switch {
	case strings.TrimSpace(r.HackathonID) == "":
		return fmt.Errorf("%w: missing hackathon_id", ErrBadRequest)
	case r.Index < 0:
		return fmt.Errorf("%w: index must be non-negative", ErrBadRequest)
	}
	switch model.RoundType(r.Type) {
	case model.RoundQuiz, model.RoundPPT, model.RoundIdea, model.RoundPitch, model.RoundProject:
		return nil
	default:
		return fmt.Errorf("%w: unknown round type %q", ErrBadRequest, r.Type)
	}
}

// HandlePostRound handles POST /rounds requests.
func (h *RoundsHandler) HandlePostRound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req roundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	err := h.deps.RegisterRound(r.Context(), model.Round{
		HackathonID: req.HackathonID,
		Index:       req.Index,
		Type:        model.RoundType(req.Type),
		Policy:      req.Policy,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "round registered"})
}
