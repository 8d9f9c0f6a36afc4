package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/judged/internal/adapters/repository"
	"github.com/okian/judged/internal/domain/model"
	"github.com/okian/judged/pkg/logger"
	"github.com/okian/judged/pkg/metrics"
)

// Eligibility outcome reasons. Pending and rejected are distinct on
// purpose: a submission form treats "shortlisting has not run yet" very
// differently from "your team was cut".
const (
	ReasonFirstRound  = "first_round"
	ReasonShortlisted = "shortlisted"
	ReasonRejected    = "rejected"
	ReasonPending     = "pending"
)

// EligibilityDetails describes the record the decision came from.
type EligibilityDetails struct {
	RoundIndex       int
	ShortlistedAt    time.Time
	ShortlistedCount int
	SubmissionID     string
}

// EligibilityResult is the gate's answer for one team and round.
type EligibilityResult struct {
	IsEligible bool
	Reason     string
	// Source names what decided: "registration" for round 0,
	// "round_progress" once a prior-round record exists, "none" while
	// shortlisting is pending.
	Source  string
	Details *EligibilityDetails
}

// Eligibility reports whether a team may act in the given round.
//
// Round 0 is always eligible; registration is the only gate there and it
// lives outside this core. For later rounds the team must appear in the
// finalized progress record of the previous round. No record yet means
// "pending", never "rejected". The gate fails closed on store errors.
func (s *Service) Eligibility(ctx context.Context, teamID, hackathonID string, roundIndex int) (EligibilityResult, error) {
	if roundIndex == 0 {
		metrics.RecordEligibilityCheck(ReasonFirstRound)
		return EligibilityResult{IsEligible: true, Reason: ReasonFirstRound, Source: "registration"}, nil
	}

	prior := roundIndex - 1
	progress, err := s.store.RoundProgress(ctx, hackathonID, prior)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !progress.Finalized) {
		metrics.RecordEligibilityCheck(ReasonPending)
		return EligibilityResult{IsEligible: false, Reason: ReasonPending, Source: "none"}, nil
	}
	if err != nil {
		return EligibilityResult{}, err
	}

	var priorSubmissionID string
	priorSub, err := s.store.SubmissionByTeam(ctx, hackathonID, prior, teamID)
	switch {
	case err == nil:
		priorSubmissionID = priorSub.ID
		if err := s.checkConsistency(ctx, priorSub, progress); err != nil {
			return EligibilityResult{}, err
		}
	case !errors.Is(err, repository.ErrNotFound):
		return EligibilityResult{}, err
	}

	details := &EligibilityDetails{
		RoundIndex:       prior,
		ShortlistedAt:    progress.ShortlistedAt,
		ShortlistedCount: len(progress.ShortlistedSubmissions),
		SubmissionID:     priorSubmissionID,
	}

	if progress.HasTeam(teamID) || (priorSubmissionID != "" && progress.HasSubmission(priorSubmissionID)) {
		metrics.RecordEligibilityCheck(ReasonShortlisted)
		return EligibilityResult{IsEligible: true, Reason: ReasonShortlisted, Source: "round_progress", Details: details}, nil
	}
	metrics.RecordEligibilityCheck(ReasonRejected)
	return EligibilityResult{IsEligible: false, Reason: ReasonRejected, Source: "round_progress", Details: details}, nil
}

// checkConsistency cross-checks a submission's status against the round's
// progress record. Disagreement is a data-integrity bug: it is logged
// loudly and surfaced, never papered over.
func (s *Service) checkConsistency(ctx context.Context, sub model.Submission, progress model.RoundProgress) error {
	statusSaysShortlisted := sub.Status == model.StatusShortlisted
	recordSaysShortlisted := progress.HasSubmission(sub.ID)
	if statusSaysShortlisted == recordSaysShortlisted {
		return nil
	}

	metrics.RecordConsistencyViolation()
	s.logger.Error(ctx, "submission status disagrees with round progress",
		logger.String("submission", sub.ID),
		logger.String("team", sub.TeamID),
		logger.Int("round", sub.RoundIndex),
		logger.String("status", string(sub.Status)),
		logger.Bool("inProgressRecord", recordSaysShortlisted),
		logger.String("progressRecord", progress.ID),
	)
	return fmt.Errorf("submission %s status %q vs progress record %s: %w",
		sub.ID, sub.Status, progress.ID, ErrInconsistentState)
}
