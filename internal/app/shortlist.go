package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/judged/internal/adapters/repository"
	"github.com/okian/judged/internal/domain/model"
	"github.com/okian/judged/internal/domain/policy"
	"github.com/okian/judged/pkg/logger"
	"github.com/okian/judged/pkg/metrics"
)

// ShortlistResult is the outcome of a bulk shortlist run.
type ShortlistResult struct {
	Message                string
	ShortlistedSubmissions []string
	ShortlistedTeams       []string
}

func shortlistKey(hackathonID string, roundIndex int) string {
	return fmt.Sprintf("%s/%d", hackathonID, roundIndex)
}

// Shortlist applies a selection policy to a round's leaderboard and writes
// the outcome: every submission in the round ends up shortlisted or
// rejected, and the round's progress record is created or overwritten in
// the same atomic store operation.
//
// A zero policy falls back to the round's default. The run is idempotent;
// re-running against unchanged scores rewrites the same record with the
// same membership. Concurrent runs on one round are refused with
// ErrShortlistInProgress.
func (s *Service) Shortlist(ctx context.Context, hackathonID string, roundIndex int, p policy.Policy) (ShortlistResult, error) {
	round, err := s.store.Round(ctx, hackathonID, roundIndex)
	if err != nil {
		return ShortlistResult{}, err
	}
	if p.IsZero() {
		p = round.Policy
	}
	if err := p.Validate(); err != nil {
		return ShortlistResult{}, err
	}

	key := shortlistKey(hackathonID, roundIndex)
	if !s.guard.TryAcquire(ctx, key) {
		metrics.RecordShortlistConflict()
		return ShortlistResult{}, fmt.Errorf("%s: %w", key, ErrShortlistInProgress)
	}
	defer s.guard.Release(ctx, key)

	entries, _, err := s.Leaderboard(ctx, hackathonID, roundIndex)
	if err != nil {
		return ShortlistResult{}, err
	}

	statuses := make(map[string]model.SubmissionStatus, len(entries))
	var subIDs, teamIDs []string
	for _, entry := range entries {
		selected := false
		switch p.Mode {
		case policy.ModeTopN:
			selected = entry.Rank <= p.Count
		case policy.ModeThreshold:
			selected = entry.AverageScore >= p.MinScore
		}
		if selected {
			statuses[entry.SubmissionID] = model.StatusShortlisted
			subIDs = append(subIDs, entry.SubmissionID)
			teamIDs = append(teamIDs, entry.TeamID)
		} else {
			statuses[entry.SubmissionID] = model.StatusRejected
		}
	}

	progress := model.RoundProgress{
		ID:                     s.newID(),
		HackathonID:            hackathonID,
		RoundIndex:             roundIndex,
		ShortlistedSubmissions: subIDs,
		ShortlistedTeams:       teamIDs,
		ShortlistedAt:          s.now(),
		Finalized:              true,
	}
	if existing, err := s.store.RoundProgress(ctx, hackathonID, roundIndex); err == nil {
		// Overwrite in place: same record, bumped version.
		progress.ID = existing.ID
		progress.Version = existing.Version
	} else if !errors.Is(err, repository.ErrNotFound) {
		return ShortlistResult{}, err
	}

	if err := s.store.ApplyShortlist(ctx, progress, statuses); err != nil {
		if errors.Is(err, repository.ErrVersionMismatch) {
			// Another process slipped a write in between our read and
			// commit; surface it like any other concurrent run.
			metrics.RecordShortlistConflict()
			return ShortlistResult{}, fmt.Errorf("%s: %w", key, ErrShortlistInProgress)
		}
		return ShortlistResult{}, err
	}

	metrics.RecordShortlistRun(string(p.Mode))
	metrics.UpdateRoundsFinalized(s.store.CountFinalizedRounds(ctx))
	s.logger.Info(ctx, "round shortlisted",
		logger.String("hackathon", hackathonID),
		logger.Int("round", roundIndex),
		logger.String("mode", string(p.Mode)),
		logger.Int("shortlisted", len(subIDs)),
		logger.Int("rejected", len(entries)-len(subIDs)),
	)

	return ShortlistResult{
		Message:                fmt.Sprintf("shortlisted %d of %d submissions", len(subIDs), len(entries)),
		ShortlistedSubmissions: subIDs,
		ShortlistedTeams:       teamIDs,
	}, nil
}

// ToggleShortlist overrides a single submission's shortlist status outside
// the bulk policy. The submission status and the round progress membership
// move together; there is no partial state. A later bulk run recomputes
// from the leaderboard and overwrites the override.
func (s *Service) ToggleShortlist(ctx context.Context, submissionID string, shortlist bool) (model.RoundProgress, error) {
	sub, err := s.store.Submission(ctx, submissionID)
	if err != nil {
		return model.RoundProgress{}, err
	}

	key := shortlistKey(sub.HackathonID, sub.RoundIndex)
	if !s.guard.TryAcquire(ctx, key) {
		metrics.RecordShortlistConflict()
		return model.RoundProgress{}, fmt.Errorf("%s: %w", key, ErrShortlistInProgress)
	}
	defer s.guard.Release(ctx, key)

	progress, err := s.store.RoundProgress(ctx, sub.HackathonID, sub.RoundIndex)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		progress = model.RoundProgress{
			ID:          s.newID(),
			HackathonID: sub.HackathonID,
			RoundIndex:  sub.RoundIndex,
		}
	case err != nil:
		return model.RoundProgress{}, err
	}

	progress.ShortlistedSubmissions = toggleMember(progress.ShortlistedSubmissions, sub.ID, shortlist)
	progress.ShortlistedTeams = toggleMember(progress.ShortlistedTeams, sub.TeamID, shortlist)
	progress.ShortlistedAt = s.now()
	progress.Finalized = true

	status := model.StatusRejected
	if shortlist {
		status = model.StatusShortlisted
	}
	err = s.store.ApplyShortlist(ctx, progress, map[string]model.SubmissionStatus{sub.ID: status})
	if err != nil {
		return model.RoundProgress{}, err
	}

	s.logger.Info(ctx, "submission shortlist toggled",
		logger.String("submission", sub.ID),
		logger.String("team", sub.TeamID),
		logger.Bool("shortlisted", shortlist),
	)
	progress.Version++ // mirror the store's bump for the returned snapshot
	return progress, nil
}

// toggleMember adds or removes id from set, keeping order and uniqueness.
func toggleMember(set []string, id string, include bool) []string {
	out := make([]string, 0, len(set)+1)
	for _, member := range set {
		if member != id {
			out = append(out, member)
		}
	}
	if include {
		out = append(out, id)
	}
	return out
}
