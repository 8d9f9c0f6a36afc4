package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/okian/judged/internal/domain/model"
)

// MemoryStore implements Store with plain maps under a single RWMutex.
// The single write lock is what makes ApplyShortlist atomic here.
type MemoryStore struct {
	mu sync.RWMutex

	rounds      map[string]model.Round            // roundKey -> round
	submissions map[string]model.Submission       // id -> submission
	scores      map[string]map[string]model.Score // submission id -> judge id -> score
	progress    map[string]model.RoundProgress    // roundKey -> progress
	byRound     map[string]map[string]struct{}    // roundKey -> submission id set
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rounds:      make(map[string]model.Round),
		submissions: make(map[string]model.Submission),
		scores:      make(map[string]map[string]model.Score),
		progress:    make(map[string]model.RoundProgress),
		byRound:     make(map[string]map[string]struct{}),
	}
}

func roundKey(hackathonID string, roundIndex int) string {
	return fmt.Sprintf("%s/%d", hackathonID, roundIndex)
}

// PutRound registers or replaces a round definition.
func (s *MemoryStore) PutRound(_ context.Context, round model.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rounds[roundKey(round.HackathonID, round.Index)] = round
	return nil
}

// Round returns a round definition.
func (s *MemoryStore) Round(_ context.Context, hackathonID string, roundIndex int) (model.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	round, ok := s.rounds[roundKey(hackathonID, roundIndex)]
	if !ok {
		return model.Round{}, fmt.Errorf("round %s/%d: %w", hackathonID, roundIndex, ErrNotFound)
	}
	return round, nil
}

// CreateSubmission stores a new submission.
func (s *MemoryStore) CreateSubmission(_ context.Context, sub model.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := strings.TrimSpace(sub.ID)
	if _, exists := s.submissions[id]; exists {
		return fmt.Errorf("submission %s: %w", id, ErrDuplicateSubmission)
	}
	s.submissions[id] = sub

	key := roundKey(sub.HackathonID, sub.RoundIndex)
	if s.byRound[key] == nil {
		s.byRound[key] = make(map[string]struct{})
	}
	s.byRound[key][id] = struct{}{}
	return nil
}

// Submission returns a submission by id.
func (s *MemoryStore) Submission(_ context.Context, id string) (model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[id]
	if !ok {
		return model.Submission{}, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	return sub, nil
}

// SubmissionsByRound returns every submission created for the round.
func (s *MemoryStore) SubmissionsByRound(_ context.Context, hackathonID string, roundIndex int) ([]model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byRound[roundKey(hackathonID, roundIndex)]
	subs := make([]model.Submission, 0, len(ids))
	for id := range ids {
		subs = append(subs, s.submissions[id])
	}
	return subs, nil
}

// SubmissionByTeam returns a team's submission for a round, if any.
func (s *MemoryStore) SubmissionByTeam(_ context.Context, hackathonID string, roundIndex int, teamID string) (model.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id := range s.byRound[roundKey(hackathonID, roundIndex)] {
		if sub := s.submissions[id]; sub.TeamID == teamID {
			return sub, nil
		}
	}
	return model.Submission{}, fmt.Errorf("team %s in round %d: %w", teamID, roundIndex, ErrNotFound)
}

// UpsertScore stores a judge's scorecard, last write wins.
func (s *MemoryStore) UpsertScore(_ context.Context, score model.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.submissions[score.SubmissionID]; !ok {
		return fmt.Errorf("submission %s: %w", score.SubmissionID, ErrNotFound)
	}
	if s.scores[score.SubmissionID] == nil {
		s.scores[score.SubmissionID] = make(map[string]model.Score)
	}
	s.scores[score.SubmissionID][score.JudgeID] = copyScore(score)
	return nil
}

// ScoresBySubmission returns a submission's scorecards ordered by judge id.
func (s *MemoryStore) ScoresBySubmission(_ context.Context, submissionID string) ([]model.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scoresLocked(submissionID), nil
}

// ScoresByRound returns every scorecard for the round keyed by submission id.
func (s *MemoryStore) ScoresByRound(_ context.Context, hackathonID string, roundIndex int) (map[string][]model.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]model.Score)
	for id := range s.byRound[roundKey(hackathonID, roundIndex)] {
		if cards := s.scoresLocked(id); len(cards) > 0 {
			out[id] = cards
		}
	}
	return out, nil
}

// scoresLocked snapshots one submission's scorecards; callers hold the lock.
func (s *MemoryStore) scoresLocked(submissionID string) []model.Score {
	byJudge := s.scores[submissionID]
	cards := make([]model.Score, 0, len(byJudge))
	for _, score := range byJudge {
		cards = append(cards, copyScore(score))
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].JudgeID < cards[j].JudgeID })
	return cards
}

// RoundProgress returns the shortlist record for a round.
func (s *MemoryStore) RoundProgress(_ context.Context, hackathonID string, roundIndex int) (model.RoundProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	progress, ok := s.progress[roundKey(hackathonID, roundIndex)]
	if !ok {
		return model.RoundProgress{}, fmt.Errorf("round progress %s/%d: %w", hackathonID, roundIndex, ErrNotFound)
	}
	return copyProgress(progress), nil
}

// ApplyShortlist atomically writes the progress record and submission
// statuses. The single mutex covers both maps, so readers never observe a
// half-applied shortlist.
func (s *MemoryStore) ApplyShortlist(_ context.Context, progress model.RoundProgress, statuses map[string]model.SubmissionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := roundKey(progress.HackathonID, progress.RoundIndex)
	var storedVersion int64
	if existing, ok := s.progress[key]; ok {
		storedVersion = existing.Version
		// Keep the record id stable across overwrites.
		progress.ID = existing.ID
	}
	if progress.Version != storedVersion {
		return fmt.Errorf("round progress %s: have %d, caller read %d: %w",
			key, storedVersion, progress.Version, ErrVersionMismatch)
	}

	for id := range statuses {
		if _, ok := s.submissions[id]; !ok {
			return fmt.Errorf("submission %s: %w", id, ErrNotFound)
		}
	}

	progress.Version = storedVersion + 1
	s.progress[key] = copyProgress(progress)
	for id, status := range statuses {
		sub := s.submissions[id]
		sub.Status = status
		s.submissions[id] = sub
	}
	return nil
}

// CountSubmissions returns the number of stored submissions.
func (s *MemoryStore) CountSubmissions(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.submissions)
}

// CountFinalizedRounds returns the number of finalized progress records.
func (s *MemoryStore) CountFinalizedRounds(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, p := range s.progress {
		if p.Finalized {
			n++
		}
	}
	return n
}

func copyScore(score model.Score) model.Score {
	criteria := make(map[string]float64, len(score.Criteria))
	for name, value := range score.Criteria {
		criteria[name] = value
	}
	score.Criteria = criteria
	return score
}

func copyProgress(progress model.RoundProgress) model.RoundProgress {
	progress.ShortlistedSubmissions = append([]string(nil), progress.ShortlistedSubmissions...)
	progress.ShortlistedTeams = append([]string(nil), progress.ShortlistedTeams...)
	return progress
}
