// Package postgres implements the repository port on PostgreSQL via gorm.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/okian/judged/internal/adapters/repository"
	"github.com/okian/judged/internal/domain/model"
	"github.com/okian/judged/internal/domain/policy"
)

type roundRow struct {
	HackathonID    string `gorm:"primaryKey;size:64"`
	RoundIndex     int    `gorm:"primaryKey"`
	Type           string `gorm:"size:16"`
	PolicyMode     string `gorm:"size:16"`
	PolicyCount    int
	PolicyMinScore float64
}

func (roundRow) TableName() string { return "rounds" }

type submissionRow struct {
	ID                 string `gorm:"primaryKey;size:64"`
	HackathonID        string `gorm:"size:64;index:idx_submissions_round,priority:1"`
	TeamID             string `gorm:"size:64;index"`
	RoundIndex         int    `gorm:"index:idx_submissions_round,priority:2"`
	ProblemStatementID string `gorm:"size:64"`
	Status             string `gorm:"size:16"`
	SubmittedAt        time.Time
}

func (submissionRow) TableName() string { return "submissions" }

type scoreRow struct {
	SubmissionID string `gorm:"primaryKey;size:64"`
	JudgeID      string `gorm:"primaryKey;size:64"`
	Criteria     []byte `gorm:"type:jsonb"`
	Feedback     string
	UpdatedAt    time.Time
}

func (scoreRow) TableName() string { return "scores" }

type progressRow struct {
	HackathonID            string `gorm:"primaryKey;size:64"`
	RoundIndex             int    `gorm:"primaryKey"`
	ID                     string `gorm:"size:64"`
	ShortlistedSubmissions []byte `gorm:"type:jsonb"`
	ShortlistedTeams       []byte `gorm:"type:jsonb"`
	ShortlistedAt          time.Time
	Version                int64
	Finalized              bool
}

func (progressRow) TableName() string { return "round_progress" }

// Store implements repository.Store on PostgreSQL.
type Store struct {
	db *gorm.DB
}

// Open connects to dsn and migrates the judging schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&roundRow{}, &submissionRow{}, &scoreRow{}, &progressRow{}); err != nil {
		return nil, fmt.Errorf("migrate judging schema: %w", err)
	}
	return &Store{db: db}, nil
}

// PutRound registers or replaces a round definition.
func (s *Store) PutRound(ctx context.Context, round model.Round) error {
	row := roundRow{
		HackathonID:    round.HackathonID,
		RoundIndex:     round.Index,
		Type:           string(round.Type),
		PolicyMode:     string(round.Policy.Mode),
		PolicyCount:    round.Policy.Count,
		PolicyMinScore: round.Policy.MinScore,
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("put round: %w", err)
	}
	return nil
}

// Round returns a round definition.
func (s *Store) Round(ctx context.Context, hackathonID string, roundIndex int) (model.Round, error) {
	var row roundRow
	err := s.db.WithContext(ctx).
		Where("hackathon_id = ? AND round_index = ?", hackathonID, roundIndex).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Round{}, fmt.Errorf("round %s/%d: %w", hackathonID, roundIndex, repository.ErrNotFound)
	}
	if err != nil {
		return model.Round{}, fmt.Errorf("load round: %w", err)
	}
	return model.Round{
		HackathonID: row.HackathonID,
		Index:       row.RoundIndex,
		Type:        model.RoundType(row.Type),
		Policy: policy.Policy{
			Mode:     policy.Mode(row.PolicyMode),
			Count:    row.PolicyCount,
			MinScore: row.PolicyMinScore,
		},
	}, nil
}

// CreateSubmission stores a new submission.
func (s *Store) CreateSubmission(ctx context.Context, sub model.Submission) error {
	row := submissionRow{
		ID:                 sub.ID,
		HackathonID:        sub.HackathonID,
		TeamID:             sub.TeamID,
		RoundIndex:         sub.RoundIndex,
		ProblemStatementID: sub.ProblemStatementID,
		Status:             string(sub.Status),
		SubmittedAt:        sub.SubmittedAt,
	}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return fmt.Errorf("create submission: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("submission %s: %w", sub.ID, repository.ErrDuplicateSubmission)
	}
	return nil
}

// Submission returns a submission by id.
func (s *Store) Submission(ctx context.Context, id string) (model.Submission, error) {
	var row submissionRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Submission{}, fmt.Errorf("submission %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return model.Submission{}, fmt.Errorf("load submission: %w", err)
	}
	return toSubmission(row), nil
}

// SubmissionsByRound returns every submission created for the round.
func (s *Store) SubmissionsByRound(ctx context.Context, hackathonID string, roundIndex int) ([]model.Submission, error) {
	var rows []submissionRow
	err := s.db.WithContext(ctx).
		Where("hackathon_id = ? AND round_index = ?", hackathonID, roundIndex).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load submissions: %w", err)
	}
	subs := make([]model.Submission, len(rows))
	for i, row := range rows {
		subs[i] = toSubmission(row)
	}
	return subs, nil
}

// SubmissionByTeam returns a team's submission for a round, if any.
func (s *Store) SubmissionByTeam(ctx context.Context, hackathonID string, roundIndex int, teamID string) (model.Submission, error) {
	var row submissionRow
	err := s.db.WithContext(ctx).
		Where("hackathon_id = ? AND round_index = ? AND team_id = ?", hackathonID, roundIndex, teamID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Submission{}, fmt.Errorf("team %s in round %d: %w", teamID, roundIndex, repository.ErrNotFound)
	}
	if err != nil {
		return model.Submission{}, fmt.Errorf("load submission: %w", err)
	}
	return toSubmission(row), nil
}

// UpsertScore stores a judge's scorecard, last write wins.
func (s *Store) UpsertScore(ctx context.Context, score model.Score) error {
	if _, err := s.Submission(ctx, score.SubmissionID); err != nil {
		return err
	}
	criteria, err := json.Marshal(score.Criteria)
	if err != nil {
		return fmt.Errorf("encode criteria: %w", err)
	}
	row := scoreRow{
		SubmissionID: score.SubmissionID,
		JudgeID:      score.JudgeID,
		Criteria:     criteria,
		Feedback:     score.Feedback,
		UpdatedAt:    score.UpdatedAt,
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submission_id"}, {Name: "judge_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	return nil
}

// ScoresBySubmission returns a submission's scorecards ordered by judge id.
func (s *Store) ScoresBySubmission(ctx context.Context, submissionID string) ([]model.Score, error) {
	var rows []scoreRow
	err := s.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("judge_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}
	scores := make([]model.Score, 0, len(rows))
	for _, row := range rows {
		score, err := toScore(row)
		if err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, nil
}

// ScoresByRound returns every scorecard for the round keyed by submission id.
func (s *Store) ScoresByRound(ctx context.Context, hackathonID string, roundIndex int) (map[string][]model.Score, error) {
	var rows []scoreRow
	err := s.db.WithContext(ctx).
		Joins("JOIN submissions ON submissions.id = scores.submission_id").
		Where("submissions.hackathon_id = ? AND submissions.round_index = ?", hackathonID, roundIndex).
		Order("scores.submission_id, scores.judge_id").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load round scores: %w", err)
	}
	out := make(map[string][]model.Score)
	for _, row := range rows {
		score, err := toScore(row)
		if err != nil {
			return nil, err
		}
		out[row.SubmissionID] = append(out[row.SubmissionID], score)
	}
	return out, nil
}

// RoundProgress returns the shortlist record for a round.
func (s *Store) RoundProgress(ctx context.Context, hackathonID string, roundIndex int) (model.RoundProgress, error) {
	var row progressRow
	err := s.db.WithContext(ctx).
		Where("hackathon_id = ? AND round_index = ?", hackathonID, roundIndex).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.RoundProgress{}, fmt.Errorf("round progress %s/%d: %w", hackathonID, roundIndex, repository.ErrNotFound)
	}
	if err != nil {
		return model.RoundProgress{}, fmt.Errorf("load round progress: %w", err)
	}
	return toProgress(row)
}

// ApplyShortlist writes the progress record and submission statuses in one
// transaction with an optimistic version guard on the progress row.
func (s *Store) ApplyShortlist(ctx context.Context, progress model.RoundProgress, statuses map[string]model.SubmissionStatus) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing progressRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("hackathon_id = ? AND round_index = ?", progress.HackathonID, progress.RoundIndex).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if progress.Version != 0 {
				return fmt.Errorf("round progress %s/%d: no stored record, caller read %d: %w",
					progress.HackathonID, progress.RoundIndex, progress.Version, repository.ErrVersionMismatch)
			}
		case err != nil:
			return fmt.Errorf("lock round progress: %w", err)
		default:
			if progress.Version != existing.Version {
				return fmt.Errorf("round progress %s/%d: have %d, caller read %d: %w",
					progress.HackathonID, progress.RoundIndex, existing.Version, progress.Version,
					repository.ErrVersionMismatch)
			}
			progress.ID = existing.ID
		}

		subIDs, err := json.Marshal(progress.ShortlistedSubmissions)
		if err != nil {
			return fmt.Errorf("encode shortlisted submissions: %w", err)
		}
		teamIDs, err := json.Marshal(progress.ShortlistedTeams)
		if err != nil {
			return fmt.Errorf("encode shortlisted teams: %w", err)
		}
		row := progressRow{
			HackathonID:            progress.HackathonID,
			RoundIndex:             progress.RoundIndex,
			ID:                     progress.ID,
			ShortlistedSubmissions: subIDs,
			ShortlistedTeams:       teamIDs,
			ShortlistedAt:          progress.ShortlistedAt,
			Version:                progress.Version + 1,
			Finalized:              progress.Finalized,
		}
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("write round progress: %w", err)
		}

		for id, status := range statuses {
			res := tx.Model(&submissionRow{}).Where("id = ?", id).Update("status", string(status))
			if res.Error != nil {
				return fmt.Errorf("update submission %s: %w", id, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("submission %s: %w", id, repository.ErrNotFound)
			}
		}
		return nil
	})
}

// CountSubmissions returns the number of stored submissions.
func (s *Store) CountSubmissions(ctx context.Context) int {
	var n int64
	s.db.WithContext(ctx).Model(&submissionRow{}).Count(&n)
	return int(n)
}

// CountFinalizedRounds returns the number of finalized progress records.
func (s *Store) CountFinalizedRounds(ctx context.Context) int {
	var n int64
	s.db.WithContext(ctx).Model(&progressRow{}).Where("finalized = ?", true).Count(&n)
	return int(n)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("unwrap db: %w", err)
	}
	return db.Close()
}

func toSubmission(row submissionRow) model.Submission {
	return model.Submission{
		ID:                 row.ID,
		HackathonID:        row.HackathonID,
		TeamID:             row.TeamID,
		RoundIndex:         row.RoundIndex,
		ProblemStatementID: row.ProblemStatementID,
		Status:             model.SubmissionStatus(row.Status),
		SubmittedAt:        row.SubmittedAt,
	}
}

func toScore(row scoreRow) (model.Score, error) {
	criteria := make(map[string]float64)
	if len(row.Criteria) > 0 {
		if err := json.Unmarshal(row.Criteria, &criteria); err != nil {
			return model.Score{}, fmt.Errorf("decode criteria for %s/%s: %w", row.SubmissionID, row.JudgeID, err)
		}
	}
	return model.Score{
		SubmissionID: row.SubmissionID,
		JudgeID:      row.JudgeID,
		Criteria:     criteria,
		Feedback:     row.Feedback,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}

func toProgress(row progressRow) (model.RoundProgress, error) {
	var subIDs, teamIDs []string
	if len(row.ShortlistedSubmissions) > 0 {
		if err := json.Unmarshal(row.ShortlistedSubmissions, &subIDs); err != nil {
			return model.RoundProgress{}, fmt.Errorf("decode shortlisted submissions: %w", err)
		}
	}
	if len(row.ShortlistedTeams) > 0 {
		if err := json.Unmarshal(row.ShortlistedTeams, &teamIDs); err != nil {
			return model.RoundProgress{}, fmt.Errorf("decode shortlisted teams: %w", err)
		}
	}
	return model.RoundProgress{
		ID:                     row.ID,
		HackathonID:            row.HackathonID,
		RoundIndex:             row.RoundIndex,
		ShortlistedSubmissions: subIDs,
		ShortlistedTeams:       teamIDs,
		ShortlistedAt:          row.ShortlistedAt,
		Version:                row.Version,
		Finalized:              row.Finalized,
	}, nil
}
