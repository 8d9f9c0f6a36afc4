package model

import "time"

// Score is one judge's scorecard for one submission. A judge holds at most
// one Score per submission; rewrites replace the stored record wholesale
// (last write wins), they never merge per criterion.
type Score struct {
	SubmissionID string
	JudgeID      string
	// Criteria maps criterion name to a value in [0,10]. Values are
	// validated at write time; readers assume they are in range.
	Criteria  map[string]float64
	Feedback  string
	UpdatedAt time.Time
}
