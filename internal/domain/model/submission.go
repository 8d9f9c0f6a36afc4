// Package model contains domain models passed between layers.
package model

import "time"

// SubmissionStatus is the lifecycle state of a submission within its round.
type SubmissionStatus string

// Submission statuses. A submission starts as StatusSubmitted and is moved
// to exactly one of the other two by a shortlist run or an organizer toggle.
const (
	StatusSubmitted   SubmissionStatus = "submitted"
	StatusShortlisted SubmissionStatus = "shortlisted"
	StatusRejected    SubmissionStatus = "rejected"
)

// Submission is a team's entry for one round of a hackathon.
// Submissions are never deleted; a team advancing to the next round creates
// a fresh submission under the new round index.
type Submission struct {
	ID                 string
	HackathonID        string
	TeamID             string
	RoundIndex         int
	ProblemStatementID string
	Status             SubmissionStatus
	SubmittedAt        time.Time
}
