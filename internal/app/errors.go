package app

import "errors"

// Sentinel kinds for service errors. HTTP handlers translate these with
// errors.Is; see the api package.
var (
	// ErrShortlistInProgress means another shortlist run holds the round.
	// Callers should retry after backoff.
	ErrShortlistInProgress = errors.New("shortlisting already in progress for round")

	// ErrInvalidScore means a scorecard failed write-time validation.
	ErrInvalidScore = errors.New("invalid score")

	// ErrInvalidRound means a round definition failed validation.
	ErrInvalidRound = errors.New("invalid round")

	// ErrNotEligible means the team may not act in the requested round.
	ErrNotEligible = errors.New("not eligible for round")

	// ErrInconsistentState means a submission status and its round's
	// progress record disagree. This is a data-integrity bug, logged
	// loudly and never silently coerced.
	ErrInconsistentState = errors.New("inconsistent shortlist state")
)
