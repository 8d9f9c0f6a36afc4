package model

import "time"

// RoundProgress is the durable audit record of a round's shortlist outcome.
// There is at most one per (hackathon, round); re-runs overwrite it in place
// under the Version compare-and-swap guard.
type RoundProgress struct {
	ID          string
	HackathonID string
	RoundIndex  int

	ShortlistedSubmissions []string
	ShortlistedTeams       []string

	ShortlistedAt time.Time
	// Version increments on every overwrite; writers must present the
	// version they read or the store refuses the write.
	Version int64
	// Finalized marks the record as consulted-ready for the next round's
	// eligibility checks.
	Finalized bool
}

// HasSubmission reports whether id is in the shortlisted submission set.
func (p RoundProgress) HasSubmission(id string) bool {
	for _, s := range p.ShortlistedSubmissions {
		if s == id {
			return true
		}
	}
	return false
}

// HasTeam reports whether id is in the shortlisted team set.
func (p RoundProgress) HasTeam(id string) bool {
	for _, t := range p.ShortlistedTeams {
		if t == id {
			return true
		}
	}
	return false
}
