package model

import "github.com/okian/judged/internal/domain/policy"

// RoundType categorizes what a round asks of participants.
type RoundType string

// Round types.
const (
	RoundQuiz    RoundType = "quiz"
	RoundPPT     RoundType = "ppt"
	RoundIdea    RoundType = "idea"
	RoundPitch   RoundType = "pitch"
	RoundProject RoundType = "project"
)

// Round is one ordered stage of a hackathon, indexed from 0.
type Round struct {
	HackathonID string
	Index       int
	Type        RoundType
	// Policy is the default selection policy applied when a shortlist run
	// does not carry an explicit one.
	Policy policy.Policy
}
