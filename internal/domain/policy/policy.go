// Package policy defines shortlist selection policies and their validation.
package policy

import (
	"errors"
	"fmt"
)

// Mode selects how a shortlist run picks winners from a ranked leaderboard.
type Mode string

// Selection modes.
const (
	// ModeTopN shortlists the first Count entries in rank order.
	ModeTopN Mode = "topN"
	// ModeThreshold shortlists every entry with an average score >= MinScore.
	ModeThreshold Mode = "threshold"
)

// Score bounds for threshold policies, matching the criterion value range.
const (
	minThreshold = 0
	maxThreshold = 10
)

// ErrInvalidPolicy is returned for malformed policies. Callers can retry
// with corrected input; nothing is written.
var ErrInvalidPolicy = errors.New("invalid shortlist policy")

// Policy describes one shortlist selection rule. Exactly one of Count or
// MinScore is meaningful depending on Mode.
type Policy struct {
	Mode     Mode    `json:"mode" koanf:"mode"`
	Count    int     `json:"count,omitempty" koanf:"count"`
	MinScore float64 `json:"min_score,omitempty" koanf:"min_score"`
}

// Validate checks the policy before any write happens.
func (p Policy) Validate() error {
	switch p.Mode {
	case ModeTopN:
		if p.Count <= 0 {
			return fmt.Errorf("%w: topN count must be positive, got %d", ErrInvalidPolicy, p.Count)
		}
	case ModeThreshold:
		if p.MinScore < minThreshold || p.MinScore > maxThreshold {
			return fmt.Errorf("%w: threshold must be in [0,10], got %g", ErrInvalidPolicy, p.MinScore)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidPolicy, p.Mode)
	}
	return nil
}

// IsZero reports whether the policy is unset.
func (p Policy) IsZero() bool {
	return p.Mode == ""
}
