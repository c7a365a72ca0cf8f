package games

import "fmt"

// PolicyKind selects how a completed game's score gates the next slot.
type PolicyKind string

const (
	// PolicyThreshold unlocks the next game when score >= Threshold.
	PolicyThreshold PolicyKind = "threshold"
	// PolicyAlways unlocks the next game on any completion.
	PolicyAlways PolicyKind = "always"
	// PolicyPass unlocks only on a full pass (score 100).
	PolicyPass PolicyKind = "pass"
	// PolicyTerminal has no next game; completion issues a certificate.
	PolicyTerminal PolicyKind = "terminal"
)

// UnlockPolicy decides whether a score qualifies to unlock the next game.
type UnlockPolicy struct {
	Kind      PolicyKind
	Threshold int
}

// Qualifies reports whether score unlocks the next slot.
func (p UnlockPolicy) Qualifies(score int) bool {
	switch p.Kind {
	case PolicyThreshold:
		return score >= p.Threshold
	case PolicyAlways:
		return true
	case PolicyPass:
		return score == 100
	default:
		return false
	}
}

// Describe returns a short human label, e.g. "score >= 70".
func (p UnlockPolicy) Describe() string {
	switch p.Kind {
	case PolicyThreshold:
		return fmt.Sprintf("score >= %d", p.Threshold)
	case PolicyAlways:
		return "any completion"
	case PolicyPass:
		return "all tests pass"
	case PolicyTerminal:
		return "issues certificate"
	default:
		return string(p.Kind)
	}
}
