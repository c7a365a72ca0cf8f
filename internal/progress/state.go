package progress

import "github.com/frostline/holidayquest/internal/store"

// SlotState is a game slot's position in the journey.
type SlotState string

const (
	StateLocked    SlotState = "locked"
	StateUnlocked  SlotState = "unlocked"
	StateCompleted SlotState = "completed"
)

// StateOf derives the slot state from a stored row. Completion wins over the
// unlocked flag.
func StateOf(rec store.ProgressRecord) SlotState {
	switch {
	case rec.Completed:
		return StateCompleted
	case rec.Unlocked:
		return StateUnlocked
	default:
		return StateLocked
	}
}

// StateTransition records a slot state change for display and listeners.
type StateTransition struct {
	Game    int
	From    SlotState
	To      SlotState
	Trigger string // "completed", "score-qualified"
}
