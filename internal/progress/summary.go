package progress

import (
	"math"

	"github.com/frostline/holidayquest/internal/games"
	"github.com/frostline/holidayquest/internal/store"
)

// Summary holds the dashboard aggregates.
type Summary struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	// TotalScore sums the stored score of every slot.
	TotalScore int `json:"totalScore"`
	// AverageScore is TotalScore over completed games, rounded.
	AverageScore int `json:"averageScore"`
	// Percent is the share of completed games, rounded.
	Percent int `json:"percent"`
}

// Summarize aggregates a user's progress rows.
func Summarize(recs []store.ProgressRecord) Summary {
	s := Summary{Total: games.Count}
	for _, r := range recs {
		s.TotalScore += r.Score
		if r.Completed {
			s.Completed++
		}
	}
	if s.Completed > 0 {
		s.AverageScore = int(math.Round(float64(s.TotalScore) / float64(s.Completed)))
	}
	s.Percent = int(math.Round(float64(s.Completed) / float64(games.Count) * 100))
	return s
}

// Slot joins a catalog entry with the user's row.
type Slot struct {
	games.Game
	State      SlotState            `json:"state"`
	UnlockRule string               `json:"unlockRule"`
	Progress   store.ProgressRecord `json:"progress"`
}

// Slots maps rows onto the catalog. Missing rows yield locked slots, except
// the first game which is always playable.
func Slots(recs []store.ProgressRecord) []Slot {
	byGame := make(map[int]store.ProgressRecord, len(recs))
	for _, r := range recs {
		byGame[r.GameNumber] = r
	}

	all := games.All()
	out := make([]Slot, 0, len(all))
	for _, g := range all {
		rec, ok := byGame[g.Number]
		if !ok {
			rec = store.ProgressRecord{GameNumber: g.Number, Unlocked: g.Number == 1}
		}
		out = append(out, Slot{
			Game:       g,
			State:      StateOf(rec),
			UnlockRule: g.Policy.Describe(),
			Progress:   rec,
		})
	}
	return out
}
