// Package games holds the catalog of the six seasonal mini-games and the
// unlock policy attached to each slot.
package games

import "fmt"

// Count is the number of game slots.
const Count = 6

// FinalGame is the terminal slot whose completion issues a certificate.
const FinalGame = Count

// Slug identifies a game in URLs and submissions.
type Slug string

const (
	SlugQuiz       Slug = "quiz"
	SlugCrossword  Slug = "crossword"
	SlugPuzzle     Slug = "puzzle"
	SlugCoding     Slug = "coding"
	SlugNetworking Slug = "networking"
	SlugSurprise   Slug = "surprise"
)

// Game is one slot in the progression.
type Game struct {
	Number      int          `json:"number"`
	Slug        Slug         `json:"slug"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Icon        string       `json:"icon"`
	Policy      UnlockPolicy `json:"-"`
}

// String returns "N. Title".
func (g Game) String() string {
	return fmt.Sprintf("%d. %s", g.Number, g.Title)
}

// ValidNumber reports whether n addresses a game slot.
func ValidNumber(n int) bool {
	return n >= 1 && n <= Count
}

// ValidScore reports whether score is a percentage.
func ValidScore(score int) bool {
	return score >= 0 && score <= 100
}
