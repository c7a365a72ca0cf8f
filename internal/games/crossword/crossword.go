// Package crossword scores letter-by-letter crossword submissions.
package crossword

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/frostline/holidayquest/internal/apperr"
)

// Direction is the orientation of a word in the grid.
type Direction string

const (
	Across Direction = "across"
	Down   Direction = "down"
)

// Word is one numbered entry with its clue.
type Word struct {
	Number    int       `json:"number"`
	Clue      string    `json:"clue"`
	Answer    string    `json:"-"`
	Length    int       `json:"length"`
	Direction Direction `json:"direction"`
}

// WordResult reports how many letters of one word matched.
type WordResult struct {
	Number  int  `json:"number"`
	Correct int  `json:"correct"`
	Length  int  `json:"length"`
	Solved  bool `json:"solved"`
}

// Result is the outcome of a check.
type Result struct {
	Score   int          `json:"score"`
	Correct int          `json:"correct"`
	Total   int          `json:"total"`
	Words   []WordResult `json:"words"`
}

// Score compares entries against words. entries[i] holds the letters typed
// into word i, one cell per element; missing cells count as wrong.
func Score(words []Word, entries [][]string) (Result, error) {
	if len(entries) > len(words) {
		return Result{}, apperr.Invalid("entries", fmt.Sprintf("got %d words, puzzle has %d", len(entries), len(words)))
	}

	res := Result{Words: make([]WordResult, 0, len(words))}
	for i, w := range words {
		solution := []rune(strings.ToUpper(w.Answer))

		var cells []string
		if i < len(entries) {
			cells = entries[i]
		}
		if len(cells) > len(solution) {
			return Result{}, apperr.Invalid("entries", fmt.Sprintf("word %d has %d letters, got %d", w.Number, len(solution), len(cells)))
		}

		wr := WordResult{Number: w.Number, Length: len(solution)}
		for j, want := range solution {
			if j < len(cells) && cellMatches(cells[j], want) {
				wr.Correct++
			}
		}
		wr.Solved = wr.Correct == wr.Length

		res.Correct += wr.Correct
		res.Total += wr.Length
		res.Words = append(res.Words, wr)
	}
	res.Score = ScoreCells(res.Correct, res.Total)
	return res, nil
}

// ScoreCells returns round(correct / total * 100). An empty grid scores 0.
func ScoreCells(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

func cellMatches(cell string, want rune) bool {
	cell = strings.TrimSpace(cell)
	if utf8.RuneCountInString(cell) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(strings.ToUpper(cell))
	return r == want
}
