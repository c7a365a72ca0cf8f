// Package puzzle implements the swap-tile picture puzzle. Tiles are swapped
// pairwise; the board is solved when every tile sits at its own index.
package puzzle

import (
	"fmt"
	"math/rand/v2"

	"github.com/frostline/holidayquest/internal/apperr"
)

// DefaultSize is the board edge length used by the seasonal puzzle.
const DefaultSize = 4

// CompletionScore is stored when the board is solved.
const CompletionScore = 100

// Board is a Size x Size arrangement. Tiles[pos] is the id of the tile at
// pos; tile id i belongs at position i.
type Board struct {
	Size  int    `json:"size"`
	Seed  uint64 `json:"seed"`
	Tiles []int  `json:"tiles"`
	Moves int    `json:"moves"`
}

// Solved returns a board with every tile in place.
func Solved(size int) *Board {
	b := &Board{Size: size, Tiles: make([]int, size*size)}
	for i := range b.Tiles {
		b.Tiles[i] = i
	}
	return b
}

// NewBoard returns a shuffled board derived from seed. The same seed always
// yields the same arrangement, so a submission can be replayed server-side.
func NewBoard(size int, seed uint64) *Board {
	b := Solved(size)
	b.Seed = seed

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := len(b.Tiles) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		b.Tiles[i], b.Tiles[j] = b.Tiles[j], b.Tiles[i]
	}
	if b.IsSolved() && len(b.Tiles) > 1 {
		b.Tiles[0], b.Tiles[1] = b.Tiles[1], b.Tiles[0]
	}
	return b
}

// Swap exchanges the tiles at positions a and b and counts one move.
func (b *Board) Swap(a, c int) error {
	n := len(b.Tiles)
	if a < 0 || a >= n || c < 0 || c >= n {
		return apperr.Invalid("swaps", fmt.Sprintf("position out of range: (%d, %d)", a, c))
	}
	if a == c {
		return apperr.Invalid("swaps", fmt.Sprintf("cannot swap position %d with itself", a))
	}
	b.Tiles[a], b.Tiles[c] = b.Tiles[c], b.Tiles[a]
	b.Moves++
	return nil
}

// IsSolved reports whether every tile is at its correct position.
func (b *Board) IsSolved() bool {
	for pos, tile := range b.Tiles {
		if pos != tile {
			return false
		}
	}
	return true
}

// Misplaced counts tiles not at their correct position.
func (b *Board) Misplaced() int {
	n := 0
	for pos, tile := range b.Tiles {
		if pos != tile {
			n++
		}
	}
	return n
}

// Result is the outcome of replaying a submission.
type Result struct {
	Solved    bool `json:"solved"`
	Score     int  `json:"score"`
	Moves     int  `json:"moves"`
	Misplaced int  `json:"misplaced"`
}

// Replay rebuilds the board for seed, applies swaps in order and reports
// whether the picture was completed. An unsolved board is still in progress
// and carries no score.
func Replay(size int, seed uint64, swaps [][2]int) (Result, error) {
	b := NewBoard(size, seed)
	for _, s := range swaps {
		if err := b.Swap(s[0], s[1]); err != nil {
			return Result{}, err
		}
	}

	res := Result{Solved: b.IsSolved(), Moves: b.Moves, Misplaced: b.Misplaced()}
	if res.Solved {
		res.Score = CompletionScore
	}
	return res, nil
}

// SolveSwaps returns a swap sequence that solves b. Used by tooling and tests.
func SolveSwaps(b *Board) [][2]int {
	tiles := make([]int, len(b.Tiles))
	copy(tiles, b.Tiles)

	where := make([]int, len(tiles))
	for pos, tile := range tiles {
		where[tile] = pos
	}

	var swaps [][2]int
	for pos := range tiles {
		if tiles[pos] == pos {
			continue
		}
		from := where[pos]
		swaps = append(swaps, [2]int{pos, from})
		moved := tiles[pos]
		tiles[pos], tiles[from] = tiles[from], tiles[pos]
		where[moved] = from
		where[pos] = pos
	}
	return swaps
}
