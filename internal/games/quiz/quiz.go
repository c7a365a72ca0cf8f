// Package quiz scores the weighted multiple-choice IT quiz.
package quiz

import (
	"fmt"
	"math"
	"slices"

	"github.com/frostline/holidayquest/internal/apperr"
)

// Kind is the selection mode of a question.
type Kind string

const (
	Single   Kind = "single"
	Multiple Kind = "multiple"
)

// Weight returns the points a question of kind k is worth.
func (k Kind) Weight() int {
	if k == Multiple {
		return 15
	}
	return 10
}

// Question is one quiz item. Correct holds option indices.
type Question struct {
	ID       int      `json:"id"`
	Text     string   `json:"question"`
	Options  []string `json:"options"`
	Correct  []int    `json:"-"`
	Kind     Kind     `json:"type"`
	Category string   `json:"category"`
}

// Answer is the user's selection for one question.
type Answer struct {
	Question int   `json:"question"`
	Selected []int `json:"selected"`
}

// QuestionResult is the per-question outcome returned after scoring.
type QuestionResult struct {
	Question int   `json:"question"`
	Correct  bool  `json:"correct"`
	Expected []int `json:"expected"`
	Points   int   `json:"points"`
}

// Result is the outcome of a full quiz submission.
type Result struct {
	Score     int              `json:"score"`
	Correct   int              `json:"correct"`
	Total     int              `json:"total"`
	Points    int              `json:"points"`
	MaxPoints int              `json:"max_points"`
	Questions []QuestionResult `json:"questions"`
}

// IsCorrect reports whether selected matches the correct option set exactly.
// Order and duplicates are ignored; a subset earns nothing.
func IsCorrect(q Question, selected []int) bool {
	got := normalize(selected)
	want := normalize(q.Correct)
	return slices.Equal(got, want)
}

// Score grades a complete submission. Every question in questions must be
// answered exactly once with at least one option selected.
func Score(questions []Question, answers []Answer) (Result, error) {
	if len(questions) == 0 {
		return Result{}, apperr.Invalid("questions", "quiz has no questions")
	}

	byID := make(map[int]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	selections := make(map[int][]int, len(answers))
	for _, a := range answers {
		q, ok := byID[a.Question]
		if !ok {
			return Result{}, apperr.Invalid("answers", fmt.Sprintf("unknown question %d", a.Question))
		}
		if _, dup := selections[a.Question]; dup {
			return Result{}, apperr.Invalid("answers", fmt.Sprintf("question %d answered twice", a.Question))
		}
		sel := normalize(a.Selected)
		if len(sel) == 0 {
			return Result{}, apperr.Invalid("answers", fmt.Sprintf("question %d has no selection", a.Question))
		}
		if q.Kind == Single && len(sel) > 1 {
			return Result{}, apperr.Invalid("answers", fmt.Sprintf("question %d accepts one option", a.Question))
		}
		for _, idx := range sel {
			if idx < 0 || idx >= len(q.Options) {
				return Result{}, apperr.Invalid("answers", fmt.Sprintf("question %d has no option %d", a.Question, idx))
			}
		}
		selections[a.Question] = sel
	}

	if len(selections) != len(questions) {
		return Result{}, apperr.Invalid("answers", fmt.Sprintf("answered %d of %d questions", len(selections), len(questions)))
	}

	res := Result{Total: len(questions), Questions: make([]QuestionResult, 0, len(questions))}
	for _, q := range questions {
		w := q.Kind.Weight()
		res.MaxPoints += w

		qr := QuestionResult{Question: q.ID, Expected: normalize(q.Correct)}
		if IsCorrect(q, selections[q.ID]) {
			qr.Correct = true
			qr.Points = w
			res.Correct++
			res.Points += w
		}
		res.Questions = append(res.Questions, qr)
	}
	res.Score = Percent(res.Points, res.MaxPoints)
	return res, nil
}

// Percent returns round(part / whole * 100), or 0 when whole is 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

func normalize(idx []int) []int {
	out := slices.Clone(idx)
	slices.Sort(out)
	return slices.Compact(out)
}
