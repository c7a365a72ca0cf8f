// Package networking scores the single-choice networking quiz and explains
// each answer.
package networking

import (
	"fmt"
	"math"

	"github.com/frostline/holidayquest/internal/apperr"
)

// Question is a single-choice item with an explanation revealed after the
// user answers.
type Question struct {
	ID          int      `json:"id"`
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"-"`
	Category    string   `json:"category"`
	Explanation string   `json:"-"`
}

// Answer is the user's selection for one question.
type Answer struct {
	Question int `json:"question"`
	Selected int `json:"selected"`
}

// Feedback tells the user whether an answer was right and why.
type Feedback struct {
	Question    int    `json:"question"`
	Correct     bool   `json:"correct"`
	Expected    int    `json:"expected"`
	Explanation string `json:"explanation"`
}

// Result is the outcome of a full submission.
type Result struct {
	Score    int        `json:"score"`
	Correct  int        `json:"correct"`
	Total    int        `json:"total"`
	Feedback []Feedback `json:"feedback"`
}

// Check grades one answer without recording anything.
func Check(questions []Question, a Answer) (Feedback, error) {
	for _, q := range questions {
		if q.ID != a.Question {
			continue
		}
		if a.Selected < 0 || a.Selected >= len(q.Options) {
			return Feedback{}, apperr.Invalid("selected", fmt.Sprintf("question %d has no option %d", q.ID, a.Selected))
		}
		return feedback(q, a.Selected), nil
	}
	return Feedback{}, apperr.Invalid("question", fmt.Sprintf("unknown question %d", a.Question))
}

// Score grades a full submission. Every question must be answered once.
func Score(questions []Question, answers []Answer) (Result, error) {
	if len(questions) == 0 {
		return Result{}, apperr.Invalid("questions", "quiz has no questions")
	}

	selected := make(map[int]int, len(answers))
	for _, a := range answers {
		if _, dup := selected[a.Question]; dup {
			return Result{}, apperr.Invalid("answers", fmt.Sprintf("question %d answered twice", a.Question))
		}
		if _, err := Check(questions, a); err != nil {
			return Result{}, err
		}
		selected[a.Question] = a.Selected
	}
	if len(selected) != len(questions) {
		return Result{}, apperr.Invalid("answers", fmt.Sprintf("answered %d of %d questions", len(selected), len(questions)))
	}

	res := Result{Total: len(questions), Feedback: make([]Feedback, 0, len(questions))}
	for _, q := range questions {
		fb := feedback(q, selected[q.ID])
		if fb.Correct {
			res.Correct++
		}
		res.Feedback = append(res.Feedback, fb)
	}
	res.Score = int(math.Round(float64(res.Correct) / float64(res.Total) * 100))
	return res, nil
}

func feedback(q Question, selected int) Feedback {
	return Feedback{
		Question:    q.ID,
		Correct:     selected == q.Correct,
		Expected:    q.Correct,
		Explanation: q.Explanation,
	}
}
