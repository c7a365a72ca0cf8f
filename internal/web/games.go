package web

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/frostline/holidayquest/internal/apperr"
	"github.com/frostline/holidayquest/internal/games"
	"github.com/frostline/holidayquest/internal/games/coding"
	"github.com/frostline/holidayquest/internal/games/crossword"
	"github.com/frostline/holidayquest/internal/games/networking"
	"github.com/frostline/holidayquest/internal/games/puzzle"
	"github.com/frostline/holidayquest/internal/games/quiz"
	"github.com/frostline/holidayquest/internal/games/surprise"
	"github.com/frostline/holidayquest/internal/greeting"
	"github.com/frostline/holidayquest/internal/progress"
)

type gameEntry struct {
	games.Game
	UnlockRule string `json:"unlockRule"`
}

func (s *Server) listGames() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		sess, err := session(r)
		if err != nil {
			all := games.All()
			out := make([]gameEntry, len(all))
			for i, g := range all {
				out[i] = gameEntry{Game: g, UnlockRule: g.Policy.Describe()}
			}
			s.writeJSON(w, http.StatusOK, map[string]any{"games": out})
			return
		}
		slots, sum, err := s.Gate.Dashboard(r.Context(), sess)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"games": slots, "summary": sum})
	}
}

// gameBySlug resolves :slug and checks that the user may play it.
func (s *Server) gameBySlug(r *http.Request, ps httprouter.Params) (progress.Session, games.Game, error) {
	sess, err := session(r)
	if err != nil {
		return sess, games.Game{}, err
	}
	g, ok := games.BySlug(games.Slug(ps.ByName("slug")))
	if !ok {
		return sess, games.Game{}, apperr.ErrNotFound
	}
	playable, err := s.Gate.CanPlay(r.Context(), sess, g.Number)
	if err != nil {
		return sess, g, err
	}
	if !playable {
		return sess, g, apperr.ErrGameLocked
	}
	return sess, g, nil
}

// maxSafeSeed keeps puzzle seeds exact as JSON numbers in browsers.
const maxSafeSeed = 1 << 53

type puzzleContent struct {
	Board *puzzle.Board `json:"board"`
}

func content(g games.Game) any {
	switch g.Slug {
	case games.SlugQuiz:
		return map[string]any{"questions": quiz.Bank()}
	case games.SlugCrossword:
		return map[string]any{"words": crossword.Words()}
	case games.SlugPuzzle:
		return puzzleContent{Board: puzzle.NewBoard(puzzle.DefaultSize, rand.Uint64N(maxSafeSeed))}
	case games.SlugCoding:
		return coding.CountGifts
	case games.SlugNetworking:
		return map[string]any{"questions": networking.Bank()}
	case games.SlugSurprise:
		return map[string]any{"gifts": surprise.Gifts()}
	}
	return nil
}

func (s *Server) gameDetail() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		_, g, err := s.gameBySlug(r, ps)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{
			"game":       gameEntry{Game: g, UnlockRule: g.Policy.Describe()},
			"content":    content(g),
			"submission": mustSchema(g.Slug),
		})
	}
}

func mustSchema(slug games.Slug) map[string]any {
	schema, _ := games.SubmissionSchema(slug)
	return schema
}

// outcome is a scored attempt. Attempts that are still in progress (an
// unsolved puzzle, failing tests) are not recorded.
type outcome struct {
	score  int
	record bool
	detail any
}

type submitResponse struct {
	Completed bool             `json:"completed"`
	Score     int              `json:"score"`
	Detail    any              `json:"detail"`
	Result    *progress.Result `json:"result,omitempty"`
}

func (s *Server) submit() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		sess, g, err := s.gameBySlug(r, ps)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		raw, err := readBody(w, r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := games.ValidateSubmission(g.Slug, raw); err != nil {
			s.writeError(w, r, err)
			return
		}

		out, err := s.score(r.Context(), sess, g, raw)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp := submitResponse{Score: out.score, Detail: out.detail}
		if out.record {
			res, err := s.Gate.CompleteGame(r.Context(), sess, g.Number, out.score)
			if err != nil {
				s.writeError(w, r, err)
				return
			}
			resp.Completed = true
			resp.Result = &res
		}
		s.writeJSON(w, http.StatusOK, resp)
	}
}

// score dispatches a validated submission to the game's scoring module.
func (s *Server) score(ctx context.Context, sess progress.Session, g games.Game, raw json.RawMessage) (outcome, error) {
	switch g.Slug {
	case games.SlugQuiz:
		var in struct {
			Answers []quiz.Answer `json:"answers"`
		}
		if err := json.Unmarshal(raw, &in); err != nil {
			return outcome{}, apperr.Invalid("body", err.Error())
		}
		res, err := quiz.Score(quiz.Bank(), in.Answers)
		return outcome{score: res.Score, record: err == nil, detail: res}, err

	case games.SlugCrossword:
		var in struct {
			Entries [][]string `json:"entries"`
		}
		if err := json.Unmarshal(raw, &in); err != nil {
			return outcome{}, apperr.Invalid("body", err.Error())
		}
		res, err := crossword.Score(crossword.Words(), in.Entries)
		return outcome{score: res.Score, record: err == nil, detail: res}, err

	case games.SlugPuzzle:
		var in struct {
			Seed  uint64   `json:"seed"`
			Swaps [][2]int `json:"swaps"`
		}
		if err := json.Unmarshal(raw, &in); err != nil {
			return outcome{}, apperr.Invalid("body", err.Error())
		}
		res, err := puzzle.Replay(puzzle.DefaultSize, in.Seed, in.Swaps)
		return outcome{score: res.Score, record: err == nil && res.Solved, detail: res}, err

	case games.SlugCoding:
		var in struct {
			Source string `json:"source"`
		}
		if err := json.Unmarshal(raw, &in); err != nil {
			return outcome{}, apperr.Invalid("body", err.Error())
		}
		res, err := coding.Evaluate(ctx, s.Runner, coding.CountGifts, in.Source)
		return outcome{score: res.Score, record: err == nil && res.Passed, detail: res}, err

	case games.SlugNetworking:
		var in struct {
			Answers []networking.Answer `json:"answers"`
		}
		if err := json.Unmarshal(raw, &in); err != nil {
			return outcome{}, apperr.Invalid("body", err.Error())
		}
		res, err := networking.Score(networking.Bank(), in.Answers)
		return outcome{score: res.Score, record: err == nil, detail: res}, err

	case games.SlugSurprise:
		var in struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &in); err != nil {
			return outcome{}, apperr.Invalid("body", err.Error())
		}
		gr := s.greetingFor(ctx, sess, in.Name)
		reveal := surprise.Open(gr.Text)
		return outcome{score: reveal.Score, record: true, detail: map[string]any{"reveal": reveal, "greeting": gr}}, nil
	}
	return outcome{}, apperr.ErrNotFound
}

func (s *Server) greetingFor(ctx context.Context, sess progress.Session, name string) greeting.Greeting {
	if name == "" {
		name = sess.Name
	}
	rcpt := greeting.Recipient{Name: name}
	if recs, err := s.Gate.Progress(ctx, sess); err == nil {
		sum := progress.Summarize(recs)
		rcpt.TotalScore = sum.TotalScore
		rcpt.GamesCompleted = sum.Completed
	}
	if s.Greeter == nil {
		return greeting.Fallback(name)
	}
	return s.Greeter.For(ctx, rcpt)
}

// checkAnswer grades a single networking answer without recording it, so
// the explanation can be shown right away.
func (s *Server) checkAnswer() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		_, g, err := s.gameBySlug(r, ps)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if g.Slug != games.SlugNetworking {
			s.writeError(w, r, apperr.ErrNotFound)
			return
		}
		var a networking.Answer
		if err := decodeJSON(w, r, &a); err != nil {
			s.writeError(w, r, err)
			return
		}
		fb, err := networking.Check(networking.Bank(), a)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, fb)
	}
}
