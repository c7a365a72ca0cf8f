// Package progress implements the gate that decides which games a user may
// play and records completions.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frostline/holidayquest/internal/apperr"
	"github.com/frostline/holidayquest/internal/games"
	"github.com/frostline/holidayquest/internal/store"
)

// Session identifies the signed-in user. The zero value is anonymous.
type Session struct {
	UserID string
	Email  string
	Name   string
}

// Authenticated reports whether the session carries a user.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// Store is the persistence the gate needs. *store.Store satisfies it.
type Store interface {
	InTx(ctx context.Context, fn func(store.Repos) error) error
	ProgressRepo() store.ProgressRepo
}

// Result describes the outcome of a completion.
type Result struct {
	Record          store.ProgressRecord   `json:"record"`
	FirstCompletion bool                   `json:"firstCompletion"`
	UnlockedGame    int                    `json:"unlockedGame,omitempty"`
	Certificate     *store.Certificate     `json:"certificate,omitempty"`
	Transitions     []StateTransition      `json:"-"`
	Progress        []store.ProgressRecord `json:"progress"`
}

// Event is delivered to listeners after a completion commits.
type Event struct {
	Session Session
	Game    games.Game
	Score   int
	Result  Result
	At      time.Time
}

// Listener reacts to committed completions. Listeners run synchronously in
// registration order and must not block for long.
type Listener interface {
	GameCompleted(ctx context.Context, ev Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, ev Event)

func (f ListenerFunc) GameCompleted(ctx context.Context, ev Event) { f(ctx, ev) }

// Gate applies unlock policies on top of the progress store.
type Gate struct {
	store     Store
	logger    *slog.Logger
	now       func() time.Time
	listeners []Listener
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the logger used for gate decisions.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) { g.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// NewGate creates a gate over s.
func NewGate(s Store, opts ...Option) *Gate {
	g := &Gate{
		store:  s,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Subscribe registers a listener for committed completions.
func (g *Gate) Subscribe(l Listener) {
	g.listeners = append(g.listeners, l)
}

// Progress returns the user's slots. Users without rows are seeded first.
func (g *Gate) Progress(ctx context.Context, sess Session) ([]store.ProgressRecord, error) {
	if !sess.Authenticated() {
		return nil, apperr.ErrNotAuthenticated
	}
	repo := g.store.ProgressRepo()
	recs, err := repo.Get(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if len(recs) > 0 {
		return recs, nil
	}
	if err := repo.Seed(ctx, sess.UserID); err != nil {
		return nil, err
	}
	return repo.Get(ctx, sess.UserID)
}

// Dashboard returns the user's slots with their aggregates.
func (g *Gate) Dashboard(ctx context.Context, sess Session) ([]Slot, Summary, error) {
	recs, err := g.Progress(ctx, sess)
	if err != nil {
		return nil, Summary{}, err
	}
	return Slots(recs), Summarize(recs), nil
}

// CanPlay reports whether the user may open game n.
func (g *Gate) CanPlay(ctx context.Context, sess Session, n int) (bool, error) {
	if _, err := games.ByNumber(n); err != nil {
		return false, apperr.Invalid("game", err.Error())
	}
	recs, err := g.Progress(ctx, sess)
	if err != nil {
		return false, err
	}
	for _, r := range recs {
		if r.GameNumber == n {
			return StateOf(r) != StateLocked, nil
		}
	}
	return n == 1, nil
}

// CompleteGame records a completion of game n with the given score. The
// score update, the unlock of the next slot and the certificate for the final
// game commit together or not at all.
func (g *Gate) CompleteGame(ctx context.Context, sess Session, n, score int) (Result, error) {
	if !sess.Authenticated() {
		return Result{}, apperr.ErrNotAuthenticated
	}
	game, err := games.ByNumber(n)
	if err != nil {
		return Result{}, apperr.Invalid("game", err.Error())
	}
	if !games.ValidScore(score) {
		return Result{}, apperr.Invalid("score", fmt.Sprintf("%d is outside 0..100", score))
	}

	now := g.now().UTC()
	var res Result
	err = g.store.InTx(ctx, func(r store.Repos) error {
		res = Result{}

		cur, err := r.Progress.GetGame(ctx, sess.UserID, n)
		if errors.Is(err, apperr.ErrNotFound) {
			if err := r.Progress.Seed(ctx, sess.UserID); err != nil {
				return err
			}
			cur, err = r.Progress.GetGame(ctx, sess.UserID, n)
		}
		if err != nil {
			return err
		}

		from := StateOf(cur)
		if from == StateLocked {
			return apperr.ErrGameLocked
		}

		rec, err := r.Progress.Update(ctx, sess.UserID, n, store.ProgressUpdate{
			Completed:   true,
			Score:       &score,
			CompletedAt: &now,
		})
		if err != nil {
			return err
		}
		res.Record = rec
		if from != StateCompleted {
			res.FirstCompletion = true
			res.Transitions = append(res.Transitions, StateTransition{
				Game: n, From: from, To: StateCompleted, Trigger: "completed",
			})
		}

		if game.Policy.Qualifies(score) {
			if next, ok := games.Next(n); ok {
				changed, err := r.Progress.UnlockNext(ctx, sess.UserID, n)
				if err != nil {
					return err
				}
				if changed {
					res.UnlockedGame = next.Number
					res.Transitions = append(res.Transitions, StateTransition{
						Game: next.Number, From: StateLocked, To: StateUnlocked, Trigger: "score-qualified",
					})
				}
			}
		}

		recs, err := r.Progress.Get(ctx, sess.UserID)
		if err != nil {
			return err
		}
		res.Progress = recs

		if game.Policy.Kind == games.PolicyTerminal {
			sum := Summarize(recs)
			cert := store.Certificate{
				UserID:         sess.UserID,
				Type:           store.CertificateTypeHolidayHero,
				TotalScore:     sum.TotalScore,
				GamesCompleted: sum.Completed,
				IssuedAt:       now,
			}
			if err := r.Certificates.Insert(ctx, &cert); err != nil {
				return err
			}
			res.Certificate = &cert
		}
		return nil
	})
	if err != nil {
		g.logger.Debug("completion rejected", "user", sess.UserID, "game", n, "score", score, "err", err)
		return Result{}, err
	}

	g.logger.Info("game completed",
		"user", sess.UserID,
		"game", n,
		"score", score,
		"first", res.FirstCompletion,
		"unlocked", res.UnlockedGame,
		"certificate", res.Certificate != nil,
	)

	ev := Event{Session: sess, Game: game, Score: score, Result: res, At: now}
	for _, l := range g.listeners {
		l.GameCompleted(ctx, ev)
	}
	return res, nil
}
