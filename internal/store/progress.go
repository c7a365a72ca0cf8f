package store

import (
	"context"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/frostline/holidayquest/internal/games"
)

var progressColumns = []string{
	"user_id", "game_number", "score", "completed", "unlocked",
	"completed_at", "created_at", "updated_at",
}

type progressRepo struct {
	q querier
	d string
}

func (r *progressRepo) b() *entsql.DialectBuilder { return entsql.Dialect(r.d) }

func (r *progressRepo) slot(userID string, game int) *entsql.Predicate {
	return entsql.And(entsql.EQ("user_id", userID), entsql.EQ("game_number", game))
}

func (r *progressRepo) Seed(ctx context.Context, userID string) error {
	now := time.Now().UTC()
	ins := r.b().Insert(tableProgress).
		Columns("user_id", "game_number", "score", "completed", "unlocked", "created_at", "updated_at")
	for n := 1; n <= games.Count; n++ {
		ins.Values(userID, n, 0, false, n == 1, now, now)
	}
	ins.OnConflict(entsql.ConflictColumns("user_id", "game_number"), entsql.DoNothing())

	_, err := exec(ctx, r.q, "seed progress", ins)
	return err
}

func (r *progressRepo) Get(ctx context.Context, userID string) ([]ProgressRecord, error) {
	sel := r.b().Select(progressColumns...).
		From(r.b().Table(tableProgress)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("game_number")

	var recs []ProgressRecord
	if err := selectAll(ctx, r.q, "get progress", &recs, sel); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *progressRepo) GetGame(ctx context.Context, userID string, game int) (ProgressRecord, error) {
	sel := r.b().Select(progressColumns...).
		From(r.b().Table(tableProgress)).
		Where(r.slot(userID, game))
	if r.d == dialect.Postgres {
		// SQLite serializes writers on its single connection instead.
		sel.ForUpdate()
	}

	var rec ProgressRecord
	if err := get(ctx, r.q, "get game progress", &rec, sel); err != nil {
		return ProgressRecord{}, err
	}
	return rec, nil
}

func (r *progressRepo) Update(ctx context.Context, userID string, game int, upd ProgressUpdate) (ProgressRecord, error) {
	rec, err := r.GetGame(ctx, userID, game)
	if err != nil {
		return ProgressRecord{}, err
	}

	now := time.Now().UTC()
	u := r.b().Update(tableProgress).
		Set("updated_at", now).
		Where(r.slot(userID, game))

	if upd.Score != nil {
		u.Set("score", *upd.Score)
		rec.Score = *upd.Score
	}
	if upd.Completed {
		u.Set("completed", true).Set("unlocked", true)
		if rec.CompletedAt == nil {
			at := now
			if upd.CompletedAt != nil {
				at = upd.CompletedAt.UTC()
			}
			u.Set("completed_at", at)
			rec.CompletedAt = &at
		}
		rec.Completed = true
		rec.Unlocked = true
	}

	if _, err := exec(ctx, r.q, "update progress", u); err != nil {
		return ProgressRecord{}, err
	}
	rec.UpdatedAt = now

	if upd.UnlockNext {
		if _, err := r.UnlockNext(ctx, userID, game); err != nil {
			return ProgressRecord{}, err
		}
	}
	return rec, nil
}

func (r *progressRepo) UnlockNext(ctx context.Context, userID string, game int) (bool, error) {
	if game >= games.Count {
		return false, nil
	}
	next := game + 1
	now := time.Now().UTC()

	u := r.b().Update(tableProgress).
		Set("unlocked", true).
		Set("updated_at", now).
		Where(entsql.And(r.slot(userID, next), entsql.EQ("unlocked", false)))
	n, err := exec(ctx, r.q, "unlock next game", u)
	if err != nil || n > 0 {
		return n > 0, err
	}

	// Either already unlocked or the slot was never seeded.
	ins := r.b().Insert(tableProgress).
		Columns("user_id", "game_number", "score", "completed", "unlocked", "created_at", "updated_at").
		Values(userID, next, 0, false, true, now, now).
		OnConflict(entsql.ConflictColumns("user_id", "game_number"), entsql.DoNothing())
	n, err = exec(ctx, r.q, "unlock next game", ins)
	return n > 0, err
}

func (r *progressRepo) ListAll(ctx context.Context) ([]ProgressRecord, error) {
	sel := r.b().Select(progressColumns...).
		From(r.b().Table(tableProgress)).
		OrderBy("user_id", "game_number")

	var recs []ProgressRecord
	if err := selectAll(ctx, r.q, "list progress", &recs, sel); err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *progressRepo) UserIDs(ctx context.Context) ([]string, error) {
	sel := r.b().Select("user_id").
		From(r.b().Table(tableProgress)).
		Distinct().
		OrderBy("user_id")

	var ids []string
	if err := selectAll(ctx, r.q, "list progress users", &ids, sel); err != nil {
		return nil, err
	}
	return ids, nil
}
