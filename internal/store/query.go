package store

import (
	"context"
	"database/sql"
	"errors"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/frostline/holidayquest/internal/apperr"
)

const (
	tableUsers        = "users"
	tableProgress     = "game_progress"
	tableCertificates = "certificates"
	tableAchievements = "achievements"
	tablePhotos       = "user_gallery_photos"
	tableWishes       = "wishes"
)

// ErrEmailTaken is returned when a user registers an email that exists.
var ErrEmailTaken = errors.New("email already registered")

// querier is the subset of *sqlx.DB and *sqlx.Tx the repositories use.
type querier = sqlx.ExtContext

func get(ctx context.Context, q querier, op string, dest any, b entsql.Querier) error {
	query, args := b.Query()
	err := sqlx.GetContext(ctx, q, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.ErrNotFound
	}
	return apperr.Unavailable(op, err)
}

func selectAll(ctx context.Context, q querier, op string, dest any, b entsql.Querier) error {
	query, args := b.Query()
	return apperr.Unavailable(op, sqlx.SelectContext(ctx, q, dest, query, args...))
}

func exec(ctx context.Context, q querier, op string, b entsql.Querier) (int64, error) {
	query, args := b.Query()
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperr.Unavailable(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperr.Unavailable(op, err)
	}
	return n, nil
}

func paginate(s *entsql.Selector, opts ListOpts) *entsql.Selector {
	if opts.Limit > 0 {
		s.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		s.Offset(opts.Offset)
	}
	return s
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		return pe.Code == "23505"
	}
	return false
}
