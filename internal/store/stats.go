package store

import (
	"context"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type statsRepo struct {
	q querier
	d string
}

func (r *statsRepo) b() *entsql.DialectBuilder { return entsql.Dialect(r.d) }

func (r *statsRepo) count(ctx context.Context, table, tsColumn string, since time.Time, extra ...*entsql.Predicate) (int, error) {
	preds := extra
	if !since.IsZero() {
		preds = append(preds, entsql.GTE(tsColumn, since.UTC()))
	}
	sel := r.b().Select(entsql.As(entsql.Count("*"), "n")).
		From(r.b().Table(table))
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}

	var n int
	if err := get(ctx, r.q, "count "+table, &n, sel); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *statsRepo) Digest(ctx context.Context, since time.Time) (Digest, error) {
	var (
		d   Digest
		err error
	)
	if d.Users, err = r.count(ctx, tableUsers, "created_at", since); err != nil {
		return Digest{}, err
	}
	if d.Completions, err = r.count(ctx, tableProgress, "completed_at", since, entsql.EQ("completed", true)); err != nil {
		return Digest{}, err
	}
	if d.Certificates, err = r.count(ctx, tableCertificates, "issued_at", since); err != nil {
		return Digest{}, err
	}
	if d.Photos, err = r.count(ctx, tablePhotos, "created_at", since); err != nil {
		return Digest{}, err
	}
	if d.Wishes, err = r.count(ctx, tableWishes, "created_at", since); err != nil {
		return Digest{}, err
	}
	return d, nil
}

func (r *statsRepo) Games(ctx context.Context) ([]GameStat, error) {
	sel := r.b().Select(
		"game_number",
		entsql.As(entsql.Count("*"), "completions"),
		entsql.As(entsql.Avg("score"), "average_score"),
	).
		From(r.b().Table(tableProgress)).
		Where(entsql.EQ("completed", true)).
		GroupBy("game_number").
		OrderBy("game_number")

	var stats []GameStat
	if err := selectAll(ctx, r.q, "game stats", &stats, sel); err != nil {
		return nil, err
	}
	return stats, nil
}
