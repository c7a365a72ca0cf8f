package store

import (
	"context"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var (
	photoColumns = []string{"id", "user_id", "object_key", "photo_url", "caption", "created_at"}
	wishColumns  = []string{"id", "user_id", "author", "text", "created_at"}
)

type photoRepo struct {
	q querier
	d string
}

func (r *photoRepo) b() *entsql.DialectBuilder { return entsql.Dialect(r.d) }

func (r *photoRepo) Create(ctx context.Context, p *Photo) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	ins := r.b().Insert(tablePhotos).
		Columns(photoColumns...).
		Values(p.ID, p.UserID, p.ObjectKey, p.URL, p.Caption, p.CreatedAt)
	_, err := exec(ctx, r.q, "create photo", ins)
	return err
}

func (r *photoRepo) List(ctx context.Context, opts ListOpts) ([]Photo, error) {
	sel := r.b().Select(photoColumns...).
		From(r.b().Table(tablePhotos)).
		OrderBy(entsql.Desc("created_at"))

	var photos []Photo
	if err := selectAll(ctx, r.q, "list photos", &photos, paginate(sel, opts)); err != nil {
		return nil, err
	}
	return photos, nil
}

type wishRepo struct {
	q querier
	d string
}

func (r *wishRepo) b() *entsql.DialectBuilder { return entsql.Dialect(r.d) }

func (r *wishRepo) Create(ctx context.Context, w *Wish) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	ins := r.b().Insert(tableWishes).
		Columns(wishColumns...).
		Values(w.ID, w.UserID, w.Author, w.Text, w.CreatedAt)
	_, err := exec(ctx, r.q, "create wish", ins)
	return err
}

func (r *wishRepo) List(ctx context.Context, opts ListOpts) ([]Wish, error) {
	sel := r.b().Select(wishColumns...).
		From(r.b().Table(tableWishes)).
		OrderBy(entsql.Desc("created_at"))

	var wishes []Wish
	if err := selectAll(ctx, r.q, "list wishes", &wishes, paginate(sel, opts)); err != nil {
		return nil, err
	}
	return wishes, nil
}
