package store

import (
	"context"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/frostline/holidayquest/internal/apperr"
)

// CertificateTypeHolidayHero is issued for finishing all games.
const CertificateTypeHolidayHero = "holiday_hero"

var certificateColumns = []string{"id", "user_id", "certificate_type", "total_score", "games_completed", "issued_at"}

type certificateRepo struct {
	q querier
	d string
}

func (r *certificateRepo) b() *entsql.DialectBuilder { return entsql.Dialect(r.d) }

func (r *certificateRepo) Insert(ctx context.Context, c *Certificate) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Type == "" {
		c.Type = CertificateTypeHolidayHero
	}
	if c.IssuedAt.IsZero() {
		c.IssuedAt = time.Now().UTC()
	}

	ins := r.b().Insert(tableCertificates).
		Columns(certificateColumns...).
		Values(c.ID, c.UserID, c.Type, c.TotalScore, c.GamesCompleted, c.IssuedAt)
	_, err := exec(ctx, r.q, "insert certificate", ins)
	return err
}

func (r *certificateRepo) ByID(ctx context.Context, id string) (Certificate, error) {
	var c Certificate
	if _, err := uuid.Parse(id); err != nil {
		return c, apperr.ErrNotFound
	}
	sel := r.b().Select(certificateColumns...).
		From(r.b().Table(tableCertificates)).
		Where(entsql.EQ("id", id))
	if err := get(ctx, r.q, "get certificate", &c, sel); err != nil {
		return Certificate{}, err
	}
	return c, nil
}

func (r *certificateRepo) ForUser(ctx context.Context, userID string) ([]Certificate, error) {
	sel := r.b().Select(certificateColumns...).
		From(r.b().Table(tableCertificates)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("issued_at"))

	var certs []Certificate
	if err := selectAll(ctx, r.q, "list certificates", &certs, sel); err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *certificateRepo) All(ctx context.Context) ([]Certificate, error) {
	sel := r.b().Select(certificateColumns...).
		From(r.b().Table(tableCertificates)).
		OrderBy(entsql.Desc("issued_at"))

	var certs []Certificate
	if err := selectAll(ctx, r.q, "list all certificates", &certs, sel); err != nil {
		return nil, err
	}
	return certs, nil
}
