package store

import (
	"context"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/frostline/holidayquest/internal/apperr"
)

var userColumns = []string{"id", "email", "full_name", "password_hash", "created_at", "updated_at"}

type userRepo struct {
	q querier
	d string
}

func (r *userRepo) b() *entsql.DialectBuilder { return entsql.Dialect(r.d) }

func (r *userRepo) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = normalizeEmail(u.Email)
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	ins := r.b().Insert(tableUsers).
		Columns(userColumns...).
		Values(u.ID, u.Email, u.FullName, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	query, args := ins.Query()
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return apperr.Unavailable("create user", err)
	}
	return nil
}

func (r *userRepo) ByEmail(ctx context.Context, email string) (User, error) {
	sel := r.b().Select(userColumns...).
		From(r.b().Table(tableUsers)).
		Where(entsql.EQ("email", normalizeEmail(email)))

	var u User
	if err := get(ctx, r.q, "get user by email", &u, sel); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *userRepo) ByID(ctx context.Context, id string) (User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return User{}, apperr.ErrNotFound
	}
	sel := r.b().Select(userColumns...).
		From(r.b().Table(tableUsers)).
		Where(entsql.EQ("id", id))

	var u User
	if err := get(ctx, r.q, "get user", &u, sel); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *userRepo) List(ctx context.Context) ([]User, error) {
	sel := r.b().Select(userColumns...).
		From(r.b().Table(tableUsers)).
		OrderBy("created_at", "email")

	var users []User
	if err := selectAll(ctx, r.q, "list users", &users, sel); err != nil {
		return nil, err
	}
	return users, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
