package store

import (
	"context"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var achievementColumns = []string{
	"id", "user_id", "achievement_type", "achievement_name",
	"achievement_description", "earned_at",
}

type achievementRepo struct {
	q querier
	d string
}

func (r *achievementRepo) b() *entsql.DialectBuilder { return entsql.Dialect(r.d) }

func (r *achievementRepo) Award(ctx context.Context, a *Achievement) (bool, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.EarnedAt.IsZero() {
		a.EarnedAt = time.Now().UTC()
	}

	ins := r.b().Insert(tableAchievements).
		Columns(achievementColumns...).
		Values(a.ID, a.UserID, a.Type, a.Name, a.Description, a.EarnedAt).
		OnConflict(entsql.ConflictColumns("user_id", "achievement_type"), entsql.DoNothing())
	n, err := exec(ctx, r.q, "award achievement", ins)
	return n > 0, err
}

func (r *achievementRepo) ForUser(ctx context.Context, userID string) ([]Achievement, error) {
	sel := r.b().Select(achievementColumns...).
		From(r.b().Table(tableAchievements)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy("earned_at", "achievement_type")

	var out []Achievement
	if err := selectAll(ctx, r.q, "list achievements", &out, sel); err != nil {
		return nil, err
	}
	return out, nil
}
