package achievements

import (
	"context"
	"log/slog"

	"github.com/frostline/holidayquest/internal/games"
	"github.com/frostline/holidayquest/internal/progress"
	"github.com/frostline/holidayquest/internal/store"
)

// Badge is an earned achievement with its display attributes.
type Badge struct {
	store.Achievement
	Icon   string `json:"icon"`
	Rarity Rarity `json:"rarity"`
}

// Service awards achievements and lists them.
type Service struct {
	repo   store.AchievementRepo
	logger *slog.Logger
}

// NewService creates a Service backed by repo.
func NewService(repo store.AchievementRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Award grants t to the user. It returns nil when the user already has it.
func (s *Service) Award(ctx context.Context, userID string, t Type) (*Badge, error) {
	a := store.Achievement{
		UserID:      userID,
		Type:        string(t),
		Name:        t.DisplayName(),
		Description: t.Description(),
	}
	added, err := s.repo.Award(ctx, &a)
	if err != nil || !added {
		return nil, err
	}
	s.logger.Info("achievement earned", "user", userID, "type", t)
	return &Badge{Achievement: a, Icon: t.Icon(), Rarity: t.Rarity()}, nil
}

// ForUser lists the user's badges in the order they were earned.
func (s *Service) ForUser(ctx context.Context, userID string) ([]Badge, error) {
	list, err := s.repo.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Badge, len(list))
	for i, a := range list {
		t := Type(a.Type)
		out[i] = Badge{Achievement: a, Icon: t.Icon(), Rarity: t.Rarity()}
	}
	return out, nil
}

// Earned returns the achievement types a completion qualifies for.
func Earned(ev progress.Event) []Type {
	var out []Type
	if ev.Result.FirstCompletion {
		out = append(out, FirstSteps)
	}
	if ev.Score == 100 && scored(ev.Game.Slug) {
		out = append(out, Perfectionist)
	}
	if ev.Game.Slug == games.SlugCoding && ev.Score == 100 {
		out = append(out, CodeElf)
	}
	if progress.Summarize(ev.Result.Progress).Completed == games.Count {
		out = append(out, Champion)
	}
	return out
}

// scored reports whether the game's score measures skill. The puzzle and the
// gift always record 100.
func scored(slug games.Slug) bool {
	switch slug {
	case games.SlugQuiz, games.SlugCrossword, games.SlugNetworking, games.SlugCoding:
		return true
	default:
		return false
	}
}

// GameCompleted awards achievements for a committed completion. Failures are
// logged and never affect the completion.
func (s *Service) GameCompleted(ctx context.Context, ev progress.Event) {
	for _, t := range Earned(ev) {
		if _, err := s.Award(ctx, ev.Session.UserID, t); err != nil {
			s.logger.Warn("award achievement", "user", ev.Session.UserID, "type", t, "err", err)
		}
	}
}

// PhotoUploaded awards the gallery achievement.
func (s *Service) PhotoUploaded(ctx context.Context, userID string) {
	if _, err := s.Award(ctx, userID, Photographer); err != nil {
		s.logger.Warn("award achievement", "user", userID, "type", Photographer, "err", err)
	}
}

// WishPosted awards the wish wall achievement.
func (s *Service) WishPosted(ctx context.Context, userID string) {
	if _, err := s.Award(ctx, userID, WellWisher); err != nil {
		s.logger.Warn("award achievement", "user", userID, "type", WellWisher, "err", err)
	}
}
