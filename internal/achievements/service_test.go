package achievements

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostline/holidayquest/internal/games"
	"github.com/frostline/holidayquest/internal/progress"
	"github.com/frostline/holidayquest/internal/store"
)

func TestTypeAttributes(t *testing.T) {
	for _, typ := range AllTypes() {
		assert.NotEqual(t, string(typ), typ.DisplayName(), "%s needs a display name", typ)
		assert.NotEmpty(t, typ.Description(), "%s needs a description", typ)
		assert.NotEqual(t, "✦", typ.Icon(), "%s needs an icon", typ)
	}
	assert.Equal(t, RarityLegendary, Champion.Rarity())
	assert.Equal(t, RarityCommon, FirstSteps.Rarity())
}

func event(slug games.Slug, score int, first bool, completed int) progress.Event {
	g, _ := games.BySlug(slug)
	recs := make([]store.ProgressRecord, games.Count)
	for i := range recs {
		recs[i] = store.ProgressRecord{GameNumber: i + 1, Completed: i < completed}
	}
	return progress.Event{
		Session: progress.Session{UserID: "u"},
		Game:    g,
		Score:   score,
		Result:  progress.Result{FirstCompletion: first, Progress: recs},
	}
}

func TestEarned(t *testing.T) {
	tests := []struct {
		name string
		ev   progress.Event
		want []Type
	}{
		{"first quiz", event(games.SlugQuiz, 75, true, 1), []Type{FirstSteps}},
		{"perfect quiz replay", event(games.SlugQuiz, 100, false, 1), []Type{Perfectionist}},
		{"puzzle is not perfectionist", event(games.SlugPuzzle, 100, true, 3), []Type{FirstSteps}},
		{"coding pass", event(games.SlugCoding, 100, true, 4), []Type{FirstSteps, Perfectionist, CodeElf}},
		{"all done", event(games.SlugSurprise, 100, true, 6), []Type{FirstSteps, Champion}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Earned(tt.ev))
		})
	}
}

func TestServiceAwardsOnce(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(ctx, store.Options{DSN: filepath.Join(t.TempDir(), "a.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	u := store.User{Email: "badge@north.pole", PasswordHash: "x"}
	require.NoError(t, s.UserRepo().Create(ctx, &u))

	svc := NewService(s.AchievementRepo(), nil)
	ev := event(games.SlugCoding, 100, true, 4)
	ev.Session.UserID = u.ID

	svc.GameCompleted(ctx, ev)
	svc.GameCompleted(ctx, ev)
	svc.PhotoUploaded(ctx, u.ID)
	svc.PhotoUploaded(ctx, u.ID)

	badges, err := svc.ForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, badges, 4)

	types := make([]string, len(badges))
	for i, b := range badges {
		types[i] = b.Type
	}
	assert.ElementsMatch(t, []string{"first_steps", "perfectionist", "code_elf", "photographer"}, types)

	b, err := svc.Award(ctx, u.ID, WellWisher)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, "Well Wisher", b.Name)

	b, err = svc.Award(ctx, u.ID, WellWisher)
	require.NoError(t, err)
	assert.Nil(t, b)
}
