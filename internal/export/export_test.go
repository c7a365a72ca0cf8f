package export

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/frostline/holidayquest/internal/store"
)

func TestWrite(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(ctx, store.Options{DSN: filepath.Join(t.TempDir(), "export.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	u := store.User{Email: "hero@north.pole", FullName: "Hero", PasswordHash: "x"}
	require.NoError(t, s.UserRepo().Create(ctx, &u))
	require.NoError(t, s.ProgressRepo().Seed(ctx, u.ID))

	done := time.Date(2026, time.December, 21, 10, 30, 0, 0, time.UTC)
	score := 85
	_, err = s.ProgressRepo().Update(ctx, u.ID, 1, store.ProgressUpdate{Completed: true, Score: &score, CompletedAt: &done})
	require.NoError(t, err)
	require.NoError(t, s.CertificateRepo().Insert(ctx, &store.Certificate{
		UserID: u.ID, Type: store.CertificateTypeHolidayHero, TotalScore: 85, GamesCompleted: 1, IssuedAt: done,
	}))

	var buf bytes.Buffer
	require.NoError(t, Write(ctx, s.Repos(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetProgress, SheetTotals, SheetCertificates}, f.GetSheetList())

	rows, err := f.GetRows(SheetProgress)
	require.NoError(t, err)
	require.Len(t, rows, 7, "header plus one row per game")
	assert.Equal(t, "Email", rows[0][0])
	assert.Equal(t, []string{"hero@north.pole", "Hero", "1", "IT Quiz", "yes", "yes", "85", "2026-12-21 10:30:00"}, rows[1])
	assert.Equal(t, "no", rows[2][4], "game 2 stays locked")

	totals, err := f.GetRows(SheetTotals)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.Equal(t, []string{"hero@north.pole", "Hero", "1", "85", "85", "17", "1"}, totals[1])

	certs, err := f.GetRows(SheetCertificates)
	require.NoError(t, err)
	require.Len(t, certs, 2)
	assert.Equal(t, "holiday_hero", certs[1][3])
	assert.Equal(t, "2026-12-21 10:30:00", certs[1][6])
}
