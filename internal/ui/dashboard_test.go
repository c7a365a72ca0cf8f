package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/frostline/holidayquest/internal/games"
	"github.com/frostline/holidayquest/internal/progress"
	"github.com/frostline/holidayquest/internal/store"
	"github.com/frostline/holidayquest/internal/ui/components"
)

func TestCells(t *testing.T) {
	assert.Equal(t, 0, components.Cells(0, 40))
	assert.Equal(t, 13, components.Cells(33, 40))
	assert.Equal(t, 40, components.Cells(100, 40))
	assert.Equal(t, 40, components.Cells(150, 40))
	assert.Equal(t, 0, components.Cells(-5, 40))
}

func TestDashboard(t *testing.T) {
	recs := []store.ProgressRecord{
		{GameNumber: 1, Completed: true, Unlocked: true, Score: 75},
		{GameNumber: 2, Unlocked: true},
	}
	out := Dashboard("Elf", progress.Slots(recs), progress.Summarize(recs), 60)

	assert.Contains(t, out, "Elf's holiday quest")
	assert.Contains(t, out, "IT Quiz")
	assert.Contains(t, out, "75")
	assert.Contains(t, out, "score >= 80")
	assert.Contains(t, out, "Completed 1/6")
	assert.NotContains(t, out, "issues certificate")
}

func TestGames(t *testing.T) {
	out := Games(games.All())
	assert.Equal(t, 12, strings.Count(out, "\n")+1)
	assert.Contains(t, out, "6. Surprise")
	assert.Contains(t, out, "all tests pass")
}

func TestCertificate(t *testing.T) {
	out := Certificate("Elf", store.Certificate{
		ID: "c-1", TotalScore: 546, GamesCompleted: 6,
		IssuedAt: time.Date(2026, time.December, 24, 0, 0, 0, 0, time.UTC),
	})
	assert.Contains(t, out, "HOLIDAY HERO")
	assert.Contains(t, out, "December 24, 2026")
	assert.Contains(t, out, "total score 546")
}
