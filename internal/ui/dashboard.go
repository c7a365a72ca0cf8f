// Package ui renders progress, games and certificates for the terminal.
package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/frostline/holidayquest/internal/games"
	"github.com/frostline/holidayquest/internal/progress"
	"github.com/frostline/holidayquest/internal/store"
	"github.com/frostline/holidayquest/internal/ui/components"
	"github.com/frostline/holidayquest/internal/ui/theme"
)

const defaultWidth = 60

// StateLabel is the badge shown next to a slot.
func StateLabel(s progress.SlotState) string {
	switch s {
	case progress.StateCompleted:
		return theme.Completed.Render("✔ done")
	case progress.StateUnlocked:
		return theme.Unlocked.Render("▶ play")
	default:
		return theme.Locked.Render("🔒 locked")
	}
}

// Dashboard renders the user's six slots followed by the aggregates.
func Dashboard(name string, slots []progress.Slot, sum progress.Summary, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	var rows []string
	rows = append(rows, theme.Title.Render("🎄 "+name+"'s holiday quest"), "")
	for _, s := range slots {
		score := ""
		if s.State == progress.StateCompleted {
			score = fmt.Sprintf("%3d", s.Progress.Score)
		}
		line := fmt.Sprintf("%s %-18s %-10s %s", s.Icon, s.Title, StateLabel(s.State), score)
		rows = append(rows, line)
		if s.State != progress.StateCompleted && s.Policy.Kind != games.PolicyTerminal {
			rows = append(rows, theme.Hint.Render("   unlocks next: "+s.UnlockRule))
		}
	}
	rows = append(rows, "",
		components.ProgressBar{Label: "Progress", Percent: sum.Percent, ShowPercent: true, Width: width - 8}.View(),
		theme.Subtitle.Render(fmt.Sprintf("Completed %d/%d · total score %d · average %d",
			sum.Completed, sum.Total, sum.TotalScore, sum.AverageScore)),
	)
	return theme.Card.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Games renders the catalog with unlock rules.
func Games(list []games.Game) string {
	var b strings.Builder
	for _, g := range list {
		fmt.Fprintf(&b, "%s %s %s\n", g.Icon, theme.Body.Bold(true).Render(g.String()), theme.Hint.Render("("+g.Policy.Describe()+")"))
		fmt.Fprintf(&b, "   %s\n", theme.Subtitle.Render(g.Description))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Certificate renders a Holiday Hero certificate card.
func Certificate(name string, c store.Certificate) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render("🏆 HOLIDAY HERO 🏆"),
		"",
		theme.Body.Render("awarded to"),
		theme.Title.Render(name),
		"",
		theme.Body.Render(fmt.Sprintf("%d games completed · total score %d", c.GamesCompleted, c.TotalScore)),
		theme.Hint.Render("issued "+c.IssuedAt.UTC().Format("January 2, 2006")),
		theme.Hint.Render(c.ID),
	)
	return theme.Certificate.Render(body)
}
