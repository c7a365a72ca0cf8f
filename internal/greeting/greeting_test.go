package greeting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostline/holidayquest/internal/llm"
)

func TestForUsesProvider(t *testing.T) {
	script := llm.NewScripted(llm.Reply{
		Text: `{"greeting":"  Merry Christmas, Alex! May your pipelines stay green. ","emoji":"🎄"}`,
	})
	g := New(script, time.Second, nil)

	got := g.For(context.Background(), Recipient{Name: "Alex", TotalScore: 546, GamesCompleted: 6})
	assert.Equal(t, SourceLLM, got.Source)
	assert.Equal(t, "Merry Christmas, Alex! May your pipelines stay green.", got.Text)
	assert.Equal(t, "🎄", got.Emoji)

	prompts := script.Prompts()
	require.Len(t, prompts, 1)
	assert.Same(t, Schema, prompts[0].Schema)
	assert.Contains(t, prompts[0].User, "Alex")
	assert.Contains(t, prompts[0].User, "546")
}

func TestForFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.Provider
	}{
		{"no provider", nil},
		{"provider error", llm.NewScripted(llm.Reply{Err: &llm.Error{Kind: llm.KindUnavailable}})},
		{"empty greeting", llm.NewScripted(llm.Reply{Text: `{"greeting":" ","emoji":""}`})},
		{"not json", llm.NewScripted(llm.Reply{Text: `hello`})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.provider, time.Second, nil).For(context.Background(), Recipient{Name: "Sam"})
			assert.Equal(t, SourceFallback, got.Source)
			assert.NotEmpty(t, got.Text)
			assert.Equal(t, Fallback("Sam"), got)
		})
	}
}

func TestFallbackIsStable(t *testing.T) {
	assert.Equal(t, Fallback("Jo"), Fallback("  jo "))
	seen := map[string]bool{}
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		seen[Fallback(n).Text] = true
	}
	assert.Greater(t, len(seen), 1)
}
