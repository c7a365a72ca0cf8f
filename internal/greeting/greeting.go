// Package greeting writes the personal message revealed with the gift.
package greeting

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"time"

	"github.com/frostline/holidayquest/internal/llm"
)

// Source tells where a greeting came from.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// Greeting is the message shown when the gift is opened.
type Greeting struct {
	Text   string `json:"text"`
	Emoji  string `json:"emoji"`
	Source Source `json:"source"`
}

// Recipient describes who the greeting is for.
type Recipient struct {
	Name           string
	TotalScore     int
	GamesCompleted int
}

// Schema constrains the provider output.
var Schema = &llm.Schema{
	Name:        "holiday-greeting",
	Description: "A short personal holiday greeting for an IT team member",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"greeting": map[string]any{
				"type":        "string",
				"minLength":   1,
				"maxLength":   400,
				"description": "Two or three warm sentences, may include a light IT joke",
			},
			"emoji": map[string]any{
				"type":        "string",
				"description": "One festive emoji",
			},
		},
		"required":             []any{"greeting", "emoji"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You write short, warm holiday greetings for members of an IT team who just
finished a seasonal quest of six mini-games. Keep it friendly and inclusive, at most three
sentences, optionally with one gentle tech joke. Respond with JSON only.`

var fallbacks = []Greeting{
	{Text: "May your deploys be green, your pagers quiet and your holidays full of warmth!", Emoji: "🎄"},
	{Text: "Wishing you zero downtime with the people you love and a new year without merge conflicts.", Emoji: "🎁"},
	{Text: "You cleared every challenge. Time to cache some rest and refresh your spirits!", Emoji: "❄️"},
	{Text: "Here's to a year of fast builds, clean logs and plenty of festive cookies.", Emoji: "🍪"},
	{Text: "Thank you for keeping everything running. Happy holidays from the whole team!", Emoji: "✨"},
}

// Generator produces greetings through an LLM with a static fallback.
type Generator struct {
	provider llm.Provider
	timeout  time.Duration
	logger   *slog.Logger
}

// New creates a Generator. A nil provider always uses the fallback texts.
func New(p llm.Provider, timeout time.Duration, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Generator{provider: p, timeout: timeout, logger: logger}
}

// For returns a greeting for r. It never fails: provider errors fall back to
// a canned greeting chosen by the recipient's name.
func (g *Generator) For(ctx context.Context, r Recipient) Greeting {
	if g.provider == nil {
		return Fallback(r.Name)
	}

	ctx, cancel := context.WithTimeout(llm.WithPurpose(ctx, llm.PurposeGreeting), g.timeout)
	defer cancel()

	resp, err := g.provider.Complete(ctx, llm.Prompt{
		System:      systemPrompt,
		User:        prompt(r),
		Schema:      Schema,
		MaxTokens:   300,
		Temperature: 0.8,
	})
	if err != nil {
		g.logger.Warn("greeting generation failed, using fallback", "err", err)
		return Fallback(r.Name)
	}

	var out struct {
		Greeting string `json:"greeting"`
		Emoji    string `json:"emoji"`
	}
	if err := json.Unmarshal(resp.JSON, &out); err != nil || strings.TrimSpace(out.Greeting) == "" {
		g.logger.Warn("greeting response unusable, using fallback", "err", err)
		return Fallback(r.Name)
	}
	return Greeting{Text: strings.TrimSpace(out.Greeting), Emoji: out.Emoji, Source: SourceLLM}
}

func prompt(r Recipient) string {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = "a teammate"
	}
	return fmt.Sprintf("Write a greeting for %s. They completed %d of 6 games with a total score of %d.",
		name, r.GamesCompleted, r.TotalScore)
}

// Fallback returns a canned greeting. The same name always gets the same
// text.
func Fallback(name string) Greeting {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	g := fallbacks[h.Sum32()%uint32(len(fallbacks))]
	g.Source = SourceFallback
	return g
}
