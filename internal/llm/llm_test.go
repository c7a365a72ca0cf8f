package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

var cardSchema = &Schema{
	Name: "card",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string", "minLength": 1},
			"stars": map[string]any{"type": "integer", "minimum": 1, "maximum": 5},
		},
		"required":             []any{"title", "stars"},
		"additionalProperties": false,
	},
}

func TestSchemaCheck(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"valid", `{"title":"Snow","stars":3}`, true},
		{"missing field", `{"title":"Snow"}`, false},
		{"out of range", `{"title":"Snow","stars":9}`, false},
		{"extra field", `{"title":"Snow","stars":1,"x":true}`, false},
		{"not json", `Snow, 3 stars`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cardSchema.Check([]byte(tt.raw))
			if tt.ok {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !IsKind(err, KindBadOutput) {
				t.Fatalf("expected bad output, got %v", err)
			}
		})
	}
}

func TestNilSchemaAcceptsAnything(t *testing.T) {
	var s *Schema
	if err := s.Check([]byte("plain words")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFinish(t *testing.T) {
	p := Prompt{Schema: cardSchema}

	c, err := finish(p, `{"title":"Gift","stars":5}`, false, Completion{Model: "m", OutputTokens: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(c.JSON) != `{"title":"Gift","stars":5}` || c.Model != "m" || c.OutputTokens != 7 {
		t.Fatalf("unexpected completion: %+v", c)
	}

	_, err = finish(p, `{"title":"Gi`, true, Completion{})
	if !IsKind(err, KindTruncated) {
		t.Fatalf("expected truncated, got %v", err)
	}
	var le *Error
	if !errors.As(err, &le) || string(le.Body) != `{"title":"Gi` {
		t.Fatalf("expected body to be kept, got %v", err)
	}
}

func TestResolveModel(t *testing.T) {
	if got := resolveModel("claude-haiku", claudeAliases); got != "claude-haiku-4-5-20251001" {
		t.Fatalf("alias not resolved: %q", got)
	}
	if got := resolveModel("my-own-model", claudeAliases); got != "my-own-model" {
		t.Fatalf("full id changed: %q", got)
	}
}

func TestRetryAfterHeader(t *testing.T) {
	h := http.Header{}
	h.Set("Retry-After", "3")
	err := fromStatus(http.StatusTooManyRequests, h, errors.New("slow down"))
	var le *Error
	if !errors.As(err, &le) || le.Kind != KindRateLimited || le.RetryAfter != 3*time.Second {
		t.Fatalf("unexpected error: %#v", err)
	}
	if !IsKind(fromStatus(http.StatusBadGateway, nil, errors.New("boom")), KindUnavailable) {
		t.Fatal("expected 502 to be unavailable")
	}
}

func TestScripted(t *testing.T) {
	s := NewScripted(Reply{Text: `{"title":"A","stars":2}`}, Reply{Text: `nope`})
	ctx := context.Background()

	c, err := s.Complete(ctx, Prompt{User: "first", Schema: cardSchema})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(c.JSON) != `{"title":"A","stars":2}` {
		t.Fatalf("unexpected answer %s", c.JSON)
	}
	if _, err := s.Complete(ctx, Prompt{User: "second", Schema: cardSchema}); !IsKind(err, KindBadOutput) {
		t.Fatalf("expected bad output, got %v", err)
	}
	if _, err := s.Complete(ctx, Prompt{User: "third"}); !IsKind(err, KindUnavailable) {
		t.Fatalf("expected exhausted script to be unavailable, got %v", err)
	}

	prompts := s.Prompts()
	if len(prompts) != 3 || prompts[2].User != "third" {
		t.Fatalf("unexpected prompts: %+v", prompts)
	}
}

func TestPurpose(t *testing.T) {
	if got := PurposeFrom(context.Background()); got != PurposeUnknown {
		t.Fatalf("expected unknown, got %q", got)
	}
	ctx := WithPurpose(context.Background(), PurposeGreeting)
	if got := PurposeFrom(ctx); got != PurposeGreeting {
		t.Fatalf("expected greeting, got %q", got)
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), DefaultConfig(), nil)
	if err != nil || p != nil {
		t.Fatalf("disabled config should give no provider, got %v, %v", p, err)
	}

	cfg := DefaultConfig()
	cfg.Provider = ProviderAnthropic
	if _, err := NewProvider(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected missing key error")
	}

	cfg.Provider = ProviderMock
	p, err = NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, err := p.Complete(context.Background(), Prompt{User: "hi"})
	if err != nil || len(c.JSON) == 0 {
		t.Fatalf("mock provider failed: %v", err)
	}
}
