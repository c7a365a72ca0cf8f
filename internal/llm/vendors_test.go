package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"google.golang.org/genai"
)

func newTestClaude(t *testing.T, handler http.HandlerFunc) *Claude {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClaude(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"}, option.WithBaseURL(server.URL))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func claudeMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 42, "output_tokens": 12},
	}
}

func TestClaudeComplete(t *testing.T) {
	var sent map[string]any
	c := newTestClaude(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &sent)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(claudeMessage(`{"title":"Tree","stars":4}`, "end_turn"))
	})

	got, err := c.Complete(context.Background(), Prompt{
		System:    "Be festive.",
		User:      "Rate the tree.",
		Schema:    cardSchema,
		MaxTokens: 200,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got.JSON) != `{"title":"Tree","stars":4}` {
		t.Fatalf("unexpected answer %s", got.JSON)
	}
	if got.InputTokens != 42 || got.OutputTokens != 12 {
		t.Fatalf("unexpected usage %+v", got)
	}
	if sent["model"] != "claude-haiku-4-5-20251001" {
		t.Fatalf("alias not resolved in request: %v", sent["model"])
	}
}

func TestClaudeTruncated(t *testing.T) {
	c := newTestClaude(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(claudeMessage(`{"title":"Tr`, "max_tokens"))
	})
	_, err := c.Complete(context.Background(), Prompt{User: "x", Schema: cardSchema, MaxTokens: 5})
	if !IsKind(err, KindTruncated) {
		t.Fatalf("expected truncated, got %v", err)
	}
}

func TestClaudeRateLimited(t *testing.T) {
	c := newTestClaude(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "rate_limit_error", "message": "slow down"},
		})
	})
	_, err := c.Complete(context.Background(), Prompt{User: "x", MaxTokens: 10})
	if !IsKind(err, KindRateLimited) {
		t.Fatalf("expected rate limited, got %v", err)
	}
	if le := err.(*Error); le.RetryAfter != 7*time.Second {
		t.Fatalf("expected retry-after 7s, got %v", le.RetryAfter)
	}
}

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	o, err := NewOpenAI(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1"})
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1734567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 9, "total_tokens": 39},
	}
}

func TestOpenAIComplete(t *testing.T) {
	var sent map[string]any
	o := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&sent)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"title":"Star","stars":5}`, "stop"))
	})

	got, err := o.Complete(context.Background(), Prompt{System: "s", User: "u", Schema: cardSchema, MaxTokens: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got.JSON) != `{"title":"Star","stars":5}` || got.InputTokens != 30 {
		t.Fatalf("unexpected completion %+v", got)
	}
	msgs, _ := sent["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system and user messages, got %v", sent["messages"])
	}
	format, _ := sent["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Fatalf("expected json_schema response format, got %v", sent["response_format"])
	}
}

func TestOpenAIFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		content string
		finish  string
		kind    Kind
	}{
		{"length", http.StatusOK, `{"title":`, "length", KindTruncated},
		{"schema mismatch", http.StatusOK, `{"title":"x"}`, "stop", KindBadOutput},
		{"rate limited", http.StatusTooManyRequests, "", "", KindRateLimited},
		{"server error", http.StatusInternalServerError, "", "", KindUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				if tt.status != http.StatusOK {
					w.WriteHeader(tt.status)
					json.NewEncoder(w).Encode(map[string]any{
						"error": map[string]any{"message": "nope", "type": "server_error"},
					})
					return
				}
				json.NewEncoder(w).Encode(chatCompletion(tt.content, tt.finish))
			})
			_, err := o.Complete(context.Background(), Prompt{User: "u", Schema: cardSchema, MaxTokens: 10})
			if !IsKind(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestOpenRouterDefaults(t *testing.T) {
	o, err := NewOpenRouter(OpenRouterConfig{APIKey: "k", Model: "google/gemini-2.0-flash-exp"})
	if err != nil {
		t.Fatal(err)
	}
	if o.Model() != "google/gemini-2.0-flash-exp" {
		t.Fatalf("unexpected model %q", o.Model())
	}
	if _, err := NewOpenRouter(OpenRouterConfig{}); err == nil {
		t.Fatal("expected missing key error")
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mood": map[string]any{"type": "string", "enum": []any{"merry", "bright"}},
			"tags": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"n":    map[string]any{"type": "integer", "description": "count"},
		},
		"required":             []any{"mood"},
		"additionalProperties": false,
	})
	if s.Type != genai.TypeObject {
		t.Fatalf("expected object, got %v", s.Type)
	}
	if len(s.Required) != 1 || s.Required[0] != "mood" {
		t.Fatalf("unexpected required %v", s.Required)
	}
	if got := s.Properties["mood"].Enum; len(got) != 2 {
		t.Fatalf("unexpected enum %v", got)
	}
	if s.Properties["tags"].Items == nil || s.Properties["tags"].Items.Type != genai.TypeString {
		t.Fatalf("array items not converted")
	}
	if s.Properties["n"].Type != genai.TypeInteger || s.Properties["n"].Description != "count" {
		t.Fatalf("unexpected integer schema %+v", s.Properties["n"])
	}
}
