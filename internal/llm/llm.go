// Package llm asks a language model for short structured texts. Backends
// are wrapped as caller -> retry -> logging -> vendor SDK.
package llm

import (
	"context"
	"encoding/json"
)

// Provider completes a single prompt.
type Provider interface {
	// Complete returns the model's answer. When the prompt carries a Schema
	// the answer has already been checked against it.
	Complete(ctx context.Context, p Prompt) (*Completion, error)

	// Model is the vendor model id requests are sent to.
	Model() string
}

// Prompt is one system instruction plus one user message.
type Prompt struct {
	System      string
	User        string
	Schema      *Schema
	MaxTokens   int
	Temperature float64 // 0 leaves the vendor default
}

// Completion is a model answer.
type Completion struct {
	// JSON is the answer object when a Schema was requested, otherwise the
	// raw text.
	JSON         json.RawMessage
	Model        string
	InputTokens  int
	OutputTokens int
}

// finish applies the checks shared by every backend to a raw answer.
func finish(p Prompt, text string, truncated bool, c Completion) (*Completion, error) {
	raw := json.RawMessage(text)
	if truncated {
		return nil, &Error{Kind: KindTruncated, Body: raw}
	}
	if err := p.Schema.Check(raw); err != nil {
		return nil, err
	}
	c.JSON = raw
	return &c, nil
}

// resolveModel maps a short alias onto a vendor model id. Unknown names are
// passed through so full ids can be configured directly.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
