package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// Reply is one canned answer for a Scripted provider: either Text or Err.
type Reply struct {
	Text string
	Err  error
}

// Scripted replays queued replies in order. It backs the "mock" provider
// setting and is used by tests in other packages.
type Scripted struct {
	mu      sync.Mutex
	replies []Reply
	prompts []Prompt
}

// NewScripted returns a provider that answers with replies in order.
func NewScripted(replies ...Reply) *Scripted {
	return &Scripted{replies: replies}
}

// Push appends replies to the queue.
func (s *Scripted) Push(replies ...Reply) {
	s.mu.Lock()
	s.replies = append(s.replies, replies...)
	s.mu.Unlock()
}

// Prompts returns every prompt received so far.
func (s *Scripted) Prompts() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Prompt(nil), s.prompts...)
}

func (s *Scripted) Model() string { return "scripted" }

func (s *Scripted) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.prompts = append(s.prompts, p)
	if len(s.replies) == 0 {
		s.mu.Unlock()
		return nil, &Error{Kind: KindUnavailable, Err: errors.New("script exhausted")}
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	s.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	if p.Schema != nil {
		if err := p.Schema.Check(json.RawMessage(r.Text)); err != nil {
			return nil, err
		}
	}
	return &Completion{JSON: json.RawMessage(r.Text), Model: s.Model(), OutputTokens: len(r.Text) / 4}, nil
}
