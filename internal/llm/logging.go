package llm

import (
	"context"
	"log/slog"
	"time"
)

// Purpose labels why a completion was requested, for the request log.
type Purpose string

const (
	PurposeUnknown  Purpose = "unknown"
	PurposeGreeting Purpose = "greeting"
)

type purposeKey struct{}

// WithPurpose tags ctx with the reason for the next completion.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the purpose stored in ctx, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok {
		return p
	}
	return PurposeUnknown
}

type logged struct {
	next    Provider
	vendor  string
	timeout time.Duration
	log     *slog.Logger
}

// WithLogging logs each attempt with latency and token counts. A positive
// timeout bounds every attempt individually.
func WithLogging(p Provider, vendor string, timeout time.Duration, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &logged{next: p, vendor: vendor, timeout: timeout, log: logger.With("component", "llm")}
}

func (l *logged) Model() string { return l.next.Model() }

func (l *logged) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	c, err := l.next.Complete(ctx, p)

	attrs := []any{
		slog.String("vendor", l.vendor),
		slog.String("model", l.next.Model()),
		slog.String("purpose", string(PurposeFrom(ctx))),
		slog.Duration("latency", time.Since(start).Round(time.Millisecond)),
	}
	if p.Schema != nil {
		attrs = append(attrs, slog.String("schema", p.Schema.Name))
	}
	if err != nil {
		l.log.WarnContext(ctx, "completion failed", append(attrs, slog.Any("err", err))...)
		return nil, err
	}
	attrs = append(attrs,
		slog.Int("input_tokens", c.InputTokens),
		slog.Int("output_tokens", c.OutputTokens),
	)
	l.log.DebugContext(ctx, "completion", attrs...)
	return c, nil
}
