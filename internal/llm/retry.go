package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

type retrying struct {
	next  Provider
	cfg   RetryConfig
	sleep func(context.Context, time.Duration) error
}

// WithRetry retries rate limits and outages with jittered exponential
// backoff. A bad answer is asked for again once; truncation is final.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &retrying{next: p, cfg: cfg, sleep: sleepCtx}
}

func (r *retrying) Model() string { return r.next.Model() }

func (r *retrying) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	var err error
	badOutputSeen := false
	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		var c *Completion
		c, err = r.next.Complete(ctx, p)
		if err == nil {
			return c, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		var le *Error
		if errors.As(err, &le) {
			switch le.Kind {
			case KindTruncated:
				return nil, err
			case KindBadOutput:
				if badOutputSeen {
					return nil, err
				}
				badOutputSeen = true
			}
		}
		if attempt == r.cfg.MaxAttempts-1 {
			break
		}
		if serr := r.sleep(ctx, r.wait(attempt, le)); serr != nil {
			return nil, serr
		}
	}
	return nil, err
}

func (r *retrying) wait(attempt int, le *Error) time.Duration {
	if le != nil && le.RetryAfter > 0 {
		return le.RetryAfter
	}
	d := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	d = math.Min(d, float64(r.cfg.MaxWait))
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(d)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
