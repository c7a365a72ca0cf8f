package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies provider failures.
type Kind int

const (
	KindUnavailable Kind = iota
	KindRateLimited
	KindBadOutput
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindBadOutput:
		return "bad output"
	case KindTruncated:
		return "truncated"
	default:
		return "unavailable"
	}
}

// Error is returned by every backend.
type Error struct {
	Kind       Kind
	RetryAfter time.Duration
	// Body is the offending answer for KindBadOutput and KindTruncated.
	Body json.RawMessage
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm: " + e.Kind.String()
	}
	return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// fromStatus classifies a vendor API failure by HTTP status. Anything that
// is not a rate limit counts as the vendor being unavailable. h may be nil.
func fromStatus(status int, h http.Header, err error) error {
	if status == http.StatusTooManyRequests {
		return &Error{Kind: KindRateLimited, RetryAfter: retryAfter(h), Err: err}
	}
	return &Error{Kind: KindUnavailable, Err: err}
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
