package coding

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/frostline/holidayquest/internal/apperr"
)

// MaxSourceBytes bounds the size of a submission.
const MaxSourceBytes = 20000

// CaseResult is the outcome of one test case.
type CaseResult struct {
	Input    json.RawMessage `json:"input"`
	Expected json.RawMessage `json:"expected"`
	Actual   string          `json:"actual"`
	Passed   bool            `json:"passed"`
	Error    string          `json:"error,omitempty"`
}

// Result is the outcome of a whole submission.
type Result struct {
	Passed bool         `json:"passed"`
	Score  int          `json:"score"`
	Cases  []CaseResult `json:"cases"`
}

// Runner executes source against every test case of a challenge. A runner
// returns an error only when it could not run at all; a failing or crashing
// submission is reported through CaseResult.
type Runner interface {
	Run(ctx context.Context, ch Challenge, source string) ([]CaseResult, error)
}

// Evaluate validates source, runs it and computes the pass/fail result.
func Evaluate(ctx context.Context, r Runner, ch Challenge, source string) (Result, error) {
	if strings.TrimSpace(source) == "" {
		return Result{}, apperr.Invalid("source", "empty submission")
	}
	if len(source) > MaxSourceBytes {
		return Result{}, apperr.Invalid("source", fmt.Sprintf("submission exceeds %d bytes", MaxSourceBytes))
	}

	cases, err := r.Run(ctx, ch, source)
	if err != nil {
		return Result{}, fmt.Errorf("run %s: %w", ch.ID, err)
	}
	if len(cases) != len(ch.Tests) {
		return Result{}, fmt.Errorf("run %s: runner returned %d results for %d tests", ch.ID, len(cases), len(ch.Tests))
	}

	res := Result{Passed: true, Cases: cases}
	for _, c := range cases {
		if !c.Passed {
			res.Passed = false
		}
	}
	if res.Passed {
		res.Score = PassScore
	}
	return res, nil
}

// RunnerConfig selects and tunes the runner.
type RunnerConfig struct {
	// Kind is "sandbox" (in-process interpreter) or "judge" (remote go-judge).
	Kind         string
	Timeout      time.Duration
	MaxCallStack int
	JudgeURL     string
	// MemoryLimit bounds heap growth per case in the sandbox and memory per
	// run on the judge.
	MemoryLimit uint64
	// Concurrency caps simultaneous sandbox evaluations.
	Concurrency int
}

// NewRunner builds the Runner selected by cfg.
func NewRunner(cfg RunnerConfig) (Runner, error) {
	switch cfg.Kind {
	case "", "sandbox":
		return NewSandboxRunner(cfg.Timeout, cfg.MaxCallStack,
			WithMemoryLimit(cfg.MemoryLimit), WithConcurrency(cfg.Concurrency)), nil
	case "judge":
		if cfg.JudgeURL == "" {
			return nil, fmt.Errorf("judge runner requires a judge URL")
		}
		return NewJudgeRunner(cfg.JudgeURL, cfg.Timeout, cfg.MemoryLimit), nil
	default:
		return nil, fmt.Errorf("unknown code runner: %q", cfg.Kind)
	}
}

func failAll(ch Challenge, msg string) []CaseResult {
	out := make([]CaseResult, len(ch.Tests))
	for i, tc := range ch.Tests {
		out[i] = CaseResult{Input: tc.Input, Expected: tc.Expected, Error: msg}
	}
	return out
}
