package coding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostline/holidayquest/internal/apperr"
)

const solution = `function countGifts(wishlist) {
  return wishlist.reduce(function (sum, item) { return sum + item.quantity; }, 0);
}`

func TestSandboxCountGifts(t *testing.T) {
	tests := []struct {
		name   string
		source string
		passed bool
		errSub string
	}{
		{"correct", solution, true, ""},
		{"loop form", `function countGifts(w) { let n = 0; for (const i of w) n += i.quantity; return n; }`, true, ""},
		{"counts items not quantities", `function countGifts(w) { return w.length; }`, false, ""},
		{"string result is not strictly equal", `function countGifts(w) { return String(w.reduce((s, i) => s + i.quantity, 0)); }`, false, ""},
		{"missing function", `var x = 1;`, false, "not a function"},
		{"syntax error", `function countGifts(w) {`, false, "SyntaxError"},
		{"throws", `function countGifts(w) { throw new Error("boom"); }`, false, "boom"},
		{"infinite loop", `function countGifts(w) { while (true) {} }`, false, "time limit"},
		{"unbounded recursion", `function countGifts(w) { return countGifts(w) + 1; }`, false, ""},
	}

	runner := NewSandboxRunner(200*time.Millisecond, 256)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(context.Background(), runner, CountGifts, tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.passed, res.Passed)
			require.Len(t, res.Cases, len(CountGifts.Tests))
			if tt.passed {
				assert.Equal(t, PassScore, res.Score)
				assert.Equal(t, "7", res.Cases[0].Actual)
				assert.Equal(t, "0", res.Cases[2].Actual)
				return
			}
			assert.Zero(t, res.Score)
			if tt.errSub != "" {
				assert.Contains(t, res.Cases[0].Error, tt.errSub)
			}
		})
	}
}

func TestSandboxIsolatesCases(t *testing.T) {
	// A global counter must not leak between test cases.
	src := `var calls = 0; function countGifts(w) { calls++; return calls === 1 ? w.reduce((s, i) => s + i.quantity, 0) : -1; }`
	res, err := Evaluate(context.Background(), NewSandboxRunner(0, 0), CountGifts, src)
	require.NoError(t, err)
	assert.True(t, res.Passed)
}

func TestSandboxMemoryLimit(t *testing.T) {
	runner := NewSandboxRunner(5*time.Second, 0, WithMemoryLimit(16<<20))
	runner.pollEvery = time.Millisecond

	src := `function countGifts(w) { var s = "xxxxxxxx"; for (;;) { s = s + s; } }`
	res, err := Evaluate(context.Background(), runner, CountGifts, src)
	require.NoError(t, err)
	assert.False(t, res.Passed)
	for _, c := range res.Cases {
		assert.Contains(t, c.Error, "memory limit exceeded")
	}
}

func TestSandboxConcurrencyCap(t *testing.T) {
	runner := NewSandboxRunner(0, 0, WithConcurrency(1))
	runner.slots <- struct{}{}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := runner.Run(ctx, CountGifts, solution)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	<-runner.slots
	out, err := runner.Run(context.Background(), CountGifts, solution)
	require.NoError(t, err)
	assert.True(t, out[0].Passed)
}

func TestEvaluateRejectsEmptySource(t *testing.T) {
	_, err := Evaluate(context.Background(), NewSandboxRunner(0, 0), CountGifts, "   \n")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	_, err = Evaluate(context.Background(), NewSandboxRunner(0, 0), CountGifts, strings.Repeat("x", MaxSourceBytes+1))
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestJudgeRunner(t *testing.T) {
	var got struct {
		Cmd []judgeCmd `json:"cmd"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		results := make([]judgeResult, len(got.Cmd))
		for i := range results {
			results[i] = judgeResult{
				Status: "Accepted",
				Files:  map[string]string{"stdout": `{"passed":true,"actual":"7","error":null}`},
			}
		}
		results[1] = judgeResult{Status: "Time Limit Exceeded"}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(results)
	}))
	t.Cleanup(server.Close)

	runner := NewJudgeRunner(server.URL, time.Second, 0)
	res, err := Evaluate(context.Background(), runner, CountGifts, solution)
	require.NoError(t, err)

	require.Len(t, got.Cmd, len(CountGifts.Tests))
	assert.Equal(t, []string{"node", "main.js"}, got.Cmd[0].Args)
	assert.Contains(t, *got.Cmd[0].CopyIn["main.js"].Content, "countGifts(__payload.input)")
	assert.Contains(t, *got.Cmd[0].Files[0].Content, `"expected":7`)

	assert.False(t, res.Passed)
	assert.True(t, res.Cases[0].Passed)
	assert.Equal(t, "time limit exceeded", res.Cases[1].Error)
}

func TestJudgeRunnerServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "sandbox down", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	_, err := Evaluate(context.Background(), NewJudgeRunner(server.URL, time.Second, 0), CountGifts, solution)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestNewRunner(t *testing.T) {
	r, err := NewRunner(RunnerConfig{})
	require.NoError(t, err)
	assert.IsType(t, &SandboxRunner{}, r)

	_, err = NewRunner(RunnerConfig{Kind: "judge"})
	assert.Error(t, err)

	r, err = NewRunner(RunnerConfig{Kind: "judge", JudgeURL: "http://localhost:5050/run"})
	require.NoError(t, err)
	assert.IsType(t, &JudgeRunner{}, r)

	_, err = NewRunner(RunnerConfig{Kind: "docker"})
	assert.Error(t, err)
}
