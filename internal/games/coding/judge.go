package coding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultJudgeMemory = 128 << 20

// JudgeRunner executes submissions with Node.js inside a remote go-judge
// sandbox. The harness reads {input, expected} from stdin and prints the
// comparison as JSON.
type JudgeRunner struct {
	url         string
	timeout     time.Duration
	memoryLimit uint64
	client      *http.Client
}

// NewJudgeRunner returns a runner posting to the go-judge /run endpoint at url.
func NewJudgeRunner(url string, timeout time.Duration, memoryLimit uint64) *JudgeRunner {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if memoryLimit == 0 {
		memoryLimit = defaultJudgeMemory
	}
	return &JudgeRunner{
		url:         url,
		timeout:     timeout,
		memoryLimit: memoryLimit,
		client:      &http.Client{Timeout: 4*timeout + 10*time.Second},
	}
}

type judgeCmd struct {
	Args        []string             `json:"args"`
	Env         []string             `json:"env,omitempty"`
	Files       []*judgeFile         `json:"files,omitempty"`
	CPULimit    uint64               `json:"cpuLimit,omitempty"`
	ClockLimit  uint64               `json:"clockLimit,omitempty"`
	MemoryLimit uint64               `json:"memoryLimit,omitempty"`
	ProcLimit   uint64               `json:"procLimit,omitempty"`
	CopyIn      map[string]judgeFile `json:"copyIn,omitempty"`
}

type judgeFile struct {
	Name    string  `json:"name,omitempty"`
	Content *string `json:"content,omitempty"`
	Max     int64   `json:"max,omitempty"`
}

type judgeResult struct {
	Status     string            `json:"status"`
	ExitStatus int               `json:"exitStatus"`
	Error      string            `json:"error"`
	Time       uint64            `json:"time"`
	Memory     uint64            `json:"memory"`
	Files      map[string]string `json:"files"`
}

type harnessOutput struct {
	Passed bool    `json:"passed"`
	Actual string  `json:"actual"`
	Error  *string `json:"error"`
}

func (r *JudgeRunner) Run(ctx context.Context, ch Challenge, source string) ([]CaseResult, error) {
	script := harness(ch.Entry, source)
	limit := uint64(r.timeout.Nanoseconds())

	cmds := make([]judgeCmd, len(ch.Tests))
	for i, tc := range ch.Tests {
		stdin, err := json.Marshal(map[string]json.RawMessage{"input": tc.Input, "expected": tc.Expected})
		if err != nil {
			return nil, fmt.Errorf("encode test %d: %w", i, err)
		}
		in := string(stdin)
		cmds[i] = judgeCmd{
			Args: []string{"node", "main.js"},
			Env:  []string{"PATH=/usr/local/bin:/usr/bin:/bin"},
			Files: []*judgeFile{
				{Content: &in},
				{Name: "stdout", Max: 10240},
				{Name: "stderr", Max: 10240},
			},
			CPULimit:    limit,
			ClockLimit:  limit * 3,
			MemoryLimit: r.memoryLimit,
			ProcLimit:   50,
			CopyIn:      map[string]judgeFile{"main.js": {Content: &script}},
		}
	}

	results, err := r.do(ctx, map[string]any{"cmd": cmds})
	if err != nil {
		return nil, err
	}
	if len(results) != len(ch.Tests) {
		return nil, fmt.Errorf("go-judge returned %d results for %d commands", len(results), len(ch.Tests))
	}

	out := make([]CaseResult, len(ch.Tests))
	for i, tc := range ch.Tests {
		out[i] = parseJudgeResult(tc, results[i])
	}
	return out, nil
}

func (r *JudgeRunner) do(ctx context.Context, body any) ([]judgeResult, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("go-judge request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("go-judge api error: %d - %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var results []judgeResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode go-judge response: %w", err)
	}
	return results, nil
}

func parseJudgeResult(tc TestCase, jr judgeResult) CaseResult {
	res := CaseResult{Input: tc.Input, Expected: tc.Expected}

	switch jr.Status {
	case "Accepted":
	case "Time Limit Exceeded":
		res.Error = "time limit exceeded"
		return res
	case "Memory Limit Exceeded":
		res.Error = "memory limit exceeded"
		return res
	case "Nonzero Exit Status", "Non Zero Exit Status":
		res.Error = "runtime error: " + jr.Files["stderr"]
		return res
	default:
		res.Error = fmt.Sprintf("judge status %s %s", jr.Status, jr.Error)
		return res
	}

	var ho harnessOutput
	if err := json.Unmarshal([]byte(jr.Files["stdout"]), &ho); err != nil {
		res.Error = "unreadable harness output"
		return res
	}
	res.Actual = ho.Actual
	res.Passed = ho.Passed
	if ho.Error != nil {
		res.Error = *ho.Error
		res.Passed = false
	}
	return res
}

func harness(entry, source string) string {
	return fmt.Sprintf(`
const __payload = JSON.parse(require("fs").readFileSync(0, "utf8"));
%s
;(function () {
  let actual, error = null;
  try {
    actual = %s(__payload.input);
  } catch (e) {
    error = String(e);
  }
  process.stdout.write(JSON.stringify({
    passed: error === null && actual === __payload.expected,
    actual: String(actual),
    error: error,
  }));
})();
`, source, entry)
}
