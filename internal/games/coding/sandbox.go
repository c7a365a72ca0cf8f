package coding

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/dop251/goja"
)

const (
	defaultTimeout      = 2 * time.Second
	defaultMaxCallStack = 1024
	defaultMemoryLimit  = 128 << 20
	defaultConcurrency  = 2
	memoryPollInterval  = 5 * time.Millisecond
)

// SandboxRunner evaluates submissions in an in-process JavaScript interpreter
// with no host bindings. Each test case gets a fresh runtime, a wall-clock
// limit, a call stack limit and a heap growth limit. At most a fixed number
// of submissions run at once.
type SandboxRunner struct {
	timeout      time.Duration
	maxCallStack int
	memoryLimit  uint64
	pollEvery    time.Duration
	slots        chan struct{}
}

// SandboxOption tunes a SandboxRunner.
type SandboxOption func(*SandboxRunner)

// WithMemoryLimit interrupts a case once the process heap has grown by more
// than n bytes since the case started.
func WithMemoryLimit(n uint64) SandboxOption {
	return func(r *SandboxRunner) {
		if n > 0 {
			r.memoryLimit = n
		}
	}
}

// WithConcurrency caps how many submissions are evaluated at the same time.
func WithConcurrency(n int) SandboxOption {
	return func(r *SandboxRunner) {
		if n > 0 {
			r.slots = make(chan struct{}, n)
		}
	}
}

// NewSandboxRunner returns a SandboxRunner. Zero values select defaults.
func NewSandboxRunner(timeout time.Duration, maxCallStack int, opts ...SandboxOption) *SandboxRunner {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxCallStack <= 0 {
		maxCallStack = defaultMaxCallStack
	}
	r := &SandboxRunner{
		timeout:      timeout,
		maxCallStack: maxCallStack,
		memoryLimit:  defaultMemoryLimit,
		pollEvery:    memoryPollInterval,
		slots:        make(chan struct{}, defaultConcurrency),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *SandboxRunner) Run(ctx context.Context, ch Challenge, source string) ([]CaseResult, error) {
	prog, err := goja.Compile("submission.js", source, false)
	if err != nil {
		return failAll(ch, fmt.Sprintf("SyntaxError: %v", err)), nil
	}

	select {
	case r.slots <- struct{}{}:
		defer func() { <-r.slots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	out := make([]CaseResult, len(ch.Tests))
	for i, tc := range ch.Tests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = r.runCase(ctx, prog, ch.Entry, tc)
	}
	return out, nil
}

func (r *SandboxRunner) runCase(ctx context.Context, prog *goja.Program, entry string, tc TestCase) CaseResult {
	res := CaseResult{Input: tc.Input, Expected: tc.Expected}

	vm := goja.New()
	vm.SetMaxCallStackSize(r.maxCallStack)

	timer := time.AfterFunc(r.timeout, func() {
		vm.Interrupt("time limit exceeded")
	})
	defer timer.Stop()
	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})
	defer stop()
	done := make(chan struct{})
	defer close(done)
	go r.watchHeap(vm, done)

	if _, err := vm.RunProgram(prog); err != nil {
		res.Error = describe(err)
		return res
	}

	fn, ok := goja.AssertFunction(vm.Get(entry))
	if !ok {
		res.Error = fmt.Sprintf("ReferenceError: %s is not a function", entry)
		return res
	}

	input, err := parseJSON(vm, string(tc.Input))
	if err != nil {
		res.Error = describe(err)
		return res
	}
	expected, err := parseJSON(vm, string(tc.Expected))
	if err != nil {
		res.Error = describe(err)
		return res
	}

	actual, err := fn(goja.Undefined(), input)
	if err != nil {
		res.Error = describe(err)
		return res
	}

	res.Actual = actual.String()
	res.Passed = actual.StrictEquals(expected)
	return res
}

// watchHeap interrupts vm when heap usage grows past the memory limit. The
// baseline is taken when the case starts, so the limit is approximate while
// other requests allocate at the same time.
func (r *SandboxRunner) watchHeap(vm *goja.Runtime, done <-chan struct{}) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	base := ms.HeapAlloc

	tick := time.NewTicker(r.pollEvery)
	defer tick.Stop()
	for {
		select {
		case <-done:
			return
		case <-tick.C:
			runtime.ReadMemStats(&ms)
			if ms.HeapAlloc > base && ms.HeapAlloc-base > r.memoryLimit {
				vm.Interrupt(fmt.Sprintf("memory limit exceeded (%d MiB)", r.memoryLimit>>20))
				return
			}
		}
	}
}

func parseJSON(vm *goja.Runtime, raw string) (goja.Value, error) {
	parse, ok := goja.AssertFunction(vm.Get("JSON").ToObject(vm).Get("parse"))
	if !ok {
		return nil, errors.New("JSON.parse unavailable")
	}
	return parse(goja.Undefined(), vm.ToValue(raw))
}

func describe(err error) string {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if v, ok := interrupted.Value().(error); ok {
			return v.Error()
		}
		return fmt.Sprint(interrupted.Value())
	}
	var exc *goja.Exception
	if errors.As(err, &exc) {
		return exc.Value().String()
	}
	return err.Error()
}
