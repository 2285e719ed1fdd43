package testutil

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/pipewright/internal/runner"
)

// Call records one step invocation observed by the fake runner.
type Call struct {
	Job     string
	Step    string
	Command string
	Matrix  map[string]string
}

// FakeRunner is a StepRunner for tests: it records every invocation, can
// be told to fail specific jobs or matrix cells, and tracks the peak
// number of concurrent invocations.
type FakeRunner struct {
	mu      sync.Mutex
	calls   []Call
	failers []func(job string, matrix map[string]string) bool

	delay time.Duration
	block bool

	cur, max atomic.Int32
}

// NewFakeRunner creates a fake runner that succeeds on every step.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// Delay makes every step take the given duration, for concurrency
// observation.
func (f *FakeRunner) Delay(d time.Duration) { f.delay = d }

// BlockUntilCancelled makes every step block until its context is
// cancelled, then return the context error.
func (f *FakeRunner) BlockUntilCancelled() { f.block = true }

// FailJob makes every instance of the named job fail.
func (f *FakeRunner) FailJob(job string) {
	f.failers = append(f.failers, func(j string, _ map[string]string) bool {
		return j == job
	})
}

// FailCell makes only the instances of job whose assignment binds axis to
// value fail.
func (f *FakeRunner) FailCell(job, axis, value string) {
	f.failers = append(f.failers, func(j string, m map[string]string) bool {
		return j == job && m[axis] == value
	})
}

// RunStep implements runner.StepRunner.
func (f *FakeRunner) RunStep(ctx context.Context, job string, step runner.Step, matrixVars map[string]string) error {
	cur := f.cur.Add(1)
	defer f.cur.Add(-1)
	for {
		prev := f.max.Load()
		if cur <= prev || f.max.CompareAndSwap(prev, cur) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, Call{Job: job, Step: step.Name, Command: step.Command, Matrix: matrixVars})
	failers := f.failers
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for _, fails := range failers {
		if fails(job, matrixVars) {
			return fmt.Errorf("step '%s' of job '%s' failed", step.Name, job)
		}
	}
	return nil
}

// Calls returns a copy of the recorded invocations in arrival order.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// Ran reports whether any step of the named job was invoked.
func (f *FakeRunner) Ran(job string) bool {
	return f.CallCount(job) > 0
}

// CallCount returns the number of step invocations recorded for the job.
func (f *FakeRunner) CallCount(job string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Job == job {
			n++
		}
	}
	return n
}

// MaxParallel returns the peak number of concurrently running steps.
func (f *FakeRunner) MaxParallel() int {
	return int(f.max.Load())
}
