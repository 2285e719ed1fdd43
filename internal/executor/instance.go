package executor

import (
	"sync/atomic"
	"time"

	"github.com/vk/pipewright/internal/config"
	"github.com/vk/pipewright/internal/matrix"
	"github.com/vk/pipewright/internal/runner"
	"github.com/vk/pipewright/internal/status"
)

// execState tracks an instance through Pending -> Running -> Done.
type execState int32

const (
	statePending execState = iota
	stateRunning
	stateDone
)

// Instance is one concrete, independently schedulable unit of work: a job
// paired with one matrix assignment. Identity and configuration are
// immutable after expansion; only the execution fields below change, and
// each is written exactly once by the worker that finishes the instance.
type Instance struct {
	Job        *config.Job
	Assignment matrix.Assignment

	// ID is the instance identity: job name plus assignment key.
	ID string

	// ContinueOnError is the per-cell predicate, resolved at expansion.
	ContinueOnError bool

	js *jobState

	state      atomic.Int32
	outcome    status.Status
	conclusion status.Status
	err        error
	start, end time.Time
}

// finish records the write-once terminal result of the instance.
func (i *Instance) finish(outcome, conclusion status.Status, err error) {
	i.outcome = outcome
	i.conclusion = conclusion
	i.err = err
	i.state.Store(int32(stateDone))
}

// jobState is the executor-owned mutable state of one job.
type jobState struct {
	spec      *config.Job
	run       runner.StepRunner
	instances []*Instance

	// pendingNeeds counts needed jobs not yet terminal; the decrement that
	// reaches zero owns the condition evaluation.
	pendingNeeds atomic.Int32

	// pendingInstances counts unfinished instances; the decrement that
	// reaches zero owns the job-level aggregation.
	pendingInstances atomic.Int32

	// conclusion is written once by the aggregation owner, before
	// dependents are unlocked.
	conclusion status.Status

	// condErr records a condition evaluation failure for the report.
	condErr error
}
