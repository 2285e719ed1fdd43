package executor

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vk/pipewright/internal/cond"
	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/dag"
	"github.com/vk/pipewright/internal/matrix"
	"github.com/vk/pipewright/internal/report"
	"github.com/vk/pipewright/internal/runner"
	"github.com/vk/pipewright/internal/status"
)

// Executor owns all mutable execution state for one pipeline run. The
// graph and job definitions are read-only; other components only see the
// run through the final report.
type Executor struct {
	graph   *dag.Graph
	workers int
	runID   uuid.UUID

	jobs  map[string]*jobState
	total int

	wg    sync.WaitGroup // one count per job, released on job-terminal
	ready chan *Instance
}

// New expands every job's matrix into instances, resolves the per-cell
// continue-on-error predicates and runner bindings, and prepares the
// barrier counters. Expansion errors are definition errors: they abort
// before anything is scheduled.
func New(graph *dag.Graph, runners *runner.Registry, workers int) (*Executor, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	e := &Executor{
		graph:   graph,
		workers: workers,
		runID:   uuid.New(),
		jobs:    make(map[string]*jobState, len(graph.Order)),
	}

	for _, name := range graph.Order {
		job := graph.Jobs[name]
		run, err := runners.Lookup(job.Runner)
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", name, err)
		}
		js := &jobState{spec: job, run: run}
		for _, assignment := range matrix.Expand(job.Axes) {
			coe, err := cond.EvalContinueOnError(job.ContinueOnError, assignment.Values())
			if err != nil {
				return nil, fmt.Errorf("job %q: continue_on_error: %w", name, err)
			}
			js.instances = append(js.instances, &Instance{
				Job:             job,
				Assignment:      assignment,
				ID:              name + assignment.Key(),
				ContinueOnError: coe,
				js:              js,
			})
		}
		js.pendingInstances.Store(int32(len(js.instances)))
		js.pendingNeeds.Store(int32(len(graph.Needs[name])))
		e.jobs[name] = js
		e.total += len(js.instances)
	}
	return e, nil
}

// RunID identifies this run in logs and the report.
func (e *Executor) RunID() string { return e.runID.String() }

// Run executes the whole graph and returns the run report. Step failures
// are recorded in the report, never returned as errors; Run only blocks
// until every job is terminal.
func (e *Executor) Run(ctx context.Context) (*report.Report, error) {
	logger := ctxlog.FromContext(ctx).With("runID", e.runID.String())
	ctx = ctxlog.WithLogger(ctx, logger)
	startedAt := time.Now()

	// Buffered for every instance so workers can enqueue dependents
	// without ever blocking on the channel.
	e.ready = make(chan *Instance, e.total)
	e.wg.Add(len(e.graph.Order))

	logger.Debug("Starting worker pool.", "workers", e.workers, "instances", e.total)
	for i := 0; i < e.workers; i++ {
		go e.worker(ctx, i)
	}

	// Seed: jobs with no dependencies evaluate their condition right away.
	for _, name := range e.graph.Order {
		js := e.jobs[name]
		if js.pendingNeeds.Load() == 0 {
			e.evaluate(ctx, js)
		}
	}

	logger.Info("Waiting for all jobs to complete...")
	e.wg.Wait()
	close(e.ready)
	logger.Info("All jobs completed.")

	return e.buildReport(startedAt, time.Now()), nil
}

// evaluate runs a job's condition at the fan-in barrier. Exactly one
// goroutine per job ever gets here: the one that observed the job's
// pendingNeeds counter reach zero (or the seeding pass for roots).
func (e *Executor) evaluate(ctx context.Context, js *jobState) {
	logger := ctxlog.FromContext(ctx).With("job", js.spec.Name)

	needs := make(map[string]status.Status, len(e.graph.Needs[js.spec.Name]))
	for _, dep := range e.graph.Needs[js.spec.Name] {
		needs[dep] = e.jobs[dep].conclusion
	}

	ok, err := cond.Evaluate(js.spec.If, needs)
	switch {
	case err != nil:
		// A condition that cannot be evaluated fails the job loudly
		// instead of silently skipping it; continue-on-error does not
		// mask definition-level mistakes.
		logger.Error("Run condition failed to evaluate.", "error", err)
		js.condErr = err
		for _, inst := range js.instances {
			inst.finish(status.Failure, status.Failure, err)
		}
		e.finishJob(ctx, js, status.Failure)
	case !ok:
		logger.Debug("Run condition false, skipping job.")
		for _, inst := range js.instances {
			inst.finish(status.Skipped, status.Skipped, nil)
		}
		e.finishJob(ctx, js, status.Skipped)
	default:
		logger.Debug("Run condition true, dispatching instances.", "count", len(js.instances))
		for _, inst := range js.instances {
			e.ready <- inst
		}
	}
}

// finishJob records the job-level conclusion and unlocks dependents whose
// fan-in barrier this job was the last member of.
func (e *Executor) finishJob(ctx context.Context, js *jobState, conclusion status.Status) {
	logger := ctxlog.FromContext(ctx)
	js.conclusion = conclusion
	logger.Debug("Job terminal.", "job", js.spec.Name, "status", conclusion.String())
	e.wg.Done()

	for _, depName := range e.graph.Dependents[js.spec.Name] {
		dep := e.jobs[depName]
		if dep.pendingNeeds.Add(-1) == 0 {
			e.evaluate(ctx, dep)
		}
	}
}

// instanceDone folds a finished instance into its job; the last instance
// aggregates the job status.
func (e *Executor) instanceDone(ctx context.Context, inst *Instance) {
	js := inst.js
	if js.pendingInstances.Add(-1) != 0 {
		return
	}
	conclusions := make([]status.Status, len(js.instances))
	for i, in := range js.instances {
		conclusions[i] = in.conclusion
	}
	e.finishJob(ctx, js, status.JobStatusOf(conclusions))
}

// buildReport assembles the immutable run report in declaration order.
func (e *Executor) buildReport(startedAt, finishedAt time.Time) *report.Report {
	gates := e.graph.GateJobs()
	gateSet := make(map[string]bool, len(gates))
	gateStatuses := make([]status.Status, 0, len(gates))
	for _, g := range gates {
		gateSet[g] = true
		gateStatuses = append(gateStatuses, e.jobs[g].conclusion)
	}

	r := &report.Report{
		RunID:      e.runID.String(),
		Result:     status.PipelineResultOf(gateStatuses),
		Gates:      gates,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
	for _, name := range e.graph.Order {
		js := e.jobs[name]
		jr := report.JobReport{
			Name:   name,
			Status: js.conclusion,
			Gate:   gateSet[name],
		}
		if js.condErr != nil {
			jr.Error = js.condErr.Error()
		}
		for _, inst := range js.instances {
			ir := report.InstanceReport{
				ID:              inst.ID,
				Outcome:         inst.outcome,
				Conclusion:      inst.conclusion,
				ContinueOnError: inst.ContinueOnError,
				StartedAt:       inst.start,
				FinishedAt:      inst.end,
			}
			if len(inst.Assignment) > 0 {
				ir.Matrix = inst.Assignment.Values()
			}
			if inst.err != nil {
				ir.Error = inst.err.Error()
			}
			jr.Instances = append(jr.Instances, ir)
		}
		r.Jobs = append(r.Jobs, jr)
	}
	return r
}
