// Package executor drives a validated pipeline graph to completion with a
// bounded worker pool.
//
// # Scheduling model
//
// Jobs, not instances, are the unit of readiness: a job's run condition is
// evaluated exactly once, when every instance of every needed job has
// reached a terminal state. Two atomic counters implement that fan-in
// barrier as single-writer transitions:
//
//   - pendingNeeds counts a job's not-yet-terminal dependencies. The
//     goroutine whose decrement reaches zero owns the condition
//     evaluation and either enqueues all of the job's instances or marks
//     the whole job skipped.
//   - pendingInstances counts a job's unfinished instances. The goroutine
//     whose decrement reaches zero owns the job-level aggregation and
//     unlocks dependents.
//
// Atomic decrement-to-zero is observed by exactly one goroutine, so a
// barrier can never fire twice. Dispatch order among simultaneously ready
// instances is intentionally unspecified.
//
// Step failures never stop the scheduler; they only shape conclusions and
// downstream conditions. Cancellation of the run context marks queued
// instances cancelled and asks in-flight runners to stop cooperatively.
package executor
