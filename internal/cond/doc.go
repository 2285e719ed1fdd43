// Package cond evaluates the deferred expressions carried by the pipeline
// model: job run conditions, per-instance continue-on-error predicates,
// and per-instance step command/env resolution.
//
// A run condition sees the conclusions of the job's needed jobs, both as
// zero-argument status functions (success(), failure(), always(),
// cancelled()) and as a `needs` object for explicit combinations like
//
//	needs.lint.conclusion == "failure" || always()
//
// Continue-on-error predicates and step commands instead see a `matrix`
// object holding the instance's axis assignment. The two contexts are
// deliberately disjoint: conditions gate at job granularity before any
// instance runs, so no matrix values exist there yet.
package cond
