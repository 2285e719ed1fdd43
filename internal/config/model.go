package config

import (
	"github.com/hashicorp/hcl/v2"
)

// Pipeline is the unified representation of a whole pipeline definition.
// Job order follows declaration order; it is observable in reports but
// carries no scheduling meaning.
type Pipeline struct {
	Jobs []*Job
}

// Job is the format-agnostic representation of a single `job` block.
type Job struct {
	// Name is the unique job identifier referenced by `needs`.
	Name string

	// Steps run sequentially inside every instance of the job.
	Steps []*Step

	// Axes are the matrix axes in declaration order. Empty means the job
	// expands into exactly one instance with an empty assignment.
	Axes []*Axis

	// Needs lists the jobs whose conclusions gate this job.
	Needs []string

	// If is the run condition, evaluated once when all needed jobs are
	// terminal. Nil means the default success() condition.
	If hcl.Expression

	// ContinueOnError is a boolean predicate resolved per matrix instance
	// (it may reference matrix.* values). Nil means false.
	ContinueOnError hcl.Expression

	// Gate marks the job as a pipeline verdict aggregation target.
	Gate bool

	// Runner names the step runner implementation; empty selects the
	// default shell runner.
	Runner string
}

// Step is one opaque command inside a job.
type Step struct {
	// Name identifies the step in logs and reports.
	Name string

	// Run resolves to the command string. It may reference matrix.*
	// values and is resolved per instance, just before execution.
	Run hcl.Expression

	// Env optionally resolves to a string map merged into the runner's
	// environment. Nil means no extra environment.
	Env hcl.Expression
}

// Axis is one named matrix dimension with its candidate values in
// declaration order.
type Axis struct {
	Name   string
	Values []string
}
