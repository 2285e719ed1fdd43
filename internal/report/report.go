// Package report defines the structured result of a pipeline run: per
// instance the raw outcome and the masked conclusion, per job the fan-in
// status, and the single pipeline verdict downstream systems consume.
package report

import (
	"time"

	"github.com/vk/pipewright/internal/status"
)

// Report is the complete, immutable record of one pipeline run.
type Report struct {
	// RunID uniquely identifies this run across log streams and reports.
	RunID string `json:"run_id"`

	// Result is the pipeline verdict: Success iff every gate job
	// concluded Success.
	Result status.Status `json:"result"`

	// Gates lists the jobs whose conclusions decided Result.
	Gates []string `json:"gates"`

	// Jobs appear in declaration order.
	Jobs []JobReport `json:"jobs"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// JobReport is the record of one job and all of its matrix instances.
type JobReport struct {
	Name string `json:"name"`

	// Status is the fan-in conclusion over the job's instances.
	Status status.Status `json:"status"`

	// Gate marks whether this job participated in the verdict.
	Gate bool `json:"gate,omitempty"`

	// Error carries a condition evaluation failure, if any.
	Error string `json:"error,omitempty"`

	// Instances appear in matrix expansion order.
	Instances []InstanceReport `json:"instances"`
}

// InstanceReport is the record of one concrete job instance.
type InstanceReport struct {
	// ID is the instance identity: job name plus matrix key, e.g.
	// "cargo-deny[check=advisories]".
	ID string `json:"id"`

	// Matrix is the instance's axis assignment; empty for non-matrix jobs.
	Matrix map[string]string `json:"matrix,omitempty"`

	// Outcome is the raw terminal result of running the steps.
	Outcome status.Status `json:"outcome"`

	// Conclusion is the outcome after the continue-on-error override; this
	// is what dependents observed.
	Conclusion status.Status `json:"conclusion"`

	// ContinueOnError records whether masking was in effect.
	ContinueOnError bool `json:"continue_on_error,omitempty"`

	// Error is the message of the step or resolution failure, if any.
	Error string `json:"error,omitempty"`

	StartedAt  time.Time `json:"started_at,omitzero"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// Job returns the report for the named job, or nil.
func (r *Report) Job(name string) *JobReport {
	for i := range r.Jobs {
		if r.Jobs[i].Name == name {
			return &r.Jobs[i]
		}
	}
	return nil
}

// Instance returns the report for the instance with the given ID, or nil.
func (j *JobReport) Instance(id string) *InstanceReport {
	for i := range j.Instances {
		if j.Instances[i].ID == id {
			return &j.Instances[i]
		}
	}
	return nil
}
