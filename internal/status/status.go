package status

import "fmt"

// Status is a terminal result of a job instance, a job, or the whole
// pipeline. The zero value Unknown means "not terminal yet" and must never
// appear in a finished report.
type Status int

const (
	Unknown Status = iota
	Success
	Failure
	Skipped
	Cancelled
)

// String returns the lower-case wire form used in reports and in condition
// expressions (needs.<job>.conclusion).
func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case Skipped:
		return "skipped"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so reports serialize
// statuses as their string form.
func (s Status) MarshalText() ([]byte, error) {
	if s == Unknown {
		return nil, fmt.Errorf("cannot marshal a non-terminal status")
	}
	return []byte(s.String()), nil
}

// Mask applies the continue-on-error override: a tolerated Failure is
// reported to dependents as Success. Every other outcome passes through.
func Mask(outcome Status, continueOnError bool) Status {
	if continueOnError && outcome == Failure {
		return Success
	}
	return outcome
}

// JobStatusOf folds the conclusions of a job's instances into the job-level
// conclusion. A single failing instance fails the job no matter how many
// siblings succeeded; a job whose instances were all skipped is Skipped.
func JobStatusOf(conclusions []Status) Status {
	if len(conclusions) == 0 {
		return Skipped
	}
	allSkipped := true
	sawCancelled := false
	for _, c := range conclusions {
		switch c {
		case Failure:
			return Failure
		case Cancelled:
			sawCancelled = true
			allSkipped = false
		case Skipped:
		default:
			allSkipped = false
		}
	}
	if sawCancelled {
		return Cancelled
	}
	if allSkipped {
		return Skipped
	}
	return Success
}

// PipelineResultOf computes the overall verdict from the designated gate
// jobs' conclusions: Success iff every gate concluded Success.
func PipelineResultOf(gates []Status) Status {
	for _, g := range gates {
		if g != Success {
			return Failure
		}
	}
	return Success
}

// AllSuccess reports whether every conclusion in the set is Success. This
// is the default run condition a job evaluates over its needed jobs.
func AllSuccess(conclusions map[string]Status) bool {
	for _, c := range conclusions {
		if c != Success {
			return false
		}
	}
	return true
}

// AnyFailure reports whether at least one conclusion is Failure. Note that
// Cancelled deliberately does not count: cancellation fails success() but
// does not trigger failure() handlers.
func AnyFailure(conclusions map[string]Status) bool {
	for _, c := range conclusions {
		if c == Failure {
			return true
		}
	}
	return false
}

// AnyCancelled reports whether at least one conclusion is Cancelled.
func AnyCancelled(conclusions map[string]Status) bool {
	for _, c := range conclusions {
		if c == Cancelled {
			return true
		}
	}
	return false
}
