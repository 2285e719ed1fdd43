package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPipeline is the common unwrap target of every definition-level
// validation error produced by Build.
var ErrInvalidPipeline = errors.New("invalid pipeline definition")

// DuplicateJobError reports two jobs sharing one name.
type DuplicateJobError struct {
	Name string
}

func (e *DuplicateJobError) Error() string {
	return fmt.Sprintf("duplicate job name %q", e.Name)
}

func (e *DuplicateJobError) Unwrap() error { return ErrInvalidPipeline }

// UnknownDependencyError reports a `needs` entry that references a job
// absent from the definition.
type UnknownDependencyError struct {
	Job        string
	Dependency string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("job %q needs unknown job %q", e.Job, e.Dependency)
}

func (e *UnknownDependencyError) Unwrap() error { return ErrInvalidPipeline }

// CycleError reports a dependency cycle. Jobs lists the cycle members in
// encounter order, with the closing job repeated at the end.
type CycleError struct {
	Jobs []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Jobs, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrInvalidPipeline }
