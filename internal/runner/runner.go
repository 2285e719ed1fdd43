package runner

import "context"

// Step is one fully resolved command: all matrix references have been
// substituted before a runner ever sees it.
type Step struct {
	Name    string
	Command string
	Env     map[string]string
}

// StepRunner executes one step of one job instance. Returning nil records
// a step success; any error records a failure and aborts the instance's
// remaining steps. Implementations should honor ctx cancellation; an error
// wrapping context.Canceled is recorded as a cancelled outcome rather than
// a failure.
type StepRunner interface {
	RunStep(ctx context.Context, job string, step Step, matrixVars map[string]string) error
}
