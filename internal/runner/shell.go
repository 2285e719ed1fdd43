package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/vk/pipewright/internal/ctxlog"
)

// ShellRunner executes step commands through `sh -c`. It inherits the
// process environment, augmented with the step's env map and one
// MATRIX_<AXIS> variable per matrix binding.
type ShellRunner struct {
	// Stdout and Stderr receive the command's output; both default to the
	// process's own streams.
	Stdout io.Writer
	Stderr io.Writer
}

// NewShellRunner creates a ShellRunner writing to the given streams.
func NewShellRunner(stdout, stderr io.Writer) *ShellRunner {
	return &ShellRunner{Stdout: stdout, Stderr: stderr}
}

// RunStep implements StepRunner.
func (s *ShellRunner) RunStep(ctx context.Context, job string, step Step, matrixVars map[string]string) error {
	logger := ctxlog.FromContext(ctx).With("job", job, "step", step.Name)
	logger.Debug("Shell runner invoking command.", "command", step.Command)

	cmd := exec.CommandContext(ctx, "sh", "-c", step.Command)
	cmd.Stdout = s.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = s.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	cmd.Env = os.Environ()
	for k, v := range step.Env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	for axis, value := range matrixVars {
		cmd.Env = append(cmd.Env, fmt.Sprintf("MATRIX_%s=%s", envKey(axis), value))
	}

	if err := cmd.Run(); err != nil {
		// Surface cancellation distinctly so the scheduler records a
		// cancelled outcome instead of a failure.
		if ctx.Err() != nil {
			return fmt.Errorf("step '%s' interrupted: %w", step.Name, ctx.Err())
		}
		return fmt.Errorf("step '%s' failed: %w", step.Name, err)
	}
	return nil
}

// envKey upper-cases an axis name into an environment variable fragment.
func envKey(axis string) string {
	out := make([]byte, len(axis))
	for i := 0; i < len(axis); i++ {
		c := axis[i]
		switch {
		case c >= 'a' && c <= 'z':
			out[i] = c - 'a' + 'A'
		case c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out[i] = c
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
