package executor

import (
	"context"
	"errors"
	"time"

	"github.com/vk/pipewright/internal/cond"
	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/runner"
	"github.com/vk/pipewright/internal/status"
)

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for inst := range e.ready {
		workerLogger := logger.With("workerID", workerID, "instance", inst.ID)

		if ctx.Err() != nil {
			workerLogger.Warn("Context cancelled, not starting instance.")
			inst.finish(status.Cancelled, status.Cancelled, ctx.Err())
			e.instanceDone(ctx, inst)
			continue
		}

		workerLogger.Debug("Worker picked up instance.")
		inst.state.Store(int32(stateRunning))
		inst.start = time.Now()

		outcome, err := e.runInstance(ctx, inst)
		inst.end = time.Now()

		conclusion := status.Mask(outcome, inst.ContinueOnError)
		inst.finish(outcome, conclusion, err)

		switch outcome {
		case status.Success:
			workerLogger.Debug("Instance succeeded.")
		case status.Cancelled:
			workerLogger.Warn("Instance cancelled.", "error", err)
		default:
			if conclusion == status.Success {
				workerLogger.Warn("Instance failed but failure is tolerated.", "error", err)
			} else {
				workerLogger.Error("Instance failed.", "error", err)
			}
		}

		e.instanceDone(ctx, inst)
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

// runInstance resolves and runs the instance's steps sequentially. The
// first failing step aborts the rest.
func (e *Executor) runInstance(ctx context.Context, inst *Instance) (status.Status, error) {
	logger := ctxlog.FromContext(ctx).With("instance", inst.ID)
	logger.Info("▶️ Starting instance")

	vars := inst.Assignment.Values()
	for _, step := range inst.Job.Steps {
		command, err := cond.ResolveCommand(step.Run, vars)
		if err != nil {
			return status.Failure, err
		}
		env, err := cond.ResolveEnv(step.Env, vars)
		if err != nil {
			return status.Failure, err
		}

		err = inst.js.run.RunStep(ctx, inst.Job.Name, runner.Step{
			Name:    step.Name,
			Command: command,
			Env:     env,
		}, vars)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return status.Cancelled, err
			}
			return status.Failure, err
		}
	}

	logger.Info("✅ Finished instance")
	return status.Success, nil
}
