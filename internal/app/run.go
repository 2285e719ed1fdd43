package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/dag"
	"github.com/vk/pipewright/internal/executor"
	"github.com/vk/pipewright/internal/status"
)

// ErrPipelineFailed is returned by Run when the pipeline completed but the
// gate verdict is Failure. The detailed report has already been written.
var ErrPipelineFailed = errors.New("pipeline failed")

// Run executes the configured pipeline end to end: load, validate, run,
// report. Definition errors abort before anything is scheduled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	pipeline, err := a.loadPipeline(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pipeline: %w", err)
	}

	graph, err := dag.Build(ctx, pipeline)
	if err != nil {
		return err
	}
	a.logger.Debug("Dependency graph built.", "jobs", len(graph.Order))

	exec, err := executor.New(graph, a.runners, a.config.Workers)
	if err != nil {
		return fmt.Errorf("failed to prepare executor: %w", err)
	}

	if a.config.StatusPort > 0 {
		srv := a.startStatusServer(ctx, a.config.StatusPort, exec)
		defer a.stopStatusServer(ctx, srv)
	}

	a.logger.Info("🚀 Starting pipeline run...", "runID", exec.RunID(), "jobs", len(graph.Order))
	rep, err := exec.Run(ctx)
	if err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	a.logger.Info("🏁 Pipeline run finished.", "result", rep.Result.String())
	a.lastReport = rep

	if a.config.ReportFormat == "json" {
		err = rep.WriteJSON(a.outW)
	} else {
		err = rep.WriteText(a.outW)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if rep.Result != status.Success {
		return ErrPipelineFailed
	}
	return nil
}
