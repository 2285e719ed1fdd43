// Package app wires the pipeline engine together: configuration, logging,
// pipeline loading, graph construction, execution, and report rendering.
package app

import (
	"io"
	"log/slog"

	"github.com/vk/pipewright/internal/report"
	"github.com/vk/pipewright/internal/runner"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle for one pipeline run.
type App struct {
	outW    io.Writer // report output
	logW    io.Writer // log output
	logger  *slog.Logger
	config  *Config
	runners *runner.Registry

	lastReport *report.Report
}

// NewApp constructs the application with its own isolated logger and a
// runner registry preloaded with the built-in shell runner.
func NewApp(outW, logW io.Writer, appConfig *Config) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	reg := runner.NewRegistry()
	reg.Register(runner.DefaultRunner, runner.NewShellRunner(logW, logW))

	return &App{
		outW:    outW,
		logW:    logW,
		logger:  logger,
		config:  appConfig,
		runners: reg,
	}
}

// Registry exposes the runner registry so callers can register additional
// step runners before Run.
func (a *App) Registry() *runner.Registry {
	return a.runners
}

// LastReport returns the report of the most recent Run. This is primarily
// for testing.
func (a *App) LastReport() *report.Report {
	return a.lastReport
}
