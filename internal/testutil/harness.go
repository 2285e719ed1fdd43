package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/pipewright/internal/config"
	"github.com/vk/pipewright/internal/dag"
	"github.com/vk/pipewright/internal/executor"
	"github.com/vk/pipewright/internal/hclcfg"
	"github.com/vk/pipewright/internal/report"
	"github.com/vk/pipewright/internal/runner"
)

// LoadPipeline parses an inline HCL pipeline definition.
func LoadPipeline(t *testing.T, src string) *config.Pipeline {
	t.Helper()
	p, err := hclcfg.NewLoader().Parse(context.Background(), "inline.hcl", []byte(src))
	require.NoError(t, err)
	return p
}

// BuildGraph parses and validates an inline HCL pipeline definition.
func BuildGraph(t *testing.T, src string) *dag.Graph {
	t.Helper()
	g, err := dag.Build(context.Background(), LoadPipeline(t, src))
	require.NoError(t, err)
	return g
}

// RunPipeline builds and runs an inline pipeline against the given fake
// runner (registered as the default runner) and returns the run report.
func RunPipeline(t *testing.T, src string, fr *FakeRunner, workers int) *report.Report {
	t.Helper()
	return RunPipelineContext(t, context.Background(), src, fr, workers)
}

// RunPipelineContext is RunPipeline with a caller-owned context, for
// cancellation tests.
func RunPipelineContext(t *testing.T, ctx context.Context, src string, fr *FakeRunner, workers int) *report.Report {
	t.Helper()
	g := BuildGraph(t, src)
	reg := runner.NewRegistry()
	reg.Register(runner.DefaultRunner, fr)
	exec, err := executor.New(g, reg, workers)
	require.NoError(t, err)
	rep, err := exec.Run(ctx)
	require.NoError(t, err)
	return rep
}
