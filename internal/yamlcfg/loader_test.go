package yamlcfg_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipewright/internal/cond"
	"github.com/vk/pipewright/internal/config"
	"github.com/vk/pipewright/internal/status"
	"github.com/vk/pipewright/internal/yamlcfg"
)

func parse(t *testing.T, src string) *config.Pipeline {
	t.Helper()
	p, err := yamlcfg.NewLoader().Parse(context.Background(), "test.yml", []byte(src))
	require.NoError(t, err)
	return p
}

func TestParse(t *testing.T) {
	t.Run("full job definition", func(t *testing.T) {
		p := parse(t, `
jobs:
  - name: cargo-deny
    needs: [check]
    matrix:
      check: [advisories, licenses]
    continue-on-error: matrix.check == "advisories"
    steps:
      - name: deny
        run: cargo deny check ${matrix.check}
        env:
          RUST_LOG: warn
  - name: check
    steps:
      - run: cargo check
`)
		require.Len(t, p.Jobs, 2)
		job := p.Jobs[0]
		assert.Equal(t, "cargo-deny", job.Name)
		assert.Equal(t, []string{"check"}, job.Needs)

		require.Len(t, job.Axes, 1)
		assert.Equal(t, "check", job.Axes[0].Name)
		assert.Equal(t, []string{"advisories", "licenses"}, job.Axes[0].Values)

		coe, err := cond.EvalContinueOnError(job.ContinueOnError, map[string]string{"check": "advisories"})
		require.NoError(t, err)
		assert.True(t, coe)
		coe, err = cond.EvalContinueOnError(job.ContinueOnError, map[string]string{"check": "licenses"})
		require.NoError(t, err)
		assert.False(t, coe)

		cmd, err := cond.ResolveCommand(job.Steps[0].Run, map[string]string{"check": "advisories"})
		require.NoError(t, err)
		assert.Equal(t, "cargo deny check advisories", cmd)

		env, err := cond.ResolveEnv(job.Steps[0].Env, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"RUST_LOG": "warn"}, env)
	})

	t.Run("matrix axis order follows the document", func(t *testing.T) {
		p := parse(t, `
jobs:
  - name: test
    matrix:
      os: [linux]
      arch: [amd64]
      toolchain: [stable]
    steps:
      - run: make test
`)
		axes := p.Jobs[0].Axes
		require.Len(t, axes, 3)
		assert.Equal(t, "os", axes[0].Name)
		assert.Equal(t, "arch", axes[1].Name)
		assert.Equal(t, "toolchain", axes[2].Name)
	})

	t.Run("boolean continue-on-error literal", func(t *testing.T) {
		p := parse(t, `
jobs:
  - name: flaky
    continue-on-error: true
    steps:
      - run: make flaky-test
`)
		coe, err := cond.EvalContinueOnError(p.Jobs[0].ContinueOnError, nil)
		require.NoError(t, err)
		assert.True(t, coe)
	})

	t.Run("if condition string", func(t *testing.T) {
		p := parse(t, `
jobs:
  - name: notify
    if: failure() || cancelled()
    steps:
      - run: send-alert
`)
		ok, err := cond.Evaluate(p.Jobs[0].If, map[string]status.Status{"x": status.Cancelled})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unnamed steps get positional names", func(t *testing.T) {
		p := parse(t, `
jobs:
  - name: build
    steps:
      - run: make deps
      - run: make build
`)
		assert.Equal(t, "step-1", p.Jobs[0].Steps[0].Name)
		assert.Equal(t, "step-2", p.Jobs[0].Steps[1].Name)
	})

	t.Run("job without a name is rejected", func(t *testing.T) {
		_, err := yamlcfg.NewLoader().Parse(context.Background(), "test.yml", []byte(`
jobs:
  - steps:
      - run: make test
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no name")
	})

	t.Run("job without steps is rejected", func(t *testing.T) {
		_, err := yamlcfg.NewLoader().Parse(context.Background(), "test.yml", []byte(`
jobs:
  - name: empty
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "declares no steps")
	})

	t.Run("step without run is rejected", func(t *testing.T) {
		_, err := yamlcfg.NewLoader().Parse(context.Background(), "test.yml", []byte(`
jobs:
  - name: broken
    steps:
      - name: oops
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no run command")
	})

	t.Run("malformed matrix is rejected", func(t *testing.T) {
		_, err := yamlcfg.NewLoader().Parse(context.Background(), "test.yml", []byte(`
jobs:
  - name: bad
    matrix:
      os: not-a-list
    steps:
      - run: make test
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sequence of values")
	})

	t.Run("malformed yaml is rejected", func(t *testing.T) {
		_, err := yamlcfg.NewLoader().Parse(context.Background(), "test.yml", []byte("jobs: ["))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ci.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
jobs:
  - name: check
    steps:
      - run: cargo check
`), 0o644))

	p, err := yamlcfg.NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, p.Jobs, 1)
	assert.Equal(t, "check", p.Jobs[0].Name)
}
