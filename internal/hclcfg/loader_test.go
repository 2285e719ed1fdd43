package hclcfg_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipewright/internal/cond"
	"github.com/vk/pipewright/internal/config"
	"github.com/vk/pipewright/internal/hclcfg"
	"github.com/vk/pipewright/internal/status"
)

func parse(t *testing.T, src string) *config.Pipeline {
	t.Helper()
	p, err := hclcfg.NewLoader().Parse(context.Background(), "test.hcl", []byte(src))
	require.NoError(t, err)
	return p
}

func TestParse(t *testing.T) {
	t.Run("full job definition", func(t *testing.T) {
		p := parse(t, `
			job "cargo-deny" {
				needs  = ["check"]
				gate   = false
				runner = "shell"

				matrix {
					axis "check" {
						values = ["advisories", "licenses"]
					}
				}

				continue_on_error = matrix.check == "advisories"

				step {
					name = "deny"
					run  = "cargo deny check ${matrix.check}"
					env  = { RUST_LOG = "warn" }
				}
			}
			job "check" {
				step { run = "cargo check" }
			}
		`)

		require.Len(t, p.Jobs, 2)
		job := p.Jobs[0]
		assert.Equal(t, "cargo-deny", job.Name)
		assert.Equal(t, []string{"check"}, job.Needs)
		assert.False(t, job.Gate)
		assert.Equal(t, "shell", job.Runner)

		require.Len(t, job.Axes, 1)
		assert.Equal(t, "check", job.Axes[0].Name)
		assert.Equal(t, []string{"advisories", "licenses"}, job.Axes[0].Values)

		require.Len(t, job.Steps, 1)
		assert.Equal(t, "deny", job.Steps[0].Name)

		// Deferred expressions resolve per matrix cell.
		coe, err := cond.EvalContinueOnError(job.ContinueOnError, map[string]string{"check": "advisories"})
		require.NoError(t, err)
		assert.True(t, coe)

		cmd, err := cond.ResolveCommand(job.Steps[0].Run, map[string]string{"check": "licenses"})
		require.NoError(t, err)
		assert.Equal(t, "cargo deny check licenses", cmd)

		env, err := cond.ResolveEnv(job.Steps[0].Env, nil)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"RUST_LOG": "warn"}, env)
	})

	t.Run("unnamed steps get positional names", func(t *testing.T) {
		p := parse(t, `
			job "build" {
				step { run = "make deps" }
				step { run = "make build" }
			}
		`)
		require.Len(t, p.Jobs[0].Steps, 2)
		assert.Equal(t, "step-1", p.Jobs[0].Steps[0].Name)
		assert.Equal(t, "step-2", p.Jobs[0].Steps[1].Name)
	})

	t.Run("if condition stays deferred", func(t *testing.T) {
		p := parse(t, `
			job "notify" {
				if = failure()
				step { run = "send-alert" }
			}
		`)
		ok, err := cond.Evaluate(p.Jobs[0].If, map[string]status.Status{"x": status.Failure})
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("job without steps is rejected", func(t *testing.T) {
		_, err := hclcfg.NewLoader().Parse(context.Background(), "test.hcl", []byte(`
			job "empty" {
			}
		`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "declares no steps")
	})

	t.Run("syntax error is reported with diagnostics", func(t *testing.T) {
		_, err := hclcfg.NewLoader().Parse(context.Background(), "test.hcl", []byte(`job "x" {`))
		assert.Error(t, err)
	})

	t.Run("needs must be a static string list", func(t *testing.T) {
		_, err := hclcfg.NewLoader().Parse(context.Background(), "test.hcl", []byte(`
			job "x" {
				needs = "not-a-list"
				step { run = "true" }
			}
		`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "list of strings")
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ci.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
		job "check" {
			step { run = "cargo check" }
		}
	`), 0o644))

	p, err := hclcfg.NewLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, p.Jobs, 1)
	assert.Equal(t, "check", p.Jobs[0].Name)

	t.Run("missing file", func(t *testing.T) {
		_, err := hclcfg.NewLoader().Load(context.Background(), filepath.Join(dir, "nope.hcl"))
		assert.Error(t, err)
	})
}
