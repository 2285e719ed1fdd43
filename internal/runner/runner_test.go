package runner_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipewright/internal/runner"
)

type nopRunner struct{}

func (nopRunner) RunStep(context.Context, string, runner.Step, map[string]string) error {
	return nil
}

func TestRegistry(t *testing.T) {
	t.Run("register and lookup", func(t *testing.T) {
		reg := runner.NewRegistry()
		reg.Register("shell", nopRunner{})

		sr, err := reg.Lookup("shell")
		require.NoError(t, err)
		assert.NotNil(t, sr)
	})

	t.Run("empty name selects the default runner", func(t *testing.T) {
		reg := runner.NewRegistry()
		reg.Register(runner.DefaultRunner, nopRunner{})

		sr, err := reg.Lookup("")
		require.NoError(t, err)
		assert.NotNil(t, sr)
	})

	t.Run("unknown runner is an error", func(t *testing.T) {
		reg := runner.NewRegistry()
		_, err := reg.Lookup("docker")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown step runner 'docker'")
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		reg := runner.NewRegistry()
		reg.Register("shell", nopRunner{})
		assert.PanicsWithValue(t, "step runner with name 'shell' already registered", func() {
			reg.Register("shell", nopRunner{})
		})
	})
}

func TestShellRunner(t *testing.T) {
	t.Run("captures stdout", func(t *testing.T) {
		var out bytes.Buffer
		sr := runner.NewShellRunner(&out, &out)
		err := sr.RunStep(context.Background(), "build", runner.Step{
			Name:    "hello",
			Command: "echo hello",
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "hello\n", out.String())
	})

	t.Run("nonzero exit is an error", func(t *testing.T) {
		var out bytes.Buffer
		sr := runner.NewShellRunner(&out, &out)
		err := sr.RunStep(context.Background(), "build", runner.Step{
			Name:    "boom",
			Command: "exit 3",
		}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "step 'boom' failed")
	})

	t.Run("step env is exported", func(t *testing.T) {
		var out bytes.Buffer
		sr := runner.NewShellRunner(&out, &out)
		err := sr.RunStep(context.Background(), "build", runner.Step{
			Name:    "env",
			Command: `echo "$GREETING"`,
			Env:     map[string]string{"GREETING": "hi"},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "hi\n", out.String())
	})

	t.Run("matrix bindings become MATRIX_ variables", func(t *testing.T) {
		var out bytes.Buffer
		sr := runner.NewShellRunner(&out, &out)
		err := sr.RunStep(context.Background(), "test", runner.Step{
			Name:    "probe",
			Command: `echo "$MATRIX_RUST_VERSION"`,
		}, map[string]string{"rust-version": "1.80"})
		require.NoError(t, err)
		assert.Equal(t, "1.80\n", out.String())
	})

	t.Run("cancellation surfaces as a context error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var out bytes.Buffer
		sr := runner.NewShellRunner(&out, &out)
		err := sr.RunStep(ctx, "test", runner.Step{
			Name:    "sleep",
			Command: "sleep 10",
		}, nil)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "interrupted"))
	})
}
