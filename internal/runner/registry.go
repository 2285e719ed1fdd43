package runner

import (
	"fmt"
	"log/slog"
)

// DefaultRunner is the runner name used by jobs that do not name one.
const DefaultRunner = "shell"

// Registry holds the step runner implementations available to one
// application instance, keyed by the name jobs select them with.
type Registry struct {
	runners map[string]StepRunner
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{runners: make(map[string]StepRunner)}
}

// Register adds a runner under the given name. Registering the same name
// twice is a programmer error and panics.
func (r *Registry) Register(name string, sr StepRunner) {
	if _, exists := r.runners[name]; exists {
		panic(fmt.Sprintf("step runner with name '%s' already registered", name))
	}
	slog.Debug("Registering step runner.", "name", name)
	r.runners[name] = sr
}

// Lookup resolves a runner by name; the empty name selects DefaultRunner.
func (r *Registry) Lookup(name string) (StepRunner, error) {
	if name == "" {
		name = DefaultRunner
	}
	sr, ok := r.runners[name]
	if !ok {
		return nil, fmt.Errorf("unknown step runner '%s'", name)
	}
	return sr, nil
}
