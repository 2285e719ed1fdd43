package dag

import (
	"context"

	"github.com/vk/pipewright/internal/config"
	"github.com/vk/pipewright/internal/ctxlog"
)

// Graph is the validated dependency graph over job names. It is read-only
// after Build and safe for concurrent readers without locking.
type Graph struct {
	// Jobs maps job name to its definition.
	Jobs map[string]*config.Job

	// Order lists job names in declaration order.
	Order []string

	// Needs maps a job to its deduplicated dependencies, declaration order
	// preserved.
	Needs map[string][]string

	// Dependents is the reverse edge set: for each job, the jobs that need
	// it, in declaration order of the dependents.
	Dependents map[string][]string
}

// Build constructs a validated graph from a pipeline definition. It
// returns the first definition error found; on error no graph is returned.
func Build(ctx context.Context, p *config.Pipeline) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: starting graph construction.", "job_count", len(p.Jobs))

	g := &Graph{
		Jobs:       make(map[string]*config.Job, len(p.Jobs)),
		Order:      make([]string, 0, len(p.Jobs)),
		Needs:      make(map[string][]string, len(p.Jobs)),
		Dependents: make(map[string][]string, len(p.Jobs)),
	}

	// First pass: register every job, rejecting duplicates.
	for _, job := range p.Jobs {
		if _, exists := g.Jobs[job.Name]; exists {
			return nil, &DuplicateJobError{Name: job.Name}
		}
		g.Jobs[job.Name] = job
		g.Order = append(g.Order, job.Name)
	}
	logger.Debug("Build: node creation complete.")

	// Second pass: link edges. Repeated needs entries collapse to one edge
	// so the scheduler's fan-in counters stay accurate.
	for _, name := range g.Order {
		job := g.Jobs[name]
		seen := make(map[string]bool, len(job.Needs))
		for _, dep := range job.Needs {
			if _, exists := g.Jobs[dep]; !exists {
				return nil, &UnknownDependencyError{Job: name, Dependency: dep}
			}
			if seen[dep] {
				continue
			}
			seen[dep] = true
			g.Needs[name] = append(g.Needs[name], dep)
			g.Dependents[dep] = append(g.Dependents[dep], name)
		}
	}
	logger.Debug("Build: node linking complete.")

	if err := g.detectCycles(); err != nil {
		return nil, err
	}
	logger.Debug("Build: cycle detection passed.")

	return g, nil
}

// detectCycles checks for circular dependencies using DFS over the needs
// edges, visiting jobs in declaration order so the reported cycle is
// deterministic.
func (g *Graph) detectCycles() error {
	visiting := make(map[string]bool)
	visited := make(map[string]bool)
	var stack []string

	var visit func(name string) *CycleError
	visit = func(name string) *CycleError {
		visiting[name] = true
		stack = append(stack, name)
		for _, dep := range g.Needs[name] {
			if visiting[dep] {
				// Close the loop: report from the first occurrence of dep
				// through the current job and back to dep.
				start := 0
				for i, n := range stack {
					if n == dep {
						start = i
						break
					}
				}
				cycle := append(append([]string{}, stack[start:]...), dep)
				return &CycleError{Jobs: cycle}
			}
			if !visited[dep] {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		delete(visiting, name)
		visited[name] = true
		return nil
	}

	for _, name := range g.Order {
		if !visited[name] {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// GateJobs returns the names of the jobs whose conclusions decide the
// pipeline verdict: every job marked gate, or, when none is marked, every
// sink job (a job nothing depends on).
func (g *Graph) GateJobs() []string {
	var gates []string
	for _, name := range g.Order {
		if g.Jobs[name].Gate {
			gates = append(gates, name)
		}
	}
	if len(gates) > 0 {
		return gates
	}
	for _, name := range g.Order {
		if len(g.Dependents[name]) == 0 {
			gates = append(gates, name)
		}
	}
	return gates
}
