// Package dag turns a flat job list into a validated dependency graph.
//
// Build fails closed: a duplicate job name, a dangling `needs` reference,
// or a dependency cycle each abort construction with a typed error and no
// partial graph is ever returned, so nothing downstream can schedule work
// from an invalid definition. All validation errors unwrap to
// ErrInvalidPipeline so callers can map the whole class to one exit code.
package dag
