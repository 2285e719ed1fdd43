// Package runner defines the StepRunner boundary between the scheduling
// core and the outside world. The core never inspects step content: a step
// is an opaque command that either succeeds or fails. Checkout, caching,
// sandboxing, per-step timeouts, and retries all live behind this
// interface.
package runner
