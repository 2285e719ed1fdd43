// Package testutil provides shared helpers for tests: an inline-HCL
// pipeline harness and a recording fake step runner.
package testutil
