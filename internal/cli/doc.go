// Package cli parses command-line arguments into an app.Config and maps
// error classes to process exit codes.
package cli
