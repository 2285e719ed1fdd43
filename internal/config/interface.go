package config

import "context"

// Loader is the interface for a format-specific pipeline file loader. A
// loader reads one file and translates it into the format-agnostic model;
// merging multiple files into one Pipeline is the caller's concern.
type Loader interface {
	Load(ctx context.Context, path string) (*Pipeline, error)
}
