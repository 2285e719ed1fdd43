package app

import (
	"errors"
	"fmt"
)

// Config holds everything an App instance needs to run one pipeline.
type Config struct {
	// PipelinePath is a pipeline file or a directory of pipeline files.
	PipelinePath string

	// Workers bounds executor concurrency; 0 means one per CPU.
	Workers int

	LogFormat    string // "text" or "json"
	LogLevel     string // "debug", "info", "warn", "error"
	ReportFormat string // "text" or "json"

	// StatusPort enables the HTTP status server when positive.
	StatusPort int
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.PipelinePath == "" {
		return nil, errors.New("PipelinePath is a required configuration field and cannot be empty")
	}
	if cfg.ReportFormat == "" {
		cfg.ReportFormat = "text"
	}
	if cfg.ReportFormat != "text" && cfg.ReportFormat != "json" {
		return nil, fmt.Errorf("invalid report format %q: must be 'text' or 'json'", cfg.ReportFormat)
	}
	return &cfg, nil
}
