package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/pipewright/internal/config"
	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/vk/pipewright/internal/hclcfg"
	"github.com/vk/pipewright/internal/yamlcfg"
)

// loadPipeline resolves the configured path into one merged pipeline
// model. A directory is walked for pipeline files, loaded in sorted path
// order; each file's format is selected by extension.
func (a *App) loadPipeline(ctx context.Context) (*config.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findPipelineFiles(a.config.PipelinePath)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no pipeline files (.hcl, .yml, .yaml) found at %s", a.config.PipelinePath)
	}
	logger.Debug("Pipeline files discovered.", "count", len(files))

	merged := &config.Pipeline{}
	for _, f := range files {
		loader, err := loaderFor(f)
		if err != nil {
			return nil, err
		}
		p, err := loader.Load(ctx, f)
		if err != nil {
			return nil, err
		}
		merged.Jobs = append(merged.Jobs, p.Jobs...)
	}
	return merged, nil
}

// findPipelineFiles accepts a single file or a directory to walk.
func findPipelineFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("resolving pipeline path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isPipelineExt(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking pipeline directory: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

func isPipelineExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl", ".yml", ".yaml":
		return true
	}
	return false
}

func loaderFor(path string) (config.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return hclcfg.NewLoader(), nil
	case ".yml", ".yaml":
		return yamlcfg.NewLoader(), nil
	}
	return nil, fmt.Errorf("unsupported pipeline file format: %s", path)
}
