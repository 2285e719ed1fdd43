package yamlcfg

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/pipewright/internal/config"
	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a YAML pipeline loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileDoc is the on-disk document shape. Jobs are a sequence so the
// declaration order survives decoding.
type fileDoc struct {
	Jobs []jobDoc `yaml:"jobs"`
}

type jobDoc struct {
	Name   string   `yaml:"name"`
	Needs  []string `yaml:"needs"`
	If     string   `yaml:"if"`
	Gate   bool     `yaml:"gate"`
	Runner string   `yaml:"runner"`

	// ContinueOnError accepts either a plain boolean or an expression
	// string, so it is decoded from the raw node.
	ContinueOnError yaml.Node `yaml:"continue-on-error"`

	// Matrix is decoded from the raw node to preserve axis declaration
	// order, which a Go map would destroy.
	Matrix yaml.Node `yaml:"matrix"`

	Steps []stepDoc `yaml:"steps"`
}

type stepDoc struct {
	Name string            `yaml:"name"`
	Run  string            `yaml:"run"`
	Env  map[string]string `yaml:"env"`
}

// Load reads and translates one .yml/.yaml pipeline file.
func (l *Loader) Load(ctx context.Context, path string) (*config.Pipeline, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline file: %w", err)
	}
	return l.Parse(ctx, path, src)
}

// Parse translates in-memory YAML source. The filename is only used in
// diagnostics.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) (*config.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing YAML pipeline file.", "file", filename)

	var doc fileDoc
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}

	p := &config.Pipeline{}
	for i, jd := range doc.Jobs {
		job, err := translateJob(filename, i, jd)
		if err != nil {
			return nil, err
		}
		p.Jobs = append(p.Jobs, job)
	}
	logger.Debug("YAML pipeline file parsed.", "file", filename, "jobs", len(p.Jobs))
	return p, nil
}

func translateJob(filename string, index int, jd jobDoc) (*config.Job, error) {
	if jd.Name == "" {
		return nil, fmt.Errorf("%s: job at index %d has no name", filename, index)
	}
	job := &config.Job{
		Name:   jd.Name,
		Needs:  jd.Needs,
		Gate:   jd.Gate,
		Runner: jd.Runner,
	}

	if jd.If != "" {
		expr, err := parseExpr(filename, jd.If)
		if err != nil {
			return nil, fmt.Errorf("job %q: if: %w", jd.Name, err)
		}
		job.If = expr
	}

	if !jd.ContinueOnError.IsZero() {
		expr, err := translateContinueOnError(filename, &jd.ContinueOnError)
		if err != nil {
			return nil, fmt.Errorf("job %q: continue-on-error: %w", jd.Name, err)
		}
		job.ContinueOnError = expr
	}

	axes, err := translateMatrix(&jd.Matrix)
	if err != nil {
		return nil, fmt.Errorf("job %q: matrix: %w", jd.Name, err)
	}
	job.Axes = axes

	if len(jd.Steps) == 0 {
		return nil, fmt.Errorf("job %q declares no steps", jd.Name)
	}
	for i, sd := range jd.Steps {
		step, err := translateStep(filename, i, sd)
		if err != nil {
			return nil, fmt.Errorf("job %q: %w", jd.Name, err)
		}
		job.Steps = append(job.Steps, step)
	}
	return job, nil
}

// translateContinueOnError accepts `true`/`false` literals or an
// expression string such as `matrix.check == "advisories"`.
func translateContinueOnError(filename string, node *yaml.Node) (hcl.Expression, error) {
	if node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("expected a boolean or expression string")
	}
	if node.Tag == "!!bool" {
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return nil, err
		}
		return hcl.StaticExpr(cty.BoolVal(b), hcl.Range{Filename: filename}), nil
	}
	return parseExpr(filename, node.Value)
}

// translateMatrix decodes a mapping of axis name to value list, walking
// the raw node content so axis order matches the document.
func translateMatrix(node *yaml.Node) ([]*config.Axis, error) {
	if node.IsZero() {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected a mapping of axis name to values")
	}
	var axes []*config.Axis
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("axis %q: expected a sequence of values", key.Value)
		}
		axis := &config.Axis{Name: key.Value}
		for _, item := range val.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("axis %q: values must be scalars", key.Value)
			}
			axis.Values = append(axis.Values, item.Value)
		}
		axes = append(axes, axis)
	}
	return axes, nil
}

func translateStep(filename string, index int, sd stepDoc) (*config.Step, error) {
	if sd.Run == "" {
		return nil, fmt.Errorf("step at index %d has no run command", index)
	}
	name := sd.Name
	if name == "" {
		name = fmt.Sprintf("step-%d", index+1)
	}

	// Commands are parsed as templates so ${matrix.*} interpolation works
	// the same as in the HCL format.
	runExpr, diags := hclsyntax.ParseTemplate([]byte(sd.Run), filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("step %q: %w", name, diags)
	}

	step := &config.Step{Name: name, Run: runExpr}
	if len(sd.Env) > 0 {
		env := make(map[string]cty.Value, len(sd.Env))
		for k, v := range sd.Env {
			env[k] = cty.StringVal(v)
		}
		step.Env = hcl.StaticExpr(cty.MapVal(env), hcl.Range{Filename: filename})
	}
	return step, nil
}

// parseExpr parses a condition or predicate string into an HCL expression.
func parseExpr(filename, src string) (hcl.Expression, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, diags
	}
	return expr, nil
}
