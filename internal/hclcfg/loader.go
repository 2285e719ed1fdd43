package hclcfg

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/pipewright/internal/config"
	"github.com/vk/pipewright/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates an HCL pipeline loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load reads and translates one .hcl pipeline file.
func (l *Loader) Load(ctx context.Context, path string) (*config.Pipeline, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline file: %w", err)
	}
	return l.Parse(ctx, path, src)
}

// Parse translates in-memory HCL source. The filename is only used in
// diagnostics.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) (*config.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing HCL pipeline file.", "file", filename)

	file, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	content, diags := file.Body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	p := &config.Pipeline{}
	for _, block := range content.Blocks {
		job, err := decodeJob(block)
		if err != nil {
			return nil, err
		}
		p.Jobs = append(p.Jobs, job)
	}
	logger.Debug("HCL pipeline file parsed.", "file", filename, "jobs", len(p.Jobs))
	return p, nil
}

func decodeJob(block *hcl.Block) (*config.Job, error) {
	job := &config.Job{Name: block.Labels[0]}

	content, diags := block.Body.Content(jobBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	if attr, ok := content.Attributes["needs"]; ok {
		needs, err := staticStringList(attr.Expr)
		if err != nil {
			return nil, fmt.Errorf("job %q: needs: %w", job.Name, err)
		}
		job.Needs = needs
	}
	if attr, ok := content.Attributes["if"]; ok {
		job.If = attr.Expr
	}
	if attr, ok := content.Attributes["continue_on_error"]; ok {
		job.ContinueOnError = attr.Expr
	}
	if attr, ok := content.Attributes["gate"]; ok {
		gate, err := staticBool(attr.Expr)
		if err != nil {
			return nil, fmt.Errorf("job %q: gate: %w", job.Name, err)
		}
		job.Gate = gate
	}
	if attr, ok := content.Attributes["runner"]; ok {
		name, err := staticString(attr.Expr)
		if err != nil {
			return nil, fmt.Errorf("job %q: runner: %w", job.Name, err)
		}
		job.Runner = name
	}

	for _, b := range content.Blocks {
		switch b.Type {
		case "matrix":
			axes, err := decodeMatrix(b)
			if err != nil {
				return nil, fmt.Errorf("job %q: %w", job.Name, err)
			}
			job.Axes = append(job.Axes, axes...)
		case "step":
			step, err := decodeStep(b, len(job.Steps))
			if err != nil {
				return nil, fmt.Errorf("job %q: %w", job.Name, err)
			}
			job.Steps = append(job.Steps, step)
		}
	}

	if len(job.Steps) == 0 {
		return nil, fmt.Errorf("job %q declares no steps", job.Name)
	}
	return job, nil
}

// decodeMatrix translates a matrix block's axis blocks, preserving
// declaration order.
func decodeMatrix(block *hcl.Block) ([]*config.Axis, error) {
	content, diags := block.Body.Content(matrixBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}
	var axes []*config.Axis
	for _, b := range content.Blocks {
		axisContent, diags := b.Body.Content(axisBodySchema)
		if diags.HasErrors() {
			return nil, diags
		}
		values, err := staticStringList(axisContent.Attributes["values"].Expr)
		if err != nil {
			return nil, fmt.Errorf("matrix axis %q: %w", b.Labels[0], err)
		}
		axes = append(axes, &config.Axis{Name: b.Labels[0], Values: values})
	}
	return axes, nil
}

func decodeStep(block *hcl.Block, index int) (*config.Step, error) {
	content, diags := block.Body.Content(stepBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}
	step := &config.Step{
		Name: fmt.Sprintf("step-%d", index+1),
		Run:  content.Attributes["run"].Expr,
	}
	if attr, ok := content.Attributes["name"]; ok {
		name, err := staticString(attr.Expr)
		if err != nil {
			return nil, fmt.Errorf("step name: %w", err)
		}
		step.Name = name
	}
	if attr, ok := content.Attributes["env"]; ok {
		step.Env = attr.Expr
	}
	return step, nil
}

// staticStringList evaluates an expression that must be a static list of
// strings (no variables or functions).
func staticStringList(expr hcl.Expression) ([]string, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if !val.Type().IsTupleType() && !val.Type().IsListType() {
		return nil, fmt.Errorf("expected a list of strings, got %s", val.Type().FriendlyName())
	}
	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, v := it.Element()
		sv, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("expected a list of strings: %w", err)
		}
		out = append(out, sv.AsString())
	}
	return out, nil
}

func staticBool(expr hcl.Expression) (bool, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return false, diags
	}
	val, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("expected a boolean: %w", err)
	}
	return val.True(), nil
}

func staticString(expr hcl.Expression) (string, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("expected a string: %w", err)
	}
	return val.AsString(), nil
}
