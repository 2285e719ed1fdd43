package cond

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/pipewright/internal/status"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
)

// Evaluate resolves a job's run condition against the conclusions of its
// needed jobs. A nil expression is the default success() condition.
func Evaluate(expr hcl.Expression, needs map[string]status.Status) (bool, error) {
	if expr == nil {
		return status.AllSuccess(needs), nil
	}
	return evalBool(expr, needsContext(needs))
}

// EvalContinueOnError resolves the continue-on-error predicate for one
// matrix assignment. A nil expression means false.
func EvalContinueOnError(expr hcl.Expression, matrixVars map[string]string) (bool, error) {
	if expr == nil {
		return false, nil
	}
	return evalBool(expr, matrixContext(matrixVars))
}

// ResolveCommand resolves a step's run expression into the concrete
// command string for one matrix assignment.
func ResolveCommand(expr hcl.Expression, matrixVars map[string]string) (string, error) {
	val, diags := expr.Value(matrixContext(matrixVars))
	if diags.HasErrors() {
		return "", diags
	}
	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("step command must be a string: %w", err)
	}
	if val.IsNull() {
		return "", errors.New("step command resolved to null")
	}
	return val.AsString(), nil
}

// ResolveEnv resolves a step's env expression into a string map for one
// matrix assignment. A nil expression yields no environment.
func ResolveEnv(expr hcl.Expression, matrixVars map[string]string) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(matrixContext(matrixVars))
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("step env must be a map of strings, got %s", val.Type().FriendlyName())
	}
	env := make(map[string]string)
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		sv, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("env value for %q must be a string: %w", k.AsString(), err)
		}
		env[k.AsString()] = sv.AsString()
	}
	return env, nil
}

// needsContext builds the evaluation context for a run condition: the four
// status functions closed over the needed conclusions, plus the `needs`
// object for explicit per-job references.
func needsContext(needs map[string]status.Status) *hcl.EvalContext {
	needsObj := make(map[string]cty.Value, len(needs))
	for name, c := range needs {
		needsObj[name] = cty.ObjectVal(map[string]cty.Value{
			"conclusion": cty.StringVal(c.String()),
		})
	}
	needsVal := cty.EmptyObjectVal
	if len(needsObj) > 0 {
		needsVal = cty.ObjectVal(needsObj)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"needs": needsVal,
		},
		Functions: map[string]function.Function{
			"success":   boolFn(func() bool { return status.AllSuccess(needs) }),
			"failure":   boolFn(func() bool { return status.AnyFailure(needs) }),
			"cancelled": boolFn(func() bool { return status.AnyCancelled(needs) }),
			"always":    boolFn(func() bool { return true }),
		},
	}
}

// matrixContext builds the evaluation context for instance-scoped
// expressions: the `matrix` object holding the axis assignment.
func matrixContext(matrixVars map[string]string) *hcl.EvalContext {
	obj := make(map[string]cty.Value, len(matrixVars))
	for k, v := range matrixVars {
		obj[k] = cty.StringVal(v)
	}
	matrixVal := cty.EmptyObjectVal
	if len(obj) > 0 {
		matrixVal = cty.ObjectVal(obj)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"matrix": matrixVal,
		},
	}
}

// boolFn wraps a zero-argument predicate as a cty function.
func boolFn(f func() bool) function.Function {
	return function.New(&function.Spec{
		Type: function.StaticReturnType(cty.Bool),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			return cty.BoolVal(f()), nil
		},
	})
}

// evalBool evaluates an expression and coerces the result to a boolean.
func evalBool(expr hcl.Expression, ectx *hcl.EvalContext) (bool, error) {
	val, diags := expr.Value(ectx)
	if diags.HasErrors() {
		return false, diags
	}
	val, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("condition must be a boolean: %w", err)
	}
	if val.IsNull() || !val.IsKnown() {
		return false, errors.New("condition resolved to an unknown or null value")
	}
	return val.True(), nil
}
