package rules

import "fmt"

// EvaluateBool runs expr and requires a boolean result.
func EvaluateBool(e Evaluator, ctx Context, expr string) (bool, error) {
	if e == nil {
		return false, fmt.Errorf("rules: evaluator is nil")
	}
	value, err := e.Evaluate(ctx, expr)
	if err != nil {
		return false, err
	}
	result, ok := value.(bool)
	if !ok {
		return false, wrapEvaluationError(EngineName(e), expr, ctx.stepLabel(), fmt.Errorf("%w: got %T", ErrNotBoolean, value))
	}
	return result, nil
}
