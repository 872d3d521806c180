package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyExpression is returned for blank guard expressions.
	ErrEmptyExpression = errors.New("rules: expression must not be empty")
	// ErrNotBoolean is returned by EvaluateBool when a guard yields a non-bool.
	ErrNotBoolean = errors.New("rules: expression did not evaluate to a bool")
	// ErrUnknownEngine is returned by New for an unsupported engine name.
	ErrUnknownEngine = errors.New("rules: unknown engine")
	// ErrEngineUnavailable is returned when an engine was compiled out.
	ErrEngineUnavailable = errors.New("rules: engine unavailable")
)

// EvaluationError ties a failure to the engine, expression and migration step
// that produced it.
type EvaluationError struct {
	Engine string
	Expr   string
	Step   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("rules: %s step=%s expr=%q: %v", e.Engine, e.Step, e.Expr, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// wrapEvaluationError fills in whatever metadata an existing EvaluationError
// lacks, or wraps err in a new one.
func wrapEvaluationError(engine, expr, step string, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		return &EvaluationError{Engine: engine, Expr: expr, Step: step, Err: err}
	}
	if evalErr.Engine == "" {
		evalErr.Engine = engine
	}
	if evalErr.Expr == "" {
		evalErr.Expr = expr
	}
	if evalErr.Step == "" {
		evalErr.Step = step
	}
	return evalErr
}
