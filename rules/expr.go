package rules

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

type exprEvaluator struct {
	settings
}

// NewExprEvaluator constructs an Evaluator backed by expr-lang/expr. It is the
// default guard engine.
func NewExprEvaluator(opts ...Option) Evaluator {
	return &exprEvaluator{settings: applyOptions(opts)}
}

func (e *exprEvaluator) Evaluate(ctx Context, expression string) (any, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	ctx = ctx.withDefaults()
	program, err := e.program(expression)
	if err != nil {
		return nil, wrapEvaluationError(EngineExpr, expression, ctx.stepLabel(), err)
	}
	result, err := exprlang.Run(program, ctx.variables())
	if err != nil {
		return nil, wrapEvaluationError(EngineExpr, expression, ctx.stepLabel(), err)
	}
	return result, nil
}

func (e *exprEvaluator) program(expression string) (*exprvm.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range e.functions.Names() {
		options = append(options, exprlang.Function(name, e.functions[name]))
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}
