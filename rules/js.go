//go:build js_eval

package rules

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsEvaluator struct {
	settings
}

// NewJSEvaluator constructs an Evaluator backed by goja. Each evaluation runs
// in a fresh runtime.
func NewJSEvaluator(opts ...Option) Evaluator {
	return &jsEvaluator{settings: applyOptions(opts)}
}

func (e *jsEvaluator) Evaluate(ctx Context, expression string) (any, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	ctx = ctx.withDefaults()
	program, err := e.program(expression)
	if err != nil {
		return nil, wrapEvaluationError(EngineJS, expression, ctx.stepLabel(), err)
	}

	vm := goja.New()
	for key, value := range ctx.variables() {
		if err := vm.Set(key, value); err != nil {
			return nil, wrapEvaluationError(EngineJS, expression, ctx.stepLabel(), err)
		}
	}
	for _, name := range e.functions.Names() {
		if err := vm.Set(name, func(args ...any) (any, error) { return e.functions[name](args...) }); err != nil {
			return nil, wrapEvaluationError(EngineJS, expression, ctx.stepLabel(), err)
		}
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, wrapEvaluationError(EngineJS, expression, ctx.stepLabel(), err)
	}
	return value.Export(), nil
}

func (e *jsEvaluator) program(expression string) (*goja.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", fmt.Sprintf("(function(){ return (%s); })()", expression), true)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return program, nil
}

func isJSEvaluator(e Evaluator) bool {
	_, ok := e.(*jsEvaluator)
	return ok
}
