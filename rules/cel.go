package rules

import (
	"fmt"
	"sort"
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// maxCELArity bounds the overloads declared for each helper function.
const maxCELArity = 3

type celEvaluator struct {
	settings
}

// NewCELEvaluator constructs an Evaluator backed by cel-go. Programs are cached
// by expression plus the payload's top-level keys, since the environment
// declares one variable per key.
func NewCELEvaluator(opts ...Option) Evaluator {
	return &celEvaluator{settings: applyOptions(opts)}
}

func (e *celEvaluator) Evaluate(ctx Context, expression string) (any, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	ctx = ctx.withDefaults()
	program, err := e.program(expression, ctx.Payload)
	if err != nil {
		return nil, wrapEvaluationError(EngineCEL, expression, ctx.stepLabel(), err)
	}
	out, _, err := program.Eval(ctx.variables())
	if err != nil {
		return nil, wrapEvaluationError(EngineCEL, expression, ctx.stepLabel(), err)
	}
	return out.Value(), nil
}

func (e *celEvaluator) program(expression string, payload map[string]any) (celgo.Program, error) {
	key := celCacheKey(expression, payload)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}

	env, err := e.env(payload)
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return program, nil
}

func (e *celEvaluator) env(payload map[string]any) (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("payload", celgo.MapType(celgo.StringType, celgo.DynType)),
	}
	for key := range payload {
		if key == "payload" {
			continue
		}
		opts = append(opts, celgo.Variable(key, celgo.DynType))
	}
	for _, name := range e.functions.Names() {
		opts = append(opts, celFunction(name, e.functions[name]))
	}
	return celgo.NewEnv(opts...)
}

// celFunction declares fn with dyn overloads for one to maxCELArity arguments.
func celFunction(name string, fn Function) celgo.EnvOption {
	call := func(args ...ref.Val) ref.Val {
		native := make([]any, len(args))
		for i, arg := range args {
			native[i] = arg.Value()
		}
		result, err := fn(native...)
		if err != nil {
			return types.NewErr("%s: %v", name, err)
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}

	overloads := make([]celgo.FunctionOpt, 0, maxCELArity)
	for arity := 1; arity <= maxCELArity; arity++ {
		params := make([]*celgo.Type, arity)
		for i := range params {
			params[i] = celgo.DynType
		}
		id := fmt.Sprintf("%s_dyn_%d", name, arity)
		var binding celgo.OverloadOpt
		switch arity {
		case 1:
			binding = celgo.UnaryBinding(func(arg ref.Val) ref.Val { return call(arg) })
		case 2:
			binding = celgo.BinaryBinding(func(lhs, rhs ref.Val) ref.Val { return call(lhs, rhs) })
		default:
			binding = celgo.FunctionBinding(call)
		}
		overloads = append(overloads, celgo.Overload(id, params, celgo.DynType, binding))
	}
	return celgo.Function(name, overloads...)
}

func celCacheKey(expression string, payload map[string]any) string {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return expression + "|" + strings.Join(keys, ",")
}
