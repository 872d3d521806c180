// Package rules evaluates guard expressions against decoded content payloads.
// Migration steps use it to decide whether a data patch applies to a given
// persisted overlay.
package rules

// Engine names accepted by New.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// Context carries the inputs available to an expression. The whole payload is
// bound to the variable "payload" and each top-level key is also exposed as a
// variable of its own.
type Context struct {
	Payload map[string]any
	Step    string
}

func (ctx Context) withDefaults() Context {
	if ctx.Payload == nil {
		ctx.Payload = map[string]any{}
	}
	return ctx
}

func (ctx Context) stepLabel() string {
	if ctx.Step == "" {
		return "unknown"
	}
	return ctx.Step
}

// variables returns the bindings shared by every engine.
func (ctx Context) variables() map[string]any {
	vars := make(map[string]any, len(ctx.Payload)+1)
	for key, value := range ctx.Payload {
		vars[key] = value
	}
	vars["payload"] = ctx.Payload
	return vars
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx Context, expr string) (any, error)
}

// EngineName reports which backend an evaluator uses.
func EngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return EngineExpr
	case *celEvaluator:
		return EngineCEL
	default:
		if isJSEvaluator(e) {
			return EngineJS
		}
		return "custom"
	}
}
