package rules

import "fmt"

// Option configures an evaluator built by New or one of the engine
// constructors.
type Option func(*settings)

type settings struct {
	cache     ProgramCache
	functions Functions
}

// WithProgramCache reuses compiled programs across evaluations.
func WithProgramCache(cache ProgramCache) Option {
	return func(s *settings) {
		s.cache = cache
	}
}

// WithFunctions exposes helpers to expressions under their own names.
func WithFunctions(functions Functions) Option {
	return func(s *settings) {
		s.functions = functions.clone()
	}
}

func applyOptions(opts []Option) settings {
	s := settings{}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// New builds the evaluator for engine. An empty engine selects expr.
func New(engine string, opts ...Option) (Evaluator, error) {
	switch engine {
	case "", EngineExpr:
		return NewExprEvaluator(opts...), nil
	case EngineCEL:
		return NewCELEvaluator(opts...), nil
	case EngineJS:
		evaluator := NewJSEvaluator(opts...)
		if evaluator == nil {
			return nil, fmt.Errorf("%w: %s (build with -tags js_eval)", ErrEngineUnavailable, engine)
		}
		return evaluator, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
}
