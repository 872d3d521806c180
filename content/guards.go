package content

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-overlay/rules"
)

// GuardFunctions returns the helpers available to migration guards. They take
// the raw payload as their first argument, so the same guard text runs on
// every engine:
//
//	hasSection(payload, "map")
//	textAt(payload, "hero.title") == "Air Condtioning Experts"
//	lengthOf(payload, "navigation") > 0
func GuardFunctions() rules.Functions {
	return rules.Functions{
		"hasSection": hasSection,
		"textAt":     textAt,
		"lengthOf":   lengthOf,
	}
}

// NewGuardEvaluator builds a cached evaluator for engine with GuardFunctions
// registered. An empty engine selects expr.
func NewGuardEvaluator(engine string) (rules.Evaluator, error) {
	return rules.New(engine,
		rules.WithProgramCache(rules.NewMemoryCache()),
		rules.WithFunctions(GuardFunctions()),
	)
}

// hasSection reports whether landing.sections lists id.
func hasSection(args ...any) (any, error) {
	payload, rest, err := guardArgs("hasSection", 1, args)
	if err != nil {
		return nil, err
	}
	sections, _ := walkPayload(payload, "landing.sections").([]any)
	for _, section := range sections {
		if section == rest[0] {
			return true, nil
		}
	}
	return false, nil
}

// textAt returns the string at a dotted path, or "" when the path is missing
// or holds something else.
func textAt(args ...any) (any, error) {
	payload, rest, err := guardArgs("textAt", 1, args)
	if err != nil {
		return nil, err
	}
	text, _ := walkPayload(payload, rest[0]).(string)
	return text, nil
}

// lengthOf returns the length of the list, object or string at a dotted path;
// 0 when missing.
func lengthOf(args ...any) (any, error) {
	payload, rest, err := guardArgs("lengthOf", 1, args)
	if err != nil {
		return nil, err
	}
	switch v := walkPayload(payload, rest[0]).(type) {
	case []any:
		return len(v), nil
	case map[string]any:
		return len(v), nil
	case string:
		return len(v), nil
	default:
		return 0, nil
	}
}

func guardArgs(name string, extra int, args []any) (map[string]any, []string, error) {
	if len(args) != extra+1 {
		return nil, nil, fmt.Errorf("%s: want %d arguments, got %d", name, extra+1, len(args))
	}
	payload, ok := args[0].(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("%s: first argument must be the payload, got %T", name, args[0])
	}
	rest := make([]string, extra)
	for i := range rest {
		s, ok := args[i+1].(string)
		if !ok {
			return nil, nil, fmt.Errorf("%s: argument %d must be a string, got %T", name, i+2, args[i+1])
		}
		rest[i] = s
	}
	return payload, rest, nil
}

func walkPayload(payload map[string]any, path string) any {
	var current any = payload
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			current = node[segment]
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return nil
			}
			current = node[index]
		default:
			return nil
		}
	}
	return current
}
