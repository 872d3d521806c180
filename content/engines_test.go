//go:build !js_eval

package content

import "github.com/goliatone/go-overlay/rules"

func guardEngines() []string {
	return []string{rules.EngineExpr, rules.EngineCEL}
}
