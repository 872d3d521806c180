package content

import (
	"errors"
	"fmt"
	"sort"

	"github.com/goliatone/go-overlay/rules"
)

// ErrMigration wraps failures of a migration step's Apply function.
var ErrMigration = errors.New("content: migration failed")

// Migration is a one-time data patch bundled with a schema version bump. It
// runs on the raw persisted payload before the typed decode, so it can fix
// values the reconciliation would otherwise keep or prune.
type Migration struct {
	Version int
	Name    string
	// When is an optional guard expression evaluated against the payload.
	// A false guard skips Apply; the version still counts as reached. Guards
	// written with GuardFunctions run on every rules engine.
	When  string
	Apply func(payload map[string]any) error
}

// Migrations lists the data patches in version order.
var Migrations = []Migration{
	{
		Version: 2,
		Name:    "rename-map-section",
		When:    `hasSection(payload, "map")`,
		Apply:   renameLandingSection("map", "warehouse"),
	},
	{
		Version: 3,
		Name:    "fix-hero-title-typo",
		When:    `textAt(payload, "hero.title") == "Air Condtioning Experts"`,
		Apply:   setField("hero", "title", "Air Conditioning Experts"),
	},
	{
		Version: 4,
		Name:    "reset-navigation",
		When:    `lengthOf(payload, "navigation") > 0 && textAt(payload, "navigation.0.label") != "Home"`,
		Apply: func(payload map[string]any) error {
			delete(payload, "navigation")
			return nil
		},
	},
}

// MigrationResult reports what a Migrator did to a payload.
type MigrationResult struct {
	FromVersion int      `json:"from_version"`
	ToVersion   int      `json:"to_version"`
	Applied     []string `json:"applied,omitempty"`
	Skipped     []string `json:"skipped,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// MigratorOption configures a Migrator.
type MigratorOption func(*Migrator)

// WithEvaluator sets the guard evaluator. Defaults to expr with
// GuardFunctions, see NewGuardEvaluator.
func WithEvaluator(evaluator rules.Evaluator) MigratorOption {
	return func(m *Migrator) {
		if evaluator != nil {
			m.evaluator = evaluator
		}
	}
}

// WithSteps replaces the migration list.
func WithSteps(steps ...Migration) MigratorOption {
	return func(m *Migrator) {
		m.steps = append([]Migration(nil), steps...)
	}
}

// Migrator applies versioned migrations to persisted payloads.
type Migrator struct {
	steps     []Migration
	evaluator rules.Evaluator
}

func NewMigrator(opts ...MigratorOption) *Migrator {
	m := &Migrator{steps: append([]Migration(nil), Migrations...)}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.evaluator == nil {
		m.evaluator = rules.NewExprEvaluator(
			rules.WithProgramCache(rules.NewMemoryCache()),
			rules.WithFunctions(GuardFunctions()),
		)
	}
	sort.SliceStable(m.steps, func(i, j int) bool {
		return m.steps[i].Version < m.steps[j].Version
	})
	return m
}

// Evaluator returns the guard evaluator in use.
func (m *Migrator) Evaluator() rules.Evaluator {
	return m.evaluator
}

// Steps returns the ordered migration list.
func (m *Migrator) Steps() []Migration {
	return append([]Migration(nil), m.steps...)
}

// Run applies, in order, every step newer than the payload's schemaVersion and
// stamps the reached version back onto payload. Guard evaluation errors skip
// the step with a warning; Apply errors abort.
func (m *Migrator) Run(payload map[string]any) (MigrationResult, error) {
	from := PayloadVersion(payload)
	result := MigrationResult{FromVersion: from, ToVersion: from}

	for _, step := range m.steps {
		if step.Version <= from {
			continue
		}
		result.ToVersion = step.Version

		if step.When != "" {
			ok, err := rules.EvaluateBool(m.evaluator, rules.Context{Payload: payload, Step: step.Name}, step.When)
			if err != nil {
				result.Skipped = append(result.Skipped, step.Name)
				result.Warnings = append(result.Warnings, err.Error())
				continue
			}
			if !ok {
				result.Skipped = append(result.Skipped, step.Name)
				continue
			}
		}
		if step.Apply == nil {
			continue
		}
		if err := step.Apply(payload); err != nil {
			return result, fmt.Errorf("%w: %s (v%d): %v", ErrMigration, step.Name, step.Version, err)
		}
		result.Applied = append(result.Applied, step.Name)
	}

	payload["schemaVersion"] = result.ToVersion
	return result, nil
}

// PayloadVersion reads schemaVersion from a decoded payload; 0 when absent.
func PayloadVersion(payload map[string]any) int {
	switch v := payload["schemaVersion"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func renameLandingSection(from, to string) func(map[string]any) error {
	return func(payload map[string]any) error {
		landing, ok := payload["landing"].(map[string]any)
		if !ok {
			return nil
		}
		sections, ok := landing["sections"].([]any)
		if !ok {
			return fmt.Errorf("landing.sections is %T", landing["sections"])
		}
		for i, id := range sections {
			if id == from {
				sections[i] = to
			}
		}
		return nil
	}
}

func setField(section, field, value string) func(map[string]any) error {
	return func(payload map[string]any) error {
		object, ok := payload[section].(map[string]any)
		if !ok {
			object = map[string]any{}
			payload[section] = object
		}
		object[field] = value
		return nil
	}
}
