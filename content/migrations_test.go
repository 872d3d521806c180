package content

import (
	"errors"
	"testing"

	"github.com/goliatone/go-overlay/rules"
	"github.com/google/go-cmp/cmp"
)

func TestLoadMigratesLegacyPayload(t *testing.T) {
	base := Base()
	raw := []byte(`{
		"schemaVersion": 1,
		"landing": {"sections": ["hero", "map", "services"]},
		"hero": {"title": "Air Condtioning Experts"},
		"navigation": [{"label": "Start", "href": "/"}]
	}`)

	doc, report, err := Load(base, raw)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	wantApplied := []string{"rename-map-section", "fix-hero-title-typo", "reset-navigation"}
	if diff := cmp.Diff(wantApplied, report.Migrations.Applied); diff != "" {
		t.Fatalf("applied migrations (-want +got):\n%s", diff)
	}
	if report.Migrations.FromVersion != 1 || report.Migrations.ToVersion != CurrentSchemaVersion {
		t.Fatalf("unexpected versions %+v", report.Migrations)
	}

	wantSections := []string{"hero", "warehouse", "services", "partnerships", "service-areas", "calendar"}
	if diff := cmp.Diff(wantSections, doc.Landing.Sections); diff != "" {
		t.Fatalf("landing sections (-want +got):\n%s", diff)
	}
	if doc.Hero.Title != "Air Conditioning Experts" {
		t.Fatalf("expected hero title fixed, got %q", doc.Hero.Title)
	}
	if diff := cmp.Diff(base.Navigation, doc.Navigation); diff != "" {
		t.Fatalf("expected base navigation (-want +got):\n%s", diff)
	}
}

func TestMigratorSkipsFalseGuardsButAdvancesVersion(t *testing.T) {
	payload := map[string]any{
		"hero":       map[string]any{"title": "Cool Homes"},
		"navigation": []any{map[string]any{"label": "Home", "href": "/"}},
	}

	result, err := NewMigrator().Run(payload)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Applied) != 0 {
		t.Fatalf("expected nothing applied, got %v", result.Applied)
	}
	if len(result.Skipped) != 3 {
		t.Fatalf("expected three skipped steps, got %v", result.Skipped)
	}
	if PayloadVersion(payload) != CurrentSchemaVersion {
		t.Fatalf("expected payload stamped with %d, got %v", CurrentSchemaVersion, payload["schemaVersion"])
	}
	if payload["hero"].(map[string]any)["title"] != "Cool Homes" {
		t.Fatalf("guarded step modified payload")
	}
}

func TestMigratorIgnoresStepsAtOrBelowPayloadVersion(t *testing.T) {
	payload := map[string]any{
		"schemaVersion": float64(3),
		"hero":          map[string]any{"title": "Air Condtioning Experts"},
	}

	result, err := NewMigrator().Run(payload)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.FromVersion != 3 || result.ToVersion != 4 {
		t.Fatalf("unexpected versions %+v", result)
	}
	if payload["hero"].(map[string]any)["title"] != "Air Condtioning Experts" {
		t.Fatalf("already-reached step ran again")
	}
}

func TestMigratorGuardErrorsBecomeWarnings(t *testing.T) {
	applied := false
	migrator := NewMigrator(WithSteps(Migration{
		Version: 2,
		Name:    "bad-guard",
		When:    `"not a bool"`,
		Apply: func(map[string]any) error {
			applied = true
			return nil
		},
	}))

	result, err := migrator.Run(map[string]any{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if applied {
		t.Fatalf("step with failing guard was applied")
	}
	if len(result.Warnings) != 1 || len(result.Skipped) != 1 {
		t.Fatalf("expected one warning and one skip, got %+v", result)
	}
}

func TestMigratorApplyErrorsAbort(t *testing.T) {
	migrator := NewMigrator(WithSteps(Migration{
		Version: 2,
		Name:    "explode",
		Apply: func(map[string]any) error {
			return errors.New("boom")
		},
	}))

	if _, err := migrator.Run(map[string]any{}); !errors.Is(err, ErrMigration) {
		t.Fatalf("expected ErrMigration, got %v", err)
	}

	base := Base()
	doc, _, err := Load(base, []byte(`{"hero":{"title":"x"}}`), WithMigrator(migrator))
	if !errors.Is(err, ErrCorruptOverlay) {
		t.Fatalf("expected ErrCorruptOverlay from Load, got %v", err)
	}
	if doc.Hero.Title != base.Hero.Title {
		t.Fatalf("expected base after failed migration")
	}
}

func legacyPayload() []byte {
	return []byte(`{
		"schemaVersion": 1,
		"landing": {"sections": ["hero", "map", "services"]},
		"hero": {"title": "Air Condtioning Experts"},
		"navigation": [{"label": "Start", "href": "/"}]
	}`)
}

func TestBuiltInMigrationsRunOnEveryEngine(t *testing.T) {
	for _, engine := range guardEngines() {
		t.Run(engine, func(t *testing.T) {
			evaluator, err := NewGuardEvaluator(engine)
			if err != nil {
				t.Fatalf("evaluator: %v", err)
			}
			if rules.EngineName(evaluator) != engine {
				t.Fatalf("expected %s evaluator, got %s", engine, rules.EngineName(evaluator))
			}

			doc, report, err := Load(Base(), legacyPayload(), WithMigrator(NewMigrator(WithEvaluator(evaluator))))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			wantApplied := []string{"rename-map-section", "fix-hero-title-typo", "reset-navigation"}
			if diff := cmp.Diff(wantApplied, report.Migrations.Applied); diff != "" {
				t.Fatalf("applied migrations (-want +got):\n%s", diff)
			}
			if len(report.Migrations.Warnings) != 0 {
				t.Fatalf("unexpected warnings %v", report.Migrations.Warnings)
			}
			if doc.Hero.Title != "Air Conditioning Experts" {
				t.Fatalf("expected hero title fixed, got %q", doc.Hero.Title)
			}

			current := map[string]any{
				"landing":    map[string]any{"sections": []any{"hero"}},
				"navigation": []any{map[string]any{"label": "Home"}},
			}
			result, err := NewMigrator(WithEvaluator(evaluator)).Run(current)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if len(result.Applied) != 0 || len(result.Warnings) != 0 {
				t.Fatalf("expected every guard false, got %+v", result)
			}
		})
	}
}

func TestGuardFunctions(t *testing.T) {
	payload := map[string]any{
		"landing":    map[string]any{"sections": []any{"hero", "map"}},
		"navigation": []any{map[string]any{"label": "Start"}},
	}

	cases := []struct {
		name string
		fn   rules.Function
		args []any
		want any
	}{
		{"section listed", hasSection, []any{payload, "map"}, true},
		{"section missing", hasSection, []any{payload, "warehouse"}, false},
		{"text in list", textAt, []any{payload, "navigation.0.label"}, "Start"},
		{"text out of range", textAt, []any{payload, "navigation.4.label"}, ""},
		{"text on non string", textAt, []any{payload, "landing"}, ""},
		{"length of list", lengthOf, []any{payload, "landing.sections"}, 2},
		{"length missing", lengthOf, []any{payload, "carousel.slides"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.fn(tc.args...)
			if err != nil {
				t.Fatalf("call: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}

	if _, err := textAt("hero.title"); err == nil {
		t.Fatalf("expected arity error")
	}
	if _, err := textAt("not a payload", "hero.title"); err == nil {
		t.Fatalf("expected payload type error")
	}
}

func TestUnknownGuardEngine(t *testing.T) {
	if _, err := NewGuardEvaluator("lua"); !errors.Is(err, rules.ErrUnknownEngine) {
		t.Fatalf("expected ErrUnknownEngine, got %v", err)
	}
}

func TestMigratorStepsAreOrdered(t *testing.T) {
	migrator := NewMigrator(WithSteps(
		Migration{Version: 3, Name: "c"},
		Migration{Version: 2, Name: "b"},
	))
	steps := migrator.Steps()
	if steps[0].Name != "b" || steps[1].Name != "c" {
		t.Fatalf("unexpected order %v", steps)
	}
}
