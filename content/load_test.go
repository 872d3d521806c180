package content

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadEmptyPayloadYieldsBase(t *testing.T) {
	base := Base()

	for _, raw := range [][]byte{nil, []byte(""), []byte("  \n")} {
		got, report, err := Load(base, raw)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if !report.UsedBase {
			t.Fatalf("expected report to flag base usage")
		}
		if diff := cmp.Diff(base, got); diff != "" {
			t.Fatalf("unexpected diff (-want +got):\n%s", diff)
		}
	}
}

func TestLoadCorruptPayloadFallsBackToBase(t *testing.T) {
	base := Base()

	cases := map[string]string{
		"garbage": `{not json`,
		"array":   `[1,2,3]`,
		"string":  `"oops"`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			got, report, err := Load(base, []byte(raw), WithKey("site/content"))
			if !errors.Is(err, ErrCorruptOverlay) {
				t.Fatalf("expected ErrCorruptOverlay, got %v", err)
			}
			if !report.UsedBase || report.Key != "site/content" {
				t.Fatalf("unexpected report %+v", report)
			}
			if diff := cmp.Diff(base, got); diff != "" {
				t.Fatalf("expected base (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadBackfillsOnlyTheWrongTypedSection(t *testing.T) {
	base := contactBase()

	doc, report, err := Load(base, []byte(`{"contact":{"phone":"222"},"hero":{"title":42}}`), WithKey("site/content"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if report.UsedBase {
		t.Fatalf("expected the overlay to be used, got %+v", report)
	}
	if doc.Contact.Phone != "222" {
		t.Fatalf("expected phone 222 to survive, got %q", doc.Contact.Phone)
	}
	if diff := cmp.Diff(base.Hero, doc.Hero); diff != "" {
		t.Fatalf("expected base hero (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"hero"}, report.Dropped); diff != "" {
		t.Fatalf("unexpected dropped sections (-want +got):\n%s", diff)
	}
	if len(report.Warnings) != 1 || !strings.Contains(report.Warnings[0], `"hero"`) {
		t.Fatalf("expected one hero warning, got %v", report.Warnings)
	}
}

func TestLoadWrongTypedSectionOnly(t *testing.T) {
	base := Base()

	got, report, err := Load(base, []byte(`{"contact":"oops"}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"contact"}, report.Dropped); diff != "" {
		t.Fatalf("unexpected dropped sections (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(base.Contact, got.Contact); diff != "" {
		t.Fatalf("expected base contact (-want +got):\n%s", diff)
	}
}

func TestLoadRoundTripsEncodedDocument(t *testing.T) {
	base := Base()
	edited, err := SetPath(base, "hero.title", "Cool Homes")
	if err != nil {
		t.Fatalf("set path: %v", err)
	}
	raw, err := Encode(edited)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got, report, err := Load(base, raw)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(report.Migrations.Applied) != 0 {
		t.Fatalf("expected no migrations for a current payload, got %v", report.Migrations.Applied)
	}
	if diff := cmp.Diff(edited, got); diff != "" {
		t.Fatalf("round trip changed the document (-want +got):\n%s", diff)
	}
}

func TestLoadContactScenario(t *testing.T) {
	base := contactBase()

	doc, _, err := Load(base, []byte(`{"contact":{"phone":"222"}}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Contact.Badge != "Call Now" || doc.Contact.Phone != "222" {
		t.Fatalf("unexpected contact %+v", doc.Contact)
	}

	edited, err := SetPath(doc, "contact.badge", "Call Today")
	if err != nil {
		t.Fatalf("set path: %v", err)
	}
	if edited.Contact.Badge != "Call Today" || edited.Contact.Phone != "222" {
		t.Fatalf("unexpected edited contact %+v", edited.Contact)
	}
	if doc.Contact.Badge != "Call Now" {
		t.Fatalf("set path mutated its input")
	}

	raw, err := Encode(edited)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	reloaded, _, err := Load(base, raw)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if diff := cmp.Diff(edited, reloaded); diff != "" {
		t.Fatalf("reload differs (-want +got):\n%s", diff)
	}
}

func TestLoadNullFieldsAreBackfilled(t *testing.T) {
	base := contactBase()

	doc, _, err := Load(base, []byte(`{"contact":{"badge":null,"phone":"222"},"navigation":null}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Contact.Badge != "Call Now" {
		t.Fatalf("expected null badge backfilled, got %q", doc.Contact.Badge)
	}
	if diff := cmp.Diff(base.Navigation, doc.Navigation); diff != "" {
		t.Fatalf("expected base navigation (-want +got):\n%s", diff)
	}
}

func TestLoadDropsUnknownKeys(t *testing.T) {
	base := Base()

	doc, _, err := Load(base, []byte(`{"hero":{"title":"Hi","legacyBanner":"x"},"promo":{"on":true}}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	raw, _ := Encode(doc)
	if strings.Contains(string(raw), "legacyBanner") || strings.Contains(string(raw), "promo") {
		t.Fatalf("unknown keys survived: %s", raw)
	}
	if doc.Hero.Title != "Hi" {
		t.Fatalf("expected hero title Hi, got %q", doc.Hero.Title)
	}
}
