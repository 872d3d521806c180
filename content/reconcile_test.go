package content

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func strPtr(s string) *string { return &s }

func contactBase() Document {
	doc := Base()
	doc.Contact.Badge = "Call Now"
	doc.Contact.Phone = "111"
	return doc
}

func TestReconcileIsIdempotentOnBase(t *testing.T) {
	base := Base()

	got := Reconcile(base, PatchOf(base))
	if diff := cmp.Diff(base, got); diff != "" {
		t.Fatalf("reconcile(base, base) changed the document (-want +got):\n%s", diff)
	}
}

func TestReconcileEmptyPatchYieldsBase(t *testing.T) {
	base := Base()

	got := Reconcile(base, Patch{})
	if diff := cmp.Diff(base, got); diff != "" {
		t.Fatalf("unexpected diff (-want +got):\n%s", diff)
	}
}

func TestReconcileOverridesAndBackfills(t *testing.T) {
	base := contactBase()

	got := Reconcile(base, Patch{Contact: &ContactPatch{Phone: strPtr("222")}})
	if got.Contact.Phone != "222" {
		t.Fatalf("expected persisted phone, got %q", got.Contact.Phone)
	}
	if got.Contact.Badge != "Call Now" {
		t.Fatalf("expected badge backfilled from base, got %q", got.Contact.Badge)
	}
	if diff := cmp.Diff(base.Contact.Calendar, got.Contact.Calendar); diff != "" {
		t.Fatalf("expected calendar backfilled (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(base.Hero, got.Hero); diff != "" {
		t.Fatalf("expected untouched section to equal base (-want +got):\n%s", diff)
	}
}

func TestReconcileKeepsExplicitEmptyStrings(t *testing.T) {
	base := Base()

	got := Reconcile(base, Patch{Hero: &HeroPatch{Badge: strPtr("")}})
	if got.Hero.Badge != "" {
		t.Fatalf("expected explicit empty badge, got %q", got.Hero.Badge)
	}
}

func TestReconcileReplacesListsWholesale(t *testing.T) {
	base := Base()
	nav := []Link{{Label: "Home", Href: "/"}}

	got := Reconcile(base, Patch{
		Navigation: nav,
		Services:   &ServicesPatch{Items: []Service{}},
		ServiceAreas: &ServiceAreasPatch{
			Areas: []string{"Hilo"},
		},
	})

	if diff := cmp.Diff(nav, got.Navigation); diff != "" {
		t.Fatalf("navigation not replaced (-want +got):\n%s", diff)
	}
	if got.Services.Items == nil || len(got.Services.Items) != 0 {
		t.Fatalf("expected empty persisted items to replace base, got %#v", got.Services.Items)
	}
	if got.Services.Title != base.Services.Title {
		t.Fatalf("expected services title backfilled, got %q", got.Services.Title)
	}
	if diff := cmp.Diff([]string{"Hilo"}, got.ServiceAreas.Areas); diff != "" {
		t.Fatalf("areas not replaced (-want +got):\n%s", diff)
	}
}

func TestReconcilePrunesSectionLists(t *testing.T) {
	base := Base()

	cases := []struct {
		name    string
		landing []string
		want    []string
	}{
		{
			name:    "reorder kept and missing appended",
			landing: []string{"calendar", "hero"},
			want:    []string{"calendar", "hero", "services", "partnerships", "service-areas", "warehouse"},
		},
		{
			name:    "unknown ids and duplicates dropped",
			landing: []string{"hero", "bogus", "hero", "services"},
			want:    []string{"hero", "services", "partnerships", "service-areas", "warehouse", "calendar"},
		},
		{
			name:    "empty list restores base order",
			landing: []string{},
			want:    base.Landing.Sections,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Reconcile(base, Patch{Landing: &LandingPatch{Sections: tc.landing}})
			if diff := cmp.Diff(tc.want, got.Landing.Sections); diff != "" {
				t.Fatalf("landing sections (-want +got):\n%s", diff)
			}
		})
	}

	shop := Reconcile(base, Patch{Shop: &ShopPatch{Sections: []string{"faq", "legacy-banner"}}})
	want := []string{"faq", "featured", "catalog", "financing"}
	if diff := cmp.Diff(want, shop.Shop.Sections); diff != "" {
		t.Fatalf("shop sections (-want +got):\n%s", diff)
	}
}

func TestReconcileUsesBaseSchemaVersion(t *testing.T) {
	base := Base()
	old := 1

	got := Reconcile(base, Patch{SchemaVersion: &old})
	if got.SchemaVersion != base.SchemaVersion {
		t.Fatalf("expected schema version %d, got %d", base.SchemaVersion, got.SchemaVersion)
	}
}

func TestReconcileDoesNotAliasInputs(t *testing.T) {
	base := Base()
	nav := []Link{{Label: "Home", Href: "/"}}

	got := Reconcile(base, Patch{Navigation: nav})
	got.Navigation[0].Label = "changed"
	got.Landing.Sections[0] = "changed"

	if nav[0].Label != "Home" {
		t.Fatalf("persisted overlay mutated through result")
	}
	if base.Landing.Sections[0] != "hero" {
		t.Fatalf("base mutated through result")
	}
}
