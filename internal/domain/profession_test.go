package domain

import (
	"testing"

	"github.com/kapu/guild-jobs-bot/internal/assets"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	catalog, err := LoadCatalog(assets.ProfessionsYAML)
	if err != nil {
		t.Fatalf("load catalog failed: %v", err)
	}
	return catalog
}

func TestLoadCatalog_Embedded(t *testing.T) {
	catalog := loadTestCatalog(t)
	if len(catalog.All()) == 0 {
		t.Fatal("expected a non-empty catalog")
	}
	for _, p := range catalog.All() {
		if p.Key != Normalize(p.Name) {
			t.Errorf("profession %q key %q does not match normalized name", p.Name, p.Key)
		}
		if p.Emoji == "" {
			t.Errorf("profession %q has no emoji", p.Name)
		}
	}
}

func TestCatalog_LookupVariants(t *testing.T) {
	catalog := loadTestCatalog(t)

	for _, name := range []string{"bûcheron", "Bûcheron", "BUCHERON", "  bucheron "} {
		p, ok := catalog.Lookup(name)
		if !ok {
			t.Fatalf("Lookup(%q) failed", name)
		}
		if p.Key != "bucheron" {
			t.Errorf("Lookup(%q) resolved key %q, want bucheron", name, p.Key)
		}
	}

	if _, ok := catalog.Lookup("cartographe"); ok {
		t.Error("expected lookup of unknown profession to fail")
	}
}

func TestCatalog_Display(t *testing.T) {
	catalog := loadTestCatalog(t)

	if got := catalog.Display("BÛCHERON"); got != "🟢 Bûcheron" {
		t.Errorf("Display known = %q", got)
	}
	if got := catalog.Display("cartographe"); got != "🛠️ Cartographe" {
		t.Errorf("Display unknown = %q", got)
	}
}

func TestLoadCatalog_Errors(t *testing.T) {
	if _, err := LoadCatalog("professions: []"); err == nil {
		t.Error("expected error for empty catalog")
	}

	dup := `
professions:
  - name: bûcheron
    emoji: "🟢"
  - name: Bucheron
    emoji: "🟢"
`
	if _, err := LoadCatalog(dup); err == nil {
		t.Error("expected error for duplicate normalized key")
	}
}

func TestCapitalizeFrench(t *testing.T) {
	if got := CapitalizeFrench("bûcheron"); got != "Bûcheron" {
		t.Errorf("CapitalizeFrench = %q", got)
	}
}
