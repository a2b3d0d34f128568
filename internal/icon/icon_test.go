// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package icon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/slidegen/pkg/types"
)

func TestBuiltinCatalogLoads(t *testing.T) {
	r, err := NewRegistry(types.IconsConfig{})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if r.Len() == 0 {
		t.Fatal("built-in catalog is empty")
	}

	markup, ok := r.Resolve("rocket")
	if !ok || markup == "" {
		t.Errorf("rocket = %q, %v", markup, ok)
	}
}

func TestResolveAlias(t *testing.T) {
	r, err := NewRegistry(types.IconsConfig{})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	direct, _ := r.Resolve("lightbulb")
	viaAlias, ok := r.Resolve("idea")
	if !ok {
		t.Fatal("alias idea not resolved")
	}
	if viaAlias != direct {
		t.Errorf("alias markup %q != canonical %q", viaAlias, direct)
	}
}

func TestResolveUnknown(t *testing.T) {
	r, err := NewRegistry(types.IconsConfig{})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if _, ok := r.Resolve("no-such-icon"); ok {
		t.Error("unknown icon resolved")
	}
}

func TestUserCatalogOverridesAndExtends(t *testing.T) {
	catalog := `icons:
  rocket: "OVERRIDDEN"
  custom-logo: "<img src='logo.svg'>"
aliases:
  logo: custom-logo
`
	path := filepath.Join(t.TempDir(), "icons.yaml")
	if err := os.WriteFile(path, []byte(catalog), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewRegistry(types.IconsConfig{CatalogPath: path})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	if markup, _ := r.Resolve("rocket"); markup != "OVERRIDDEN" {
		t.Errorf("rocket = %q, want override", markup)
	}
	if markup, ok := r.Resolve("logo"); !ok || markup != "<img src='logo.svg'>" {
		t.Errorf("logo = %q, %v", markup, ok)
	}
	// Untouched built-ins survive the overlay.
	if _, ok := r.Resolve("check"); !ok {
		t.Error("built-in check lost after overlay")
	}
}

func TestMissingCatalogFileIsError(t *testing.T) {
	_, err := NewRegistry(types.IconsConfig{CatalogPath: filepath.Join(t.TempDir(), "absent.yaml")})
	if err == nil {
		t.Fatal("expected error for missing catalog file")
	}
}

func TestMalformedCatalogFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("icons: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewRegistry(types.IconsConfig{CatalogPath: path}); err == nil {
		t.Fatal("expected error for malformed catalog file")
	}
}
