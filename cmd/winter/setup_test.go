package main

import (
	"os"
	"path/filepath"
	"testing"

	"winter/internal/lintconfig"
)

func TestDiscoverFilesDeduplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wxs")
	if err := os.WriteFile(path, []byte("<Wix/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := lintconfig.Default()
	got, err := discoverFiles(cfg, []string{dir, path})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %v, want one entry", got)
	}
}

func TestBuildRegistryAppliesConfig(t *testing.T) {
	cfg := lintconfig.Default()
	cfg.Rules.Disabled = []string{"component-id-prefix"}

	reg, err := buildRegistry(newPlugin(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	r, ok := reg.Get("component-id-prefix")
	if !ok {
		t.Fatal("builtin rule missing")
	}
	if r.Enabled {
		t.Error("disabled rule still enabled")
	}
	if r2, ok := reg.Get("component-requires-guid"); !ok || !r2.Enabled {
		t.Error("other builtins should stay enabled")
	}
}

func TestBuildRegistryLoadsExtraRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "team.yaml")
	content := `version: 1
rules:
  - id: team-component-naming
    target:
      kind: Component
    condition: "!/^App/.test(attributes.Id)"
    message: "Component '{name}' should start with App"
    severity: info
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := buildRegistry(newPlugin(), lintconfig.Default(), []string{path})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := reg.Get("team-component-naming"); !ok {
		t.Error("extra rule not registered")
	}
}
