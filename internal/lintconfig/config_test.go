package lintconfig

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"winter/internal/diag"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if !cfg.Engine.Parallel || !cfg.Engine.Cache {
		t.Error("parallel and cache should default on")
	}
	if cfg.Output.Format != "text" || cfg.Output.MaxDiagnostics != 100 {
		t.Errorf("output defaults: %+v", cfg.Output)
	}
	if cfg.MinSeverity() != diag.SevInfo {
		t.Errorf("min severity = %v", cfg.MinSeverity())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[engine]
parallel = false
jobs = 4

[output]
format = "json"
max_diagnostics = 10

[rules]
disabled = ["component-id-prefix"]
ignore = ["file-hardcoded-path"]
min_severity = "warning"

[rules.severity]
"package-requires-version" = "error"

[rules.per_file]
"legacy/**" = ["property-sensitive-name"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Engine.Parallel || cfg.Engine.Jobs != 4 {
		t.Errorf("engine: %+v", cfg.Engine)
	}
	if !cfg.Engine.Cache {
		t.Error("untouched keys should keep defaults")
	}
	if cfg.Output.Format != "json" || cfg.Output.MaxDiagnostics != 10 {
		t.Errorf("output: %+v", cfg.Output)
	}
	if !cfg.DisabledRules()["component-id-prefix"] {
		t.Error("disabled rule not recorded")
	}
	if !cfg.DisabledRules()["file-hardcoded-path"] {
		t.Error("ignore should act as disabled")
	}
	if cfg.MinSeverity() != diag.SevWarning {
		t.Errorf("min severity = %v", cfg.MinSeverity())
	}
	want := map[string]diag.Severity{"package-requires-version": diag.SevError}
	if !reflect.DeepEqual(cfg.SeverityOverrides(), want) {
		t.Errorf("overrides = %v", cfg.SeverityOverrides())
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[engine]\nthreads = 4\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "unknown keys") {
		t.Fatalf("want unknown-key error, got %v", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	for _, content := range []string{
		"[rules]\nmin_severity = \"loud\"\n",
		"[output]\nformat = \"xml\"\n",
		"[output]\ncolor = \"maybe\"\n",
		"[rules.severity]\n\"x\" = \"fatal\"\n",
	} {
		path := writeConfig(t, dir, content)
		if _, err := Load(path); err == nil {
			t.Errorf("config %q should not load", content)
		}
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[engine]\njobs = 2\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := Discover(nested)
	if err != nil {
		t.Fatal(err)
	}
	if path == "" || cfg.Engine.Jobs != 2 {
		t.Errorf("discover found %q, jobs=%d", path, cfg.Engine.Jobs)
	}
}

func TestDiscoverMissingUsesDefaults(t *testing.T) {
	cfg, path, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Errorf("unexpected config at %q", path)
	}
	if cfg.Output.Format != "text" {
		t.Error("defaults not applied")
	}
}

func TestIgnoresForFile(t *testing.T) {
	cfg := Default()
	cfg.Rules.PerFile = map[string][]string{
		"legacy/**":       {"property-sensitive-name"},
		"**/vendored.wxs": {"component-requires-guid", "file-hardcoded-path"},
	}

	if got := cfg.IgnoresForFile("legacy/setup.wxs"); len(got) != 1 || got[0] != "property-sensitive-name" {
		t.Errorf("legacy ignores = %v", got)
	}
	got := cfg.IgnoresForFile(filepath.Join("legacy", "deep", "vendored.wxs"))
	if len(got) != 3 {
		t.Errorf("stacked ignores = %v", got)
	}
	if cfg.IgnoresForFile("src/main.wxs") != nil {
		t.Error("unmatched file should have no ignores")
	}
}

func TestFindFiles(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"product.wxs":            "<Wix/>",
		"include/vars.wxi":       "<Include/>",
		"generated/out.wxs":      "<Wix/>",
		"docs/readme.md":         "x",
		"nested/deep/extra.wxs":  "<Wix/>",
		"nested/deep/extra.wixobj": "x",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := Default()
	got, err := cfg.FindFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	var rels []string
	for _, p := range got {
		rel, _ := filepath.Rel(root, p)
		rels = append(rels, filepath.ToSlash(rel))
	}
	want := []string{"include/vars.wxi", "nested/deep/extra.wxs", "product.wxs"}
	if !reflect.DeepEqual(rels, want) {
		t.Errorf("found %v, want %v", rels, want)
	}
}

func TestFindFilesPlainFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "x.wxs")
	if err := os.WriteFile(path, []byte("<Wix/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Default().FindFiles(path)
	if err != nil || len(got) != 1 || got[0] != path {
		t.Fatalf("got %v, %v", got, err)
	}
}
