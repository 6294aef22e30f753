// Package lintconfig loads .winter.toml and answers the policy
// questions the engine and CLI ask: which files, which rules, which
// severities.
package lintconfig

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"winter/internal/diag"
)

// FileName is the config file discovered in or above the working
// directory.
const FileName = ".winter.toml"

type Config struct {
	Engine EngineConfig `toml:"engine"`
	Output OutputConfig `toml:"output"`
	Files  FilesConfig  `toml:"files"`
	Rules  RulesConfig  `toml:"rules"`
}

type EngineConfig struct {
	Parallel bool   `toml:"parallel"`
	Jobs     int    `toml:"jobs"`
	Cache    bool   `toml:"cache"`
	CacheDir string `toml:"cache_dir"`
}

type OutputConfig struct {
	Format         string `toml:"format"`
	Color          string `toml:"color"`
	ContextLines   int    `toml:"context_lines"`
	ShowTimings    bool   `toml:"show_timings"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

type FilesConfig struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

type RulesConfig struct {
	Disabled    []string `toml:"disabled"`
	Enabled     []string `toml:"enabled"`
	MinSeverity string   `toml:"min_severity"`
	// Ignore is honored as a synonym of Disabled.
	Ignore   []string            `toml:"ignore"`
	Extend   []string            `toml:"extend"`
	Severity map[string]string   `toml:"severity"`
	PerFile  map[string][]string `toml:"per_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{Parallel: true, Jobs: 0, Cache: true},
		Output: OutputConfig{
			Format:         "text",
			Color:          "auto",
			ContextLines:   2,
			MaxDiagnostics: 100,
		},
		Files: FilesConfig{
			Include: []string{"**/*.wxs", "**/*.wxi"},
			Exclude: []string{"**/generated/**", "**/node_modules/**", "**/target/**"},
		},
		Rules: RulesConfig{MinSeverity: "info"},
	}
}

// Load reads a config file over the defaults. Unknown keys are errors.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Discover walks from dir upward looking for FileName. Missing config
// is not an error; the defaults apply.
func Discover(dir string) (*Config, string, error) {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", err
	}
	for {
		candidate := filepath.Join(cur, FileName)
		if _, err := os.Stat(candidate); err == nil {
			cfg, err := Load(candidate)
			return cfg, candidate, err
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return Default(), "", nil
		}
		cur = parent
	}
}

func (c *Config) validate(path string) error {
	if _, err := diag.ParseSeverity(c.Rules.MinSeverity); err != nil {
		return fmt.Errorf("%s: rules.min_severity: %w", path, err)
	}
	for id, s := range c.Rules.Severity {
		if _, err := diag.ParseSeverity(s); err != nil {
			return fmt.Errorf("%s: rules.severity.%s: %w", path, id, err)
		}
	}
	switch c.Output.Format {
	case "text", "json", "github", "compact":
	default:
		return fmt.Errorf("%s: output.format: unknown format %q", path, c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("%s: output.color: want auto, on or off, got %q", path, c.Output.Color)
	}
	return nil
}

// MinSeverity returns the parsed threshold.
func (c *Config) MinSeverity() diag.Severity {
	s, err := diag.ParseSeverity(c.Rules.MinSeverity)
	if err != nil {
		return diag.SevInfo
	}
	return s
}

// SeverityOverrides returns the per-rule severity map.
func (c *Config) SeverityOverrides() map[string]diag.Severity {
	out := make(map[string]diag.Severity, len(c.Rules.Severity))
	for id, s := range c.Rules.Severity {
		if sev, err := diag.ParseSeverity(s); err == nil {
			out[id] = sev
		}
	}
	return out
}

// DisabledRules returns the globally disabled rule set.
func (c *Config) DisabledRules() map[string]bool {
	out := make(map[string]bool, len(c.Rules.Disabled)+len(c.Rules.Ignore))
	for _, id := range c.Rules.Disabled {
		out[id] = true
	}
	for _, id := range c.Rules.Ignore {
		out[id] = true
	}
	return out
}

// IgnoresForFile returns rule IDs suppressed for a path by per_file
// globs. Globs match against slash-normalized paths.
func (c *Config) IgnoresForFile(path string) []string {
	if len(c.Rules.PerFile) == 0 {
		return nil
	}
	norm := filepath.ToSlash(path)
	var out []string
	// sorted so overlapping globs produce a stable result
	globs := make([]string, 0, len(c.Rules.PerFile))
	for g := range c.Rules.PerFile {
		globs = append(globs, g)
	}
	sort.Strings(globs)
	for _, g := range globs {
		if ok, err := doublestar.Match(g, norm); err == nil && ok {
			out = append(out, c.Rules.PerFile[g]...)
		}
	}
	return out
}

// Excluded reports whether a path matches any exclude glob.
func (c *Config) Excluded(path string) bool {
	norm := filepath.ToSlash(path)
	for _, g := range c.Files.Exclude {
		if ok, err := doublestar.Match(g, norm); err == nil && ok {
			return true
		}
	}
	return false
}

// FindFiles expands a root directory (or passes through a plain file)
// into the lintable file list per the include and exclude globs.
func (c *Config) FindFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var out []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if c.Excluded(rel) {
			return nil
		}
		for _, g := range c.Files.Include {
			if ok, err := doublestar.Match(g, rel); err == nil && ok {
				out = append(out, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}
