package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"winter/internal/diag"
	"winter/internal/engine"
	"winter/internal/lintconfig"
	"winter/internal/output"
	"winter/internal/plugin"
	"winter/internal/rules"
	"winter/internal/wixplug"
)

// loadConfig honors --config; without it the config is discovered
// upward from the working directory.
func loadConfig(cmd *cobra.Command) (*lintconfig.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	if path != "" {
		return lintconfig.Load(path)
	}
	cfg, _, err := lintconfig.Discover(".")
	return cfg, err
}

// buildRegistry combines the plugin's built-in rules, extra rule files
// from --rules and config, and the enable/disable lists.
func buildRegistry(p plugin.Plugin, cfg *lintconfig.Config, extraRuleFiles []string) (*rules.Registry, error) {
	reg := rules.NewRegistry()
	for _, r := range p.Rules() {
		if err := reg.Add(r); err != nil {
			return nil, err
		}
	}

	files := append(append([]string(nil), cfg.Rules.Extend...), extraRuleFiles...)
	for _, path := range files {
		loaded, err := p.LoadRules(path)
		if err != nil {
			return nil, fmt.Errorf("load rules from %s: %w", path, err)
		}
		for _, r := range loaded {
			if err := reg.Add(r); err != nil {
				return nil, fmt.Errorf("load rules from %s: %w", path, err)
			}
		}
	}

	for _, id := range cfg.Rules.Disabled {
		reg.SetEnabled(id, false)
	}
	for _, id := range cfg.Rules.Enabled {
		reg.SetEnabled(id, true)
	}
	return reg, nil
}

// discoverFiles expands the positional args through the include and
// exclude globs. No args means the current directory.
func discoverFiles(cfg *lintconfig.Config, args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	seen := make(map[string]bool)
	var out []string
	for _, arg := range args {
		found, err := cfg.FindFiles(arg)
		if err != nil {
			return nil, err
		}
		for _, path := range found {
			if !seen[path] {
				seen[path] = true
				out = append(out, path)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func engineOptions(cfg *lintconfig.Config, minSeverity diag.Severity) engine.Options {
	return engine.Options{
		Parallel:         cfg.Engine.Parallel,
		Jobs:             cfg.Engine.Jobs,
		ContextLines:     cfg.Output.ContextLines,
		MinSeverity:      minSeverity,
		SeverityOverride: cfg.SeverityOverrides(),
		Disabled:         cfg.DisabledRules(),
		FileIgnores:      cfg.IgnoresForFile,
		CrossFile:        true,
	}
}

// outputOptions folds root flags over the config's output section.
func outputOptions(cmd *cobra.Command, cfg *lintconfig.Config) (output.Options, error) {
	root := cmd.Root().PersistentFlags()
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return output.Options{}, err
	}
	maxDiags, err := root.GetInt("max-diagnostics")
	if err != nil {
		return output.Options{}, err
	}
	if maxDiags <= 0 {
		maxDiags = cfg.Output.MaxDiagnostics
	}
	colorMode, err := root.GetString("color")
	if err != nil {
		return output.Options{}, err
	}
	if colorMode == "" {
		colorMode = cfg.Output.Color
	}
	output.SetColorMode(colorMode)

	return output.Options{
		MaxCount:    maxDiags,
		ShowTimings: cfg.Output.ShowTimings,
		Quiet:       quiet,
	}, nil
}

func newPlugin() plugin.Plugin { return wixplug.New() }
