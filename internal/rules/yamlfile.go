package rules

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"winter/internal/diag"
)

// ruleFile is the on-disk YAML format for custom rule packs.
type ruleFile struct {
	Version int        `yaml:"version"`
	Plugin  string     `yaml:"plugin"`
	Rules   []ruleYAML `yaml:"rules"`
}

type ruleYAML struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Severity    string   `yaml:"severity"`
	Category    string   `yaml:"category"`
	Target      struct {
		Kind   string `yaml:"kind"`
		Name   string `yaml:"name"`
		Parent string `yaml:"parent"`
	} `yaml:"target"`
	Condition string   `yaml:"condition"`
	Message   string   `yaml:"message"`
	Help      string   `yaml:"help"`
	Tags      []string `yaml:"tags"`
	Fix       *struct {
		Action      string `yaml:"action"`
		Attribute   string `yaml:"attribute"`
		Value       string `yaml:"value"`
		Description string `yaml:"description"`
	} `yaml:"fix"`
	Enabled *bool `yaml:"enabled"`
}

// LoadFile reads a YAML rule pack. Unknown fields and duplicate IDs
// within the file are errors.
func LoadFile(path string) ([]*Rule, error) {
	// #nosec G304 -- path comes from config or the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}
	return parseRuleFile(path, data)
}

func parseRuleFile(path string, data []byte) ([]*Rule, error) {
	var rf ruleFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if rf.Version != 1 {
		return nil, fmt.Errorf("%s: unsupported rule file version %d", path, rf.Version)
	}

	seen := make(map[string]struct{}, len(rf.Rules))
	out := make([]*Rule, 0, len(rf.Rules))
	for i, ry := range rf.Rules {
		if ry.ID == "" {
			return nil, fmt.Errorf("%s: rule %d has no id", path, i)
		}
		if _, dup := seen[ry.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate rule id %q", path, ry.ID)
		}
		seen[ry.ID] = struct{}{}
		if ry.Condition == "" || ry.Message == "" {
			return nil, fmt.Errorf("%s: rule %q needs condition and message", path, ry.ID)
		}

		r := New(ry.ID, ry.Condition, ry.Message)
		r.Name = ry.Name
		r.Description = ry.Description
		r.Help = ry.Help
		r.Tags = ry.Tags
		r.Target = Target{Kind: ry.Target.Kind, Name: ry.Target.Name, Parent: ry.Target.Parent}
		if ry.Severity != "" {
			sev, err := diag.ParseSeverity(ry.Severity)
			if err != nil {
				return nil, fmt.Errorf("%s: rule %q: %w", path, ry.ID, err)
			}
			r.Severity = sev
		}
		if ry.Category != "" {
			r.Category = Category(ry.Category)
		}
		if ry.Fix != nil {
			r.Fix = &FixSuggestion{
				Action:      ry.Fix.Action,
				Attribute:   ry.Fix.Attribute,
				Value:       ry.Fix.Value,
				Description: ry.Fix.Description,
			}
		}
		if ry.Enabled != nil {
			r.Enabled = *ry.Enabled
		}
		out = append(out, r)
	}
	return out, nil
}
