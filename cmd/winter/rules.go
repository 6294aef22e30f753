package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the active rules",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().Bool("json", false, "machine-readable output")
	rulesCmd.Flags().StringArray("rules", nil, "extra rule file (YAML), repeatable")
}

type ruleInfo struct {
	ID       string `json:"id"`
	Severity string `json:"severity"`
	Category string `json:"category,omitempty"`
	Target   string `json:"target,omitempty"`
	Message  string `json:"message"`
	Enabled  bool   `json:"enabled"`
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	extraRules, err := cmd.Flags().GetStringArray("rules")
	if err != nil {
		return err
	}
	reg, err := buildRegistry(newPlugin(), cfg, extraRules)
	if err != nil {
		return err
	}

	infos := make([]ruleInfo, 0, reg.Len())
	for _, r := range reg.All() {
		infos = append(infos, ruleInfo{
			ID:       r.ID,
			Severity: r.Severity.String(),
			Category: string(r.Category),
			Target:   r.Target.Kind,
			Message:  r.Message,
			Enabled:  r.Enabled,
		})
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	for _, info := range infos {
		state := " "
		if !info.Enabled {
			state = "off"
		}
		target := info.Target
		if target == "" {
			target = "*"
		}
		fmt.Fprintf(out, "%-40s %-8s %-12s %-16s %s\n",
			info.ID, info.Severity, info.Category, target, state)
	}
	fmt.Fprintf(out, "\n%d rules\n", len(infos))
	return nil
}
