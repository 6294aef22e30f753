package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"winter/internal/engine"
	"winter/internal/fixer"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [path ...]",
	Short: "Apply suggested fixes to WiX sources",
	Long: `Run the linter and rewrite files with the suggested fixes. By default
only safe fixes are applied; --unsafe also applies fixes that need
review afterwards.`,
	Args: cobra.ArbitraryArgs,
	RunE: runFix,
}

func init() {
	fixCmd.Flags().Bool("unsafe", false, "also apply fixes that need human review")
	fixCmd.Flags().Bool("dry-run", false, "report what would change without writing")
}

func runFix(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, err := buildRegistry(newPlugin(), cfg, nil)
	if err != nil {
		return err
	}
	files, err := discoverFiles(cfg, args)
	if err != nil {
		return err
	}

	// cross-file diagnostics carry no fixes, skip the pass
	opts := engineOptions(cfg, cfg.MinSeverity())
	opts.CrossFile = false
	eng := engine.New(newPlugin(), reg, opts)
	res, err := eng.Run(cmd.Context(), files)
	if err != nil {
		return err
	}

	unsafeFixes, _ := cmd.Flags().GetBool("unsafe")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	applied, err := fixer.Apply(res.Diagnostics, fixer.ApplyOptions{
		Unsafe: unsafeFixes,
		DryRun: dryRun,
	})
	if err != nil {
		if errors.Is(err, fixer.ErrNoFixes) {
			fmt.Fprintln(cmd.OutOrStdout(), "no applicable fixes found")
			return nil
		}
		return err
	}

	out := cmd.OutOrStdout()
	for _, fix := range applied.Applied {
		fmt.Fprintf(out, "fixed %s:%d: %s (%s)\n", fix.Path, fix.Line, fix.Description, fix.RuleID)
	}
	for _, skip := range applied.Skipped {
		fmt.Fprintf(out, "skipped %s:%d: %s (%s)\n", skip.Path, skip.Line, skip.Reason, skip.RuleID)
	}
	verb := "changed"
	if applied.DryRun {
		verb = "would change"
	}
	for _, change := range applied.FileChanges {
		fmt.Fprintf(out, "%s %s (%d edits)\n", verb, change.Path, change.EditCount)
	}

	if !dryRun && unsafeFixes && len(applied.Applied) > 0 {
		fmt.Fprintln(os.Stderr, "review the unsafe edits before committing")
	}
	return nil
}
