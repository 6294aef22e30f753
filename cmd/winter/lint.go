package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"winter/internal/cache"
	"winter/internal/diag"
	"winter/internal/engine"
	"winter/internal/lintconfig"
	"winter/internal/output"
	"winter/internal/watch"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] [path ...]",
	Short: "Lint WiX sources",
	Long: `Lint WiX authoring sources. Paths may be files or directories;
directories are expanded through the configured include and exclude
globs. Without paths the current directory is linted.

Exit code is 2 when errors were found, 1 with warnings only, 0 otherwise.`,
	Args: cobra.ArbitraryArgs,
	RunE: runLint,
}

func init() {
	lintCmd.Flags().String("format", "", "output format (text|json|github|compact)")
	lintCmd.Flags().Int("jobs", 0, "number of parallel workers (0 = number of CPUs)")
	lintCmd.Flags().Bool("sequential", false, "lint files one at a time")
	lintCmd.Flags().String("min-severity", "", "drop diagnostics below this severity (info|warning|error)")
	lintCmd.Flags().Bool("timings", false, "show per-rule evaluation timings")
	lintCmd.Flags().Bool("no-cache", false, "disable the per-file result cache")
	lintCmd.Flags().Bool("watch", false, "re-lint on file changes")
	lintCmd.Flags().StringArray("rules", nil, "extra rule file (YAML), repeatable")
}

func runLint(cmd *cobra.Command, args []string) error {
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

	minSev := cfg.MinSeverity()
	if s, _ := cmd.Flags().GetString("min-severity"); s != "" {
		minSev, err = diag.ParseSeverity(s)
		if err != nil {
			return err
		}
	}

	opts := engineOptions(cfg, minSev)
	if seq, _ := cmd.Flags().GetBool("sequential"); seq {
		opts.Parallel = false
	}
	if jobs, _ := cmd.Flags().GetInt("jobs"); jobs > 0 {
		opts.Jobs = jobs
	}
	noCache, _ := cmd.Flags().GetBool("no-cache")
	if cfg.Engine.Cache && !noCache {
		c, err := cache.Open(cfg.Engine.CacheDir, cache.RulesHash(reg.All()))
		if err == nil {
			opts.Cache = c
		}
	}

	outOpts, err := outputOptions(cmd, cfg)
	if err != nil {
		return err
	}
	if timings, _ := cmd.Flags().GetBool("timings"); timings {
		outOpts.ShowTimings = true
	}
	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = cfg.Output.Format
	}
	renderer, err := output.New(format, outOpts)
	if err != nil {
		return err
	}

	eng := engine.New(newPlugin(), reg, opts)

	runOnce := func(ctx context.Context) (int, error) {
		files, err := discoverFiles(cfg, args)
		if err != nil {
			return 2, err
		}
		res, err := eng.Run(ctx, files)
		if err != nil {
			return 2, err
		}
		if err := renderer.Render(cmd.OutOrStdout(), res); err != nil {
			return 2, err
		}
		return res.ExitCode(), nil
	}

	if watchMode, _ := cmd.Flags().GetBool("watch"); watchMode {
		return runWatch(cmd, cfg, runOnce)
	}

	code, err := runOnce(cmd.Context())
	if err != nil {
		return err
	}
	os.Exit(code)
	return nil
}

// runWatch lints once, then re-lints on changes until interrupted.
func runWatch(cmd *cobra.Command, cfg *lintconfig.Config, runOnce func(context.Context) (int, error)) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := runOnce(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}

	handles := func(path string) bool {
		if cfg.Excluded(path) {
			return false
		}
		lower := strings.ToLower(path)
		for _, ext := range newPlugin().Extensions() {
			if strings.HasSuffix(lower, ext) {
				return true
			}
		}
		return false
	}
	w, err := watch.New(watch.DefaultDebounce, handles, func([]string) {
		if _, err := runOnce(ctx); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	})
	if err != nil {
		return err
	}
	roots := cmd.Flags().Args()
	if len(roots) == 0 {
		roots = []string{"."}
	}
	for _, root := range roots {
		if err := w.AddRoot(root); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "watching for changes, press Ctrl-C to stop")
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
