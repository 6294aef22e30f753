package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"winter/internal/lintconfig"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Create a starter .winter.toml",
	Long: `Write a commented starter configuration to .winter.toml. If [path] is
omitted, the current directory is used. Refuses to overwrite an
existing configuration.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

const starterConfig = `# winter configuration

[engine]
parallel = true
# jobs = 0           # 0 = number of CPUs
cache = true

[output]
format = "text"       # text | json | github | compact
color = "auto"        # auto | on | off
context_lines = 2
max_diagnostics = 100

[files]
include = ["**/*.wxs", "**/*.wxi"]
exclude = ["**/generated/**", "**/node_modules/**", "**/target/**"]

[rules]
# disabled = ["component-id-prefix"]
min_severity = "info"

# [rules.severity]
# "package-requires-version" = "error"

# [rules.per_file]
# "legacy/**" = ["property-sensitive-name"]
`

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	if st, err := os.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %q: %w", target, err)
			}
		} else {
			return err
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	path := filepath.Join(target, lintconfig.FileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("already configured: %s exists", path)
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	return nil
}
