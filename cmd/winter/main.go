package main

import (
	"os"

	"github.com/spf13/cobra"

	"winter/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "winter",
	Short: "Winter WiX installer linter",
	Long:  `Winter lints WiX Toolset authoring sources (.wxs, .wxi) with declarative rules`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress the summary line")
	rootCmd.PersistentFlags().String("config", "", "path to .winter.toml (default: discovered upward from cwd)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to show (0 = config default)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}
