package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strata-dev/strata/core"
	"github.com/strata-dev/strata/internal/contract"
)

// reportCmd shows the metric history of one path across indexed revisions.
var reportCmd = &cobra.Command{
	Use:   "report [repo-path]",
	Short: "Show how the metrics of a path changed across revisions.",
	Long: `Display the metric history of a file, directory or the repository root,
oldest revision first, with the change against the previous revision per cell.

Requires a populated index; run 'strata build' first.

Examples:
  # Full metric history of one file
  strata report --path src/app.py

  # Track line counts and maintainability of a package directory
  strata report --path src/core --metrics loc,mi

  # Repository-level trend as JSON
  strata report --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		path := viper.GetString("path")
		metrics := splitMetricNames(viper.GetString("metrics"))
		if err := core.ExecuteReport(rootCtx, cfg, path, metrics); err != nil {
			contract.LogFatal("Cannot build report", err)
		}
	},
}

// splitMetricNames parses a comma-separated metric list, dropping blanks.
func splitMetricNames(raw string) []string {
	var names []string
	for p := range strings.SplitSeq(raw, ",") {
		trimmed := strings.ToLower(strings.TrimSpace(p))
		if trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
