package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strata-dev/strata/core"
	"github.com/strata-dev/strata/internal/contract"
)

// rankCmd ranks files by a single metric at one revision.
var rankCmd = &cobra.Command{
	Use:   "rank [repo-path]",
	Short: "Rank files by a metric at one revision, worst first.",
	Long: `Order every indexed file of a revision by a single metric, worst value
first according to the metric's trend. Lower-is-better metrics like cyclomatic
complexity rank the highest value first; higher-is-better metrics like the
maintainability index rank the lowest value first.

Requires a populated index; run 'strata build' first.

Examples:
  # Least maintainable files at the newest indexed revision
  strata rank

  # Most complex files at a specific revision
  strata rank --metric complexity --revision 3b5a2c

  # Export the worst offenders as CSV
  strata rank --metric mi --output csv --output-file worst.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		revision := viper.GetString("revision")
		metric := viper.GetString("metric")
		if err := core.ExecuteRank(rootCtx, cfg, revision, metric); err != nil {
			contract.LogFatal("Cannot rank files", err)
		}
	},
}
