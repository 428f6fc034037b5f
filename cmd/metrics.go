package cmd

import (
	"github.com/spf13/cobra"

	"github.com/strata-dev/strata/core"
	"github.com/strata-dev/strata/internal/contract"
)

// metricsCmd displays every registered operator and its metrics.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display all operators and the metrics they produce",
	Long: `Show every registered metric operator with the metrics it computes,
their storage types, how values roll up to directory and repository level,
and whether lower or higher values are better.

No repository analysis is performed - this is purely informational.

Examples:
  # Show the full metric catalog
  strata metrics

  # Metric catalog as JSON
  strata metrics --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteListMetrics(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
