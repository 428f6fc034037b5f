package cmd

import (
	"github.com/spf13/cobra"

	"github.com/strata-dev/strata/core"
	"github.com/strata-dev/strata/internal/contract"
)

// indexCmd lists the revisions present in the metrics index.
var indexCmd = &cobra.Command{
	Use:   "index [repo-path]",
	Short: "List the indexed revisions of a repository.",
	Long: `Show every revision that has been analyzed into the repository's index,
oldest first, with author, commit message, date and total lines of code.

The listing comes from the revision catalog when one is configured, and falls
back to the index file itself otherwise.

Examples:
  # Revisions indexed for the current repository
  strata index

  # Machine-readable listing
  strata index --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteListRevisions(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list revisions", err)
		}
	},
}
