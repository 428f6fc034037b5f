package cmd

import (
	"github.com/spf13/cobra"

	"github.com/strata-dev/strata/core"
	"github.com/strata-dev/strata/internal/contract"
)

// buildCmd walks the revision history and fills the metrics index.
var buildCmd = &cobra.Command{
	Use:   "build [repo-path]",
	Short: "Analyze the revision history and fill the metrics index.",
	Long: `Walk the Git history of a repository, compute complexity metrics for every
Python file at every revision, and store the results in a per-repository index.

Each revision is checked out, analyzed with the active operator set, and rolled
up to directory and repository level. Revisions already in the index are skipped,
so repeated builds are incremental. The working tree is restored to the original
branch when the build finishes.

The build refuses to run on a dirty working tree; commit or stash first.

Examples:
  # Index the last 50 revisions of the current repository
  strata build

  # Index a specific repository with a deeper history
  strata build ~/code/myproject --max-revisions 200

  # Only collect line counts and cyclomatic complexity
  strata build --operators raw,cyclomatic`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBuild(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot build index", err)
		}
	},
}
