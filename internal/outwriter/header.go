package outwriter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/strata-dev/strata/internal/contract"
	"github.com/strata-dev/strata/schema"
)

// LogBuildHeader prints a concise, 2-line header before an index build.
func LogBuildHeader(cfg *contract.Config) {
	repoName := filepath.Base(cfg.RepoPath)
	if repoName == "" || repoName == "." {
		repoName = "current"
	}

	// Line 1: The build summary (Repo and operator set)
	fmt.Printf("🔎 Repo: %s (Operators: %s)\n", repoName, strings.Join(cfg.Operators, ", "))

	// Line 2: How far back the history walk goes
	fmt.Printf("📅 History: up to %d revisions, %d workers\n", cfg.MaxRevisions, cfg.Workers)
}

// PrintBuildStats summarizes a finished build run.
func PrintBuildStats(stats schema.BuildStats, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, stats)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeBuildStatsText(w, stats, cfg, duration)
	}, "Wrote text")
}

// writeBuildStatsText writes the summary as plain text.
func writeBuildStatsText(w io.Writer, stats schema.BuildStats, cfg *contract.Config, duration time.Duration) error {
	if _, err := fmt.Fprintf(w, "Indexed %d revisions (%d already present), %d files analyzed, %d rows stored\n",
		stats.RevisionsIndexed, stats.RevisionsSkipped, stats.FilesAnalyzed, stats.RowsWritten); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Build completed in %v with %d workers. Catalog backend: %s\n",
		duration, cfg.Workers, cfg.CatalogBackend)
	return err
}
