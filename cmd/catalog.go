package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/strata-dev/strata/internal/catalog"
	"github.com/strata-dev/strata/internal/contract"
	"github.com/strata-dev/strata/schema"
)

// catalogSetup loads minimal configuration needed for catalog operations.
// This is used by commands that need catalog access without full shared setup.
func catalogSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get catalog-related config values
	backend := schema.CatalogBackend(viper.GetString("catalog-backend"))
	connStr := viper.GetString("catalog-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CatalogBackend = backend
	cfg.CatalogDBConnect = connStr

	return nil
}

// catalogSetupWrapper wraps catalogSetup to provide PreRunE for catalog commands.
func catalogSetupWrapper(_ *cobra.Command, _ []string) error {
	return catalogSetup()
}

// catalogCmd focused on revision catalog management.
//
// Note: Catalog subcommands use minimal initialization (catalogSetup) instead of
// the full sharedSetup used by index commands. This avoids Git repo validation
// and complex config processing for simple catalog operations.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the cross-repository revision catalog",
	Long: `Manage the catalog that records which revisions have been indexed
for which repositories.

The catalog lets builds skip already-indexed revisions cheaply and powers the
'strata index' listing. The metrics themselves live in per-repository index
files; clearing the catalog never deletes metric data.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show catalog statistics and connection info
  clear   - Remove all catalog records
  migrate - Apply catalog schema migrations

Examples:
  # Check catalog status
  strata catalog status

  # Reset the catalog so the next build re-records everything
  strata catalog clear`,
}

// catalogStatusCmd shows catalog statistics.
var catalogStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show catalog statistics and connection info",
	PreRunE: catalogSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := catalog.NewStore(cfg.CatalogBackend, cfg.CatalogDBConnect)
		if err != nil {
			contract.LogFatal("Cannot open catalog", err)
		}
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Cannot read catalog status", err)
		}
		fmt.Printf("Backend:   %s\n", status.Backend)
		fmt.Printf("Connected: %t\n", status.Connected)
		fmt.Printf("Revisions: %d\n", status.TotalRevisions)
		fmt.Printf("Repos:     %d\n", status.TotalRepos)
	},
}

// catalogClearCmd removes all catalog records.
var catalogClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all catalog records",
	Long: `Delete every indexed-revision record from the configured backend.

The per-repository index files are untouched; the next build re-records
skipped revisions from the index.`,
	PreRunE: catalogSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := catalog.NewStore(cfg.CatalogBackend, cfg.CatalogDBConnect)
		if err != nil {
			contract.LogFatal("Cannot open catalog", err)
		}
		defer func() { _ = store.Close() }()

		if err := store.Clear(); err != nil {
			contract.LogFatal("Cannot clear catalog", err)
		}
		fmt.Println("Catalog cleared.")
	},
}

// catalogMigrateCmd applies catalog schema migrations.
var catalogMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply catalog schema migrations",
	Long: `Bring the catalog database schema to the requested version.

By default this migrates to the latest version. Use --target-version 0 to roll
everything back, or a positive number to pin a specific version.`,
	PreRunE: catalogSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := catalog.Migrate(cfg.CatalogBackend, cfg.CatalogDBConnect, targetVersion); err != nil {
			contract.LogFatal("Cannot migrate catalog", err)
		}
	},
}
