package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/strata-dev/strata/schema"
)

// Default values for configuration.
const (
	DefaultMaxRevisions = 50
	MaxRevisionLimit    = 10000
	DefaultPrecision    = 2
)

// DefaultOperators is the comma-separated operator set used when the
// user does not choose one.
const DefaultOperators = "raw,cyclomatic,halstead,maintainability"

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for indexing and querying.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath     string
	CacheDir     string
	Operators    []string
	MaxRevisions int
	Workers      int
	Precision    int
	Output       schema.OutputMode
	OutputFile   string
	Width        int // Fixed table width override, 0 means auto-detect

	CatalogBackend   schema.CatalogBackend
	CatalogDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	CacheDir         string `mapstructure:"cache-dir"`
	Operators        string `mapstructure:"operators"`
	MaxRevisions     int    `mapstructure:"max-revisions"`
	Workers          int    `mapstructure:"workers"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	CatalogBackend   string `mapstructure:"catalog-backend"`
	CatalogDBConnect string `mapstructure:"catalog-db-connect"`
}

// ProfileConfig holds profiling configuration.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, prefix string) error {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil
	}
	if strings.ContainsAny(prefix, " \t") {
		return fmt.Errorf("profile prefix cannot contain whitespace: %q", prefix)
	}
	profile.Enabled = true
	profile.Prefix = prefix
	return nil
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Operators != nil {
		clone.Operators = make([]string, len(c.Operators))
		copy(clone.Operators, c.Operators)
	}
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := resolveRepoPath(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.CatalogBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("catalog-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("catalog-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the catalog backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CatalogBackend = schema.CatalogBackend(strings.ToLower(input.CatalogBackend))
	if _, ok := schema.ValidCatalogBackends[cfg.CatalogBackend]; !ok {
		return fmt.Errorf("invalid catalog backend '%s'. must be sqlite, mysql, postgresql, none", input.CatalogBackend)
	}
	cfg.CatalogDBConnect = input.CatalogDBConnect
	return ValidateDatabaseConnectionString(cfg.CatalogBackend, cfg.CatalogDBConnect)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Revision Limit Validation ---
	if input.MaxRevisions <= 0 || input.MaxRevisions > MaxRevisionLimit {
		return fmt.Errorf("max-revisions must be greater than 0 and cannot exceed %d (received %d)", MaxRevisionLimit, input.MaxRevisions)
	}
	cfg.MaxRevisions = input.MaxRevisions

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > 6 {
		return fmt.Errorf("precision must be between 0 and 6 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	// --- 4. Operators Processing ---
	raw := input.Operators
	if raw == "" {
		raw = DefaultOperators
	}
	cfg.Operators = cfg.Operators[:0]
	for p := range strings.SplitSeq(raw, ",") {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			cfg.Operators = append(cfg.Operators, strings.ToLower(trimmed))
		}
	}
	if len(cfg.Operators) == 0 {
		return fmt.Errorf("at least one operator is required")
	}

	// --- 5. Cache Directory ---
	cfg.CacheDir = input.CacheDir
	if cfg.CacheDir == "" {
		cfg.CacheDir = GetDefaultCacheDir()
	}

	return nil
}

// resolveRepoPath resolves the positional repository argument into a
// cleaned absolute path. The same source tree always maps to the same
// index location, no matter how the argument was spelled.
func resolveRepoPath(cfg *Config, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, err := os.Stat(absSearchPath)
	if err != nil {
		return fmt.Errorf("repository path %s: %w", absSearchPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("repository path %s is not a directory", absSearchPath)
	}

	cfg.RepoPath = absSearchPath
	return nil
}
