package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Maintainability rank constants.
const (
	RankA = "A" // Healthy
	RankB = "B" // Needs attention
	RankC = "C" // Unmaintainable
)

// Color variables for console output.
var (
	GoodColor = color.New(color.FgGreen)           // healthy signal
	WarnColor = color.New(color.FgYellow)          // standard caution, not bold
	BadColor  = color.New(color.FgRed, color.Bold) // standard danger
)

// GetColorRank returns a colored maintainability rank for console output
// (table). Non-rank strings pass through unchanged.
func GetColorRank(rank string) string {
	switch rank {
	case RankA:
		return GoodColor.Sprint(rank)
	case RankB:
		return WarnColor.Sprint(rank)
	case RankC:
		return BadColor.Sprint(rank)
	default:
		return rank
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when the path is empty.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetDefaultCacheDir returns the directory that holds per-repository
// metric indexes when the user does not choose one.
func GetDefaultCacheDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".strata"
	}
	return filepath.Join(homeDir, ".strata")
}

// GetCatalogDBFilePath returns the path to the SQLite DB file for the
// revision catalog.
func GetCatalogDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".strata_catalog.db"
	}
	return filepath.Join(homeDir, ".strata_catalog.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and
// at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
