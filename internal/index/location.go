package index

import (
	"fmt"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// Location maps a repository path to its index file inside the cache
// directory. The key is a hash of the cleaned absolute path, so every
// spelling of the same directory lands on the same index.
func Location(cacheDir, repoPath string) string {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		abs = repoPath
	}
	key := CacheKey(abs)
	return filepath.Join(cacheDir, key, "metrics.parquet")
}

// CacheKey returns the stable hex key for a repository path.
func CacheKey(absRepoPath string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(filepath.Clean(absRepoPath)))
}
