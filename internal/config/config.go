// Package config resolves where a project's index database lives and
// holds the small set of environment-driven overrides the CLI honors.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
)

// DBPathEnvVar overrides the computed database path entirely when set.
const DBPathEnvVar = "KOTLIN_INDEX_DB_PATH"

// appCacheDirName is the subdirectory created under the user's cache
// directory to hold all per-project index databases.
const appCacheDirName = "ast-index"

// ProjectHash derives a stable, filesystem-safe identifier for root so
// each project gets its own cache subdirectory. xxhash replaces the
// original implementation's randomized-seed DefaultHasher, which is
// unsuitable here since the hash needs to be stable across process
// restarts.
func ProjectHash(root string) string {
	sum := xxhash.Sum64String(filepath.Clean(root))
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[7-i] = byte(sum)
		sum >>= 8
	}
	return hex.EncodeToString(b)
}

// DBPath returns the on-disk path of the index database for root,
// honoring DBPathEnvVar when set.
func DBPath(root string) (string, error) {
	if override := os.Getenv(DBPathEnvVar); override != "" {
		return override, nil
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("find cache directory: %w", err)
	}

	dbDir := filepath.Join(cacheDir, appCacheDirName, ProjectHash(root))
	return filepath.Join(dbDir, "index.db"), nil
}

// Exists reports whether an index database has already been built for
// root.
func Exists(root string) bool {
	path, err := DBPath(root)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
