// Package cache decides whether derived artifacts are still fresh and
// provides the on-disk blob store for small state/settings graphs.
package cache

import "os"

// IsValid reports whether the cached artifact for a source file can be
// reused: the cache must exist, be non-empty, and be strictly newer
// than the source. A missing cache is the ordinary cold-cache case,
// never an error.
func IsValid(sourcePath, cachePath string) bool {
	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return false
	}
	if cacheInfo.Size() == 0 {
		return false
	}
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		return false
	}
	return cacheInfo.ModTime().After(sourceInfo.ModTime())
}
