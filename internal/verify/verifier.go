// Package verify resolves user-supplied path specs into a concrete,
// deduplicated set of readable input files.
package verify

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/tinylex/corpusio/internal/document"
)

// ErrSpecUnresolved reports a path spec that matched no file, no
// directory and no glob. That is a user typo, fatal for the whole
// verification; the caller decides whether the process terminates.
var ErrSpecUnresolved = errors.New("path spec resolves to nothing")

// Verifier turns a heterogeneous list of file paths, directories and
// glob patterns into a verified input file set.
type Verifier struct {
	logger *zap.Logger

	// filterLockFiles enables dropping Word lock files (~*.docx).
	// Defaults to true on Windows only, where Word leaves them next
	// to open documents; injectable for tests.
	filterLockFiles bool
}

// NewVerifier creates a verifier with platform-default behavior.
func NewVerifier(logger *zap.Logger) *Verifier {
	return &Verifier{
		logger:          logger,
		filterLockFiles: runtime.GOOS == "windows",
	}
}

// SetLockFileFilter overrides the platform default for the Word
// lock-file filter.
func (v *Verifier) SetLockFileFilter(enabled bool) {
	v.filterLockFiles = enabled
}

// Verify resolves every spec independently, in order:
// an existing regular file is kept iff its extension is supported;
// an existing directory contributes its immediate children that are
// supported regular files; anything else is tried as a glob pattern,
// whose matches are filtered the same way as directory children.
// A spec that resolves to nothing aborts with ErrSpecUnresolved.
//
// The result has set semantics: duplicates collapse, ordering is
// meaningless.
func (v *Verifier) Verify(specs []string) (map[string]struct{}, error) {
	files := make(map[string]struct{})

	for _, spec := range specs {
		info, err := os.Stat(spec)
		switch {
		case err == nil && info.Mode().IsRegular():
			if !document.IsSupportedPath(spec) {
				v.logger.Warn("unsupported file type, skipping", zap.String("path", spec))
				continue
			}
			v.logger.Debug("adding input file", zap.String("path", spec))
			files[spec] = struct{}{}

		case err == nil && info.IsDir():
			entries, err := os.ReadDir(spec)
			if err != nil {
				return nil, fmt.Errorf("list directory %s: %w", spec, err)
			}
			for _, entry := range entries {
				path := filepath.Join(spec, entry.Name())
				if entry.Type().IsRegular() && document.IsSupportedPath(path) {
					files[path] = struct{}{}
				}
			}

		default:
			matches, globErr := filepath.Glob(spec)
			if globErr != nil || len(matches) == 0 {
				return nil, fmt.Errorf("%w: %s", ErrSpecUnresolved, spec)
			}
			for _, path := range matches {
				info, err := os.Stat(path)
				if err != nil || !info.Mode().IsRegular() {
					continue
				}
				if !document.IsSupportedPath(path) {
					v.logger.Warn("unsupported file type, skipping", zap.String("path", path))
					continue
				}
				files[path] = struct{}{}
			}
		}
	}

	if v.filterLockFiles {
		for path := range files {
			if isWordLockFile(path) {
				v.logger.Debug("dropping Word lock file", zap.String("path", path))
				delete(files, path)
			}
		}
	}
	return files, nil
}

// isWordLockFile matches Word's lock-file convention: a .docx whose
// basename starts with "~". Such a file is a transient lock artifact,
// not real content.
func isWordLockFile(path string) bool {
	return strings.HasSuffix(path, ".docx") && strings.HasPrefix(filepath.Base(path), "~")
}
