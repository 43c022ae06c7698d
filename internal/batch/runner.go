// Package batch runs one user-initiated ingestion pass over a set of
// input specs: verify, then extract every file in turn.
package batch

import (
	"context"
	"crypto/md5"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tinylex/corpusio/internal/cache"
	"github.com/tinylex/corpusio/internal/document"
	"github.com/tinylex/corpusio/internal/verify"
)

// Result is the outcome of reading one verified file.
type Result struct {
	Path      string
	Text      string
	Skipped   bool
	FromCache bool
	Err       error
}

// Summary collects a whole batch run.
type Summary struct {
	ID      string
	Results []Result
}

// Extracted returns how many files yielded text.
func (s *Summary) Extracted() int {
	n := 0
	for _, res := range s.Results {
		if !res.Skipped && res.Err == nil {
			n++
		}
	}
	return n
}

// Skipped returns how many files were skipped.
func (s *Summary) Skipped() int {
	n := 0
	for _, res := range s.Results {
		if res.Skipped {
			n++
		}
	}
	return n
}

// Failed returns how many files failed with a per-file error.
func (s *Summary) Failed() int {
	n := 0
	for _, res := range s.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Runner drives a full verify-then-read batch. It owns one session
// per run, so a Runner may be reused but not shared between
// concurrently running batches.
type Runner struct {
	logger   *zap.Logger
	verifier *verify.Verifier

	// CacheDir, when non-empty, holds extracted-text artifacts keyed
	// by input path. An artifact strictly newer than its source is
	// reused instead of re-extracting.
	CacheDir string

	// OnProgress, when set, is called after each file with the number
	// of files done and the total.
	OnProgress func(done, total int)

	// InitialEncoding seeds the session's plain-text encoding guess,
	// typically the last detected encoding of a previous run.
	InitialEncoding string

	lastEncoding string
}

// NewRunner creates a batch runner.
func NewRunner(logger *zap.Logger) *Runner {
	return &Runner{
		logger:   logger,
		verifier: verify.NewVerifier(logger),
	}
}

// Verifier exposes the runner's verifier for configuration.
func (r *Runner) Verifier() *verify.Verifier {
	return r.verifier
}

// Run verifies the specs and reads every resulting file. Per-file
// structural failures are recorded and the batch continues; the
// fatal-class errors (unresolvable spec, vanished file) abort the run.
// The context is checked between files only; a single file read is
// never interrupted. After Run returns, LastEncoding reports the
// session's final encoding guess for callers that persist it.
func (r *Runner) Run(ctx context.Context, specs []string) (*Summary, error) {
	files, err := r.verifier.Verify(specs)
	if err != nil {
		return nil, err
	}

	// Set semantics upstream, stable order for reporting.
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	session := document.NewSession()
	if r.InitialEncoding != "" {
		session.SetEncoding(r.InitialEncoding)
	}
	reader := document.NewReader(r.logger, session)

	summary := &Summary{ID: uuid.NewString()}
	r.logger.Info("starting batch",
		zap.String("batch", summary.ID),
		zap.Int("files", len(paths)))

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := r.readOne(reader, path)
		if res.Err != nil && document.IsFatal(res.Err) {
			return nil, res.Err
		}
		summary.Results = append(summary.Results, res)

		if r.OnProgress != nil {
			r.OnProgress(i+1, len(paths))
		}
	}

	r.lastEncoding = session.Encoding()
	r.logger.Info("batch finished",
		zap.String("batch", summary.ID),
		zap.Int("extracted", summary.Extracted()),
		zap.Int("skipped", summary.Skipped()),
		zap.Int("failed", summary.Failed()))
	return summary, nil
}

// LastEncoding returns the session encoding after the most recent Run.
func (r *Runner) LastEncoding() string {
	return r.lastEncoding
}

func (r *Runner) readOne(reader *document.Reader, path string) Result {
	artifact := r.artifactPath(path)
	if artifact != "" && cache.IsValid(path, artifact) {
		if data, err := os.ReadFile(artifact); err == nil {
			r.logger.Debug("reusing cached extraction", zap.String("path", path))
			return Result{Path: path, Text: string(data), FromCache: true}
		}
		// A vanishing artifact just means a cold cache.
	}

	text, ok, err := reader.ReadFile(path)
	if err != nil {
		return Result{Path: path, Err: err}
	}
	if !ok {
		return Result{Path: path, Skipped: true}
	}

	if artifact != "" {
		if err := os.WriteFile(artifact, []byte(text), 0o644); err != nil {
			r.logger.Warn("could not write extraction cache",
				zap.String("path", artifact), zap.Error(err))
		}
	}
	return Result{Path: path, Text: text}
}

// artifactPath keys cache artifacts by a digest of the absolute input
// path, so unrelated files with the same basename do not collide.
func (r *Runner) artifactPath(path string) string {
	if r.CacheDir == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return filepath.Join(r.CacheDir, fmt.Sprintf("%x.txt", md5.Sum([]byte(abs))))
}
