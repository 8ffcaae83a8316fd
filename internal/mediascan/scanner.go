// Package mediascan feeds files to a media index in bulk and reports a
// single outcome for the whole batch.
package mediascan

import (
	"context"
	"path/filepath"
	"sync/atomic"

	serr "fpick/internal/errors"
	"fpick/internal/fsutil"
	"fpick/internal/log"
	"fpick/internal/worker"

	"github.com/spf13/afero"
)

// Indexer is the media index. Index returns a non-empty uri when path was
// accepted.
type Indexer interface {
	Index(ctx context.Context, path string) (uri string, err error)
}

// Listener receives the outcome of a scan. ok is true only when every
// file and folder under path was indexed.
type Listener func(path string, ok bool)

// Scanner submits a file or a whole tree to an Indexer
type Scanner struct {
	fs      afero.Fs
	indexer Indexer
	poster  worker.Poster
	workers int
	depth   int
	logger  *log.Logger
}

// Option configures a Scanner
type Option func(*Scanner)

// WithWorkers bounds how many paths are indexed at once
func WithWorkers(n int) Option {
	return func(s *Scanner) { s.workers = n }
}

// WithDepth limits how deep folders are scanned, 0 for unlimited
func WithDepth(depth int) Option {
	return func(s *Scanner) { s.depth = depth }
}

// NewScanner creates a scanner. Listeners are invoked through poster so
// that they run on the UI loop.
func NewScanner(fs afero.Fs, indexer Indexer, poster worker.Poster, opts ...Option) *Scanner {
	s := &Scanner{
		fs:      fs,
		indexer: indexer,
		poster:  poster,
		logger:  log.LogWithFields(log.F("component", "mediascan")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan indexes path and, for folders, everything below it. The full list
// is built first so the expected count is known; Scan returns it and
// indexes in the background. A missing path is reported to listener right
// away, on the calling goroutine.
func (s *Scanner) Scan(ctx context.Context, path string, listener Listener) (int, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if !fsutil.Exists(s.fs, abs) {
		if listener != nil {
			listener(abs, false)
		}
		return 0, serr.NewFileError("nothing to scan", abs, serr.FileNotFound, nil)
	}

	entries, err := fsutil.SubFiles(s.fs, abs, fsutil.WalkOptions{Depth: s.depth, IncludeSelf: true})
	if err != nil {
		if listener != nil {
			listener(abs, false)
		}
		return 0, serr.NewFileError("cannot prepare scan", abs, serr.ScanFailed, err)
	}

	total := len(entries)
	s.logger.With(log.F("path", abs), log.F("total", total)).Debug("scan prepared")

	go func() {
		pool := worker.NewPool(s.workers)
		var failed atomic.Int32
		for _, e := range entries {
			p := e.Path
			pool.Go(func() error {
				if ctx.Err() != nil {
					failed.Add(1)
					return nil
				}
				uri, err := s.indexer.Index(ctx, p)
				if err != nil || uri == "" {
					failed.Add(1)
					s.logger.With(log.F("path", p)).WithError(err).Debug("index failed")
				}
				return nil
			})
		}
		pool.Wait()

		ok := failed.Load() == 0
		s.logger.With(log.F("path", abs), log.F("failed", failed.Load())).Debug("scan completed")
		if listener == nil {
			return
		}
		done := func() { listener(abs, ok) }
		if s.poster == nil || !s.poster.Post(done) {
			s.logger.With(log.F("path", abs)).Warn("scan result could not be delivered")
		}
	}()

	return total, nil
}
