// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/jmxlabel/pkg/jmx"
	"github.com/walteh/jmxlabel/pkg/status"
)

var (
	// ErrNotParsed is returned when saving a path the session holds no document for.
	ErrNotParsed = errors.Base("document not parsed")
	// ErrDuplicateDestination is returned by SaveAll when two sources map to one output file.
	ErrDuplicateDestination = errors.Base("duplicate save destination")
)

// DefaultInclude matches test plans directly inside a directory.
const DefaultInclude = "*.jmx"

// 🔧 Options contains configuration for a session
type Options struct {
	// Engine is passed to every Document.Rewrite call
	Engine jmx.Options
	// Include selects files inside a directory (doublestar syntax)
	Include string
	// Concurrency bounds parallel parsing, values below 2 parse sequentially
	Concurrency int
	// Reporter receives per-file status and progress, a status.Manager when nil
	Reporter status.StatusReporter
	// Metrics is optional
	Metrics *status.Metrics
}

// 📄 FileResult is the outcome of parsing and rewriting one test plan
type FileResult struct {
	Path    string
	Entries []jmx.ReportEntry
	Stats   jmx.Stats
	Err     error
}

// OK reports whether the file was parsed and rewritten.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// 📦 BatchResult is the outcome of SaveAll
type BatchResult struct {
	Saved  map[string]string // source path -> destination
	Failed map[string]error  // source path -> cause
}

// HasFailures reports whether any document failed to save.
func (b BatchResult) HasFailures() bool {
	return len(b.Failed) > 0
}

// 🎮 Session holds the rewritten documents of one batch run
type Session struct {
	opts  Options
	runID string

	mu      sync.Mutex
	docs    map[string]*jmx.Document
	roots   map[string]string // source -> directory it was found in, files parsed alone have none
	order   []string
	results []FileResult
}

// 🏭 New creates a session with a fresh run id
func New(opts Options) *Session {
	if opts.Include == "" {
		opts.Include = DefaultInclude
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Reporter == nil {
		opts.Reporter = status.New(nil, nil)
	}
	return &Session{
		opts:  opts,
		runID: uuid.NewString(),
		docs:  make(map[string]*jmx.Document),
		roots: make(map[string]string),
	}
}

// RunID identifies this session in logs.
func (s *Session) RunID() string {
	return s.runID
}

func (s *Session) withRun(ctx context.Context) context.Context {
	logger := zerolog.Ctx(ctx).With().Str("run_id", s.runID).Logger()
	return logger.WithContext(ctx)
}

// 🚀 Parse clears previous results and parses path, which may be a file or a directory
func (s *Session) Parse(ctx context.Context, path string) ([]FileResult, error) {
	s.reset()

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return s.ParseDirectory(ctx, path)
	}

	result, err := s.ParseFile(ctx, path)
	return []FileResult{result}, err
}

// 📄 ParseFile parses and rewrites one test plan and keeps it for saving
func (s *Session) ParseFile(ctx context.Context, path string) (FileResult, error) {
	ctx = s.withRun(ctx)

	s.opts.Reporter.StartOperation(ctx, 1)
	result, doc := s.parseOne(ctx, path)
	s.opts.Reporter.UpdateProgress(ctx, 1)
	s.opts.Reporter.FinishOperation(ctx)

	s.keep(result, doc, "")
	return result, result.Err
}

// 📁 ParseDirectory parses every file in dir matching Include, in sorted order.
// Files that fail are recorded in their FileResult and skipped; the returned
// error is only set when the directory cannot be listed or ctx is cancelled.
func (s *Session) ParseDirectory(ctx context.Context, dir string) ([]FileResult, error) {
	ctx = s.withRun(ctx)
	logger := zerolog.Ctx(ctx)

	paths, err := s.list(dir)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("dir", dir).Int("files", len(paths)).Msg("parsing directory")

	results := make([]FileResult, len(paths))
	docs := make([]*jmx.Document, len(paths))

	s.opts.Reporter.StartOperation(ctx, len(paths))
	defer s.opts.Reporter.FinishOperation(ctx)

	var progressMu sync.Mutex
	processed := 0
	done := func() {
		progressMu.Lock()
		defer progressMu.Unlock()
		processed++
		s.opts.Reporter.UpdateProgress(ctx, processed)
	}

	var runErr error
	if s.opts.Concurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.opts.Concurrency)
		for i, path := range paths {
			i, path := i, path
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i], docs[i] = s.parseOne(gctx, path)
				done()
				return nil
			})
		}
		runErr = g.Wait()
	} else {
		for i, path := range paths {
			if err := ctx.Err(); err != nil {
				runErr = err
				break
			}
			results[i], docs[i] = s.parseOne(ctx, path)
			done()
		}
	}

	// only files that were attempted are kept, in sorted order
	out := make([]FileResult, 0, len(results))
	for i, result := range results {
		if result.Path == "" {
			continue
		}
		s.keep(result, docs[i], dir)
		out = append(out, result)
	}

	if runErr != nil {
		return out, errors.Errorf("parsing %s: %w", dir, runErr)
	}
	return out, nil
}

func (s *Session) list(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Errorf("listing %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("listing %s: not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), s.opts.Include, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Errorf("listing %s with %q: %w", dir, s.opts.Include, err)
	}

	sort.Strings(matches)

	paths := make([]string, len(matches))
	for i, match := range matches {
		paths[i] = filepath.Join(dir, filepath.FromSlash(match))
	}
	return paths, nil
}

func (s *Session) parseOne(ctx context.Context, path string) (FileResult, *jmx.Document) {
	logger := zerolog.Ctx(ctx).With().Str("path", path).Logger()
	ctx = logger.WithContext(ctx)

	result := FileResult{Path: path}

	doc, err := jmx.Parse(ctx, path)
	if err != nil {
		return s.fail(ctx, result, err), nil
	}
	s.opts.Reporter.TrackFile(ctx, status.FileInfo{Path: path, Status: status.StatusParsed})

	entries, err := doc.Rewrite(ctx, s.opts.Engine)
	if err != nil {
		return s.fail(ctx, result, errors.Errorf("rewriting %s: %w", path, err)), nil
	}

	result.Entries = entries
	result.Stats = doc.Stats()
	s.opts.Metrics.ObserveParse(result.Stats, nil)
	s.opts.Reporter.TrackFile(ctx, status.FileInfo{Path: path, Status: status.StatusRewritten, Entries: len(entries)})

	return result, doc
}

func (s *Session) fail(ctx context.Context, result FileResult, err error) FileResult {
	result.Err = err
	s.opts.Metrics.ObserveParse(jmx.Stats{}, err)
	s.opts.Reporter.TrackFile(ctx, status.FileInfo{Path: result.Path, Status: status.StatusFailed, Error: err})
	return result
}

func (s *Session) keep(result FileResult, doc *jmx.Document, root string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if root != "" {
		s.roots[result.Path] = root
	} else {
		delete(s.roots, result.Path)
	}

	if _, seen := s.docs[result.Path]; !seen {
		s.order = append(s.order, result.Path)
	}
	// a failed re-parse drops the previous document for that path
	s.docs[result.Path] = doc
	s.results = append(s.results, result)
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = make(map[string]*jmx.Document)
	s.roots = make(map[string]string)
	s.order = nil
	s.results = nil
}

// Results returns every FileResult since the last Parse, in parse order.
func (s *Session) Results() []FileResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]FileResult, len(s.results))
	copy(out, s.results)
	return out
}

// Documents returns the kept documents in parse order.
func (s *Session) Documents() []*jmx.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*jmx.Document, 0, len(s.order))
	for _, path := range s.order {
		if doc := s.docs[path]; doc != nil {
			out = append(out, doc)
		}
	}
	return out
}

// relativeDestination keeps the layout below the scanned directory, or just
// the basename for files parsed on their own.
func (s *Session) relativeDestination(dir, source string) string {
	s.mu.Lock()
	root := s.roots[source]
	s.mu.Unlock()

	if root != "" {
		if rel, err := filepath.Rel(root, source); err == nil && filepath.IsLocal(rel) {
			return filepath.Join(dir, rel)
		}
	}
	return filepath.Join(dir, filepath.Base(source))
}

// Document returns the kept document for source, if any.
func (s *Session) Document(source string) (*jmx.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.docs[source]
	return doc, doc != nil
}
