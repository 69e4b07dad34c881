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

package status

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus is where a test plan is in the parse / rewrite / save flow
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusParsed               // tree loaded
	StatusRewritten            // labels applied, held in memory
	StatusSaved                // written to its destination
	StatusFailed               // parse, rewrite or save failed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusParsed:
		return "parsed"
	case StatusRewritten:
		return "rewritten"
	case StatusSaved:
		return "saved"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo is what is known about one test plan
type FileInfo struct {
	Path    string     // Source path
	Status  FileStatus // Current status
	Entries int        // Report entries produced by the rewrite
	Dest    string     // Destination when saved
	Error   error      // Any error associated with this file
}

// 📈 StatusReporter tracks file status and reports progress
type StatusReporter interface {
	// Status tracking
	TrackFile(ctx context.Context, info FileInfo)
	GetFileInfo(ctx context.Context, path string) (FileInfo, error)
	ListFiles(ctx context.Context) []FileInfo

	// Progress reporting
	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// ProgressFunc receives processed/total as a fraction in [0, 1].
type ProgressFunc func(fraction float64)

// 🔧 Manager implements StatusReporter
type Manager struct {
	formatter  FileFormatter // Formatter for status messages
	onProgress ProgressFunc

	// Status tracking
	mu    sync.RWMutex
	files map[string]FileInfo

	// Progress tracking
	total     int
	processed int
}

// 🏭 New creates a new status manager
func New(formatter FileFormatter, onProgress ProgressFunc) *Manager {
	if formatter == nil {
		formatter = NewDefaultFileFormatter()
	}
	return &Manager{
		formatter:  formatter,
		onProgress: onProgress,
		files:      make(map[string]FileInfo),
	}
}

func (m *Manager) TrackFile(ctx context.Context, info FileInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.files[info.Path] = info

	logger := zerolog.Ctx(ctx)
	if info.Error != nil {
		logger.Warn().Err(info.Error).Str("path", info.Path).Msg(m.formatter.FormatError(info.Path, info.Error))
		return
	}
	logger.Info().
		Str("path", info.Path).
		Str("status", info.Status.String()).
		Int("entries", info.Entries).
		Msg(m.formatter.FormatFileOperation(info))
}

func (m *Manager) GetFileInfo(ctx context.Context, path string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.files[path]
	if !ok {
		return FileInfo{}, errors.Errorf("file not tracked: %s", path)
	}
	return info, nil
}

// ListFiles returns tracked files sorted by path.
func (m *Manager) ListFiles(ctx context.Context) []FileInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]FileInfo, 0, len(m.files))
	for _, info := range m.files {
		files = append(files, info)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}

// Failed returns tracked files whose status is StatusFailed.
func (m *Manager) Failed(ctx context.Context) []FileInfo {
	var failed []FileInfo
	for _, info := range m.ListFiles(ctx) {
		if info.Status == StatusFailed {
			failed = append(failed, info)
		}
	}
	return failed
}

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	m.total = total
	m.processed = 0
	m.mu.Unlock()

	zerolog.Ctx(ctx).Debug().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
	m.notify(0, total)
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	m.processed = processed
	total := m.total
	m.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", total).
		Msg(m.formatter.FormatProgress(processed, total))
	m.notify(processed, total)
}

func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	processed, total := m.processed, m.total
	m.mu.Unlock()

	zerolog.Ctx(ctx).Debug().
		Int("processed", processed).
		Int("total", total).
		Msg(m.formatter.FormatProgress(processed, total))
}

// Progress returns processed/total, 0 before any work is known.
func (m *Manager) Progress() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fraction(m.processed, m.total)
}

func (m *Manager) notify(processed, total int) {
	if m.onProgress != nil {
		m.onProgress(fraction(processed, total))
	}
}

func fraction(processed, total int) float64 {
	if total <= 0 {
		return 0
	}
	if processed >= total {
		return 1
	}
	return float64(processed) / float64(total)
}
