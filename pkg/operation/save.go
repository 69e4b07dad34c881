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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/jmxlabel/pkg/status"
)

// 💾 Save writes the kept document for source to dest
func (s *Session) Save(ctx context.Context, source, dest string) error {
	return s.save(s.withRun(ctx), source, dest)
}

func (s *Session) save(ctx context.Context, source, dest string) error {
	doc, ok := s.Document(source)
	if !ok {
		return errors.Errorf("%w: %s", ErrNotParsed, source)
	}

	err := doc.SaveErr(ctx, dest)
	s.opts.Metrics.ObserveSave(err == nil)
	if err != nil {
		s.opts.Reporter.TrackFile(ctx, status.FileInfo{Path: source, Status: status.StatusFailed, Error: err})
		return err
	}

	s.opts.Reporter.TrackFile(ctx, status.FileInfo{Path: source, Status: status.StatusSaved, Dest: dest})
	return nil
}

// 💾 SaveAll writes every kept document below dir, continuing past failures.
// Files found by a directory parse keep their path relative to that directory,
// files parsed alone are written to dir/<basename>. A second source mapping to
// an already used destination fails with ErrDuplicateDestination.
func (s *Session) SaveAll(ctx context.Context, dir string) BatchResult {
	ctx = s.withRun(ctx)
	logger := zerolog.Ctx(ctx)

	docs := s.Documents()
	result := BatchResult{
		Saved:  make(map[string]string, len(docs)),
		Failed: make(map[string]error),
	}

	s.opts.Reporter.StartOperation(ctx, len(docs))
	defer s.opts.Reporter.FinishOperation(ctx)

	claimed := make(map[string]string, len(docs))
	for i, doc := range docs {
		source := doc.Source()
		dest := s.relativeDestination(dir, source)

		if other, taken := claimed[dest]; taken {
			err := errors.Errorf("%w: %s and %s both map to %s", ErrDuplicateDestination, other, source, dest)
			s.opts.Metrics.ObserveSave(false)
			s.opts.Reporter.TrackFile(ctx, status.FileInfo{Path: source, Status: status.StatusFailed, Error: err})
			result.Failed[source] = err
			s.opts.Reporter.UpdateProgress(ctx, i+1)
			continue
		}
		claimed[dest] = source

		if err := s.save(ctx, source, dest); err != nil {
			result.Failed[source] = err
		} else {
			result.Saved[source] = dest
		}
		s.opts.Reporter.UpdateProgress(ctx, i+1)
	}

	logger.Info().
		Int("saved", len(result.Saved)).
		Int("failed", len(result.Failed)).
		Str("dir", dir).
		Msg("saved documents")

	return result
}
