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
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).With().Timestamp().Logger()
	return logger.WithContext(context.Background())
}

func TestFileStatus_String(t *testing.T) {
	tests := []struct {
		name   string
		status FileStatus
		want   string
	}{
		{name: "unknown", status: StatusUnknown, want: "unknown"},
		{name: "parsed", status: StatusParsed, want: "parsed"},
		{name: "rewritten", status: StatusRewritten, want: "rewritten"},
		{name: "saved", status: StatusSaved, want: "saved"},
		{name: "failed", status: StatusFailed, want: "failed"},
		{name: "out_of_range", status: FileStatus(42), want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestManager_TrackFile(t *testing.T) {
	ctx := testContext(t)
	m := New(nil, nil)

	m.TrackFile(ctx, FileInfo{Path: "b.jmx", Status: StatusRewritten, Entries: 3})
	m.TrackFile(ctx, FileInfo{Path: "a.jmx", Status: StatusFailed, Error: errors.New("boom")})

	info, err := m.GetFileInfo(ctx, "b.jmx")
	require.NoError(t, err)
	assert.Equal(t, StatusRewritten, info.Status)
	assert.Equal(t, 3, info.Entries)

	// later tracking replaces earlier state
	m.TrackFile(ctx, FileInfo{Path: "b.jmx", Status: StatusSaved, Entries: 3, Dest: "out/b.jmx"})
	info, err = m.GetFileInfo(ctx, "b.jmx")
	require.NoError(t, err)
	assert.Equal(t, StatusSaved, info.Status)
	assert.Equal(t, "out/b.jmx", info.Dest)

	files := m.ListFiles(ctx)
	require.Len(t, files, 2)
	assert.Equal(t, "a.jmx", files[0].Path, "files should be sorted by path")
	assert.Equal(t, "b.jmx", files[1].Path)

	failed := m.Failed(ctx)
	require.Len(t, failed, 1)
	assert.Equal(t, "a.jmx", failed[0].Path)

	_, err = m.GetFileInfo(ctx, "missing.jmx")
	assert.Error(t, err)
}

func TestManager_Progress(t *testing.T) {
	ctx := testContext(t)

	var got []float64
	m := New(NewDefaultFileFormatter(), func(f float64) { got = append(got, f) })

	assert.Zero(t, m.Progress(), "no work known yet")

	m.StartOperation(ctx, 4)
	m.UpdateProgress(ctx, 1)
	m.UpdateProgress(ctx, 2)
	assert.InDelta(t, 0.5, m.Progress(), 1e-9)
	m.UpdateProgress(ctx, 4)
	m.FinishOperation(ctx)

	assert.Equal(t, []float64{0, 0.25, 0.5, 1}, got)
	assert.Equal(t, 1.0, m.Progress())
}

func TestManager_ProgressEmptyRun(t *testing.T) {
	ctx := testContext(t)
	m := New(nil, nil)

	m.StartOperation(ctx, 0)
	m.UpdateProgress(ctx, 0)
	m.FinishOperation(ctx)

	assert.Zero(t, m.Progress())
}

func TestManager_Concurrent(t *testing.T) {
	ctx := testContext(t)
	m := New(nil, nil)
	m.StartOperation(ctx, 50)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := string(rune('a'+i%26)) + string(rune('a'+i/26)) + ".jmx"
			m.TrackFile(ctx, FileInfo{Path: path, Status: StatusParsed})
			m.UpdateProgress(ctx, i+1)
		}(i)
	}
	wg.Wait()

	assert.Len(t, m.ListFiles(ctx), 50)
}

var _ StatusReporter = (*Manager)(nil)
