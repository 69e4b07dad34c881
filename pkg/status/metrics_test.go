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
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/jmxlabel/pkg/jmx"
)

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics()

	m.ObserveParse(jmx.Stats{
		GroupsRenamed:      2,
		GroupsOverCapacity: 1,
		RequestsRenamed:    5,
		HeartbeatsRemoved:  3,
		HeaderPairsRemoved: 4,
		PathsSubstituted:   6,
	}, nil)
	m.ObserveParse(jmx.Stats{GroupsRenamed: 1}, nil)
	m.ObserveParse(jmx.Stats{GroupsRenamed: 100}, errors.New("bad"))
	m.ObserveSave(true)
	m.ObserveSave(false)
	m.ObserveSave(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocumentsParsed.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsParsed.WithLabelValues("failed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocumentsSaved.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsSaved.WithLabelValues("failed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.GroupsRenamed), "failed parses must not add stats")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GroupsOverCapacity))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.RequestsRenamed))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.HeartbeatsRemoved))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.HeaderPairsRemoved))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.PathsSubstituted))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveParse(jmx.Stats{GroupsRenamed: 1}, nil)
		m.ObserveSave(true)
	})
}

func TestMetrics_Isolated(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.ObserveSave(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.DocumentsSaved.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.DocumentsSaved.WithLabelValues("ok")))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.ObserveParse(jmx.Stats{RequestsRenamed: 2}, nil)

	path := filepath.Join(t.TempDir(), "jmxlabel.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `jmxlabel_documents_parsed_total{result="ok"} 1`)
	assert.Contains(t, string(data), "jmxlabel_requests_renamed_total 2")

	err = m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "jmxlabel.prom"))
	assert.Error(t, err)
}
