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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/jmxlabel/pkg/jmx"
)

// 📏 Metrics holds the prometheus counters for a batch run
type Metrics struct {
	registry *prometheus.Registry

	// Document lifecycle
	DocumentsParsed *prometheus.CounterVec
	DocumentsSaved  *prometheus.CounterVec

	// Rewrite pass counters
	GroupsRenamed      prometheus.Counter
	GroupsOverCapacity prometheus.Counter
	RequestsRenamed    prometheus.Counter
	HeartbeatsRemoved  prometheus.Counter
	HeaderPairsRemoved prometheus.Counter
	PathsSubstituted   prometheus.Counter
}

// 🏭 NewMetrics creates all counters on a private registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.DocumentsParsed = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jmxlabel_documents_parsed_total",
			Help: "Test plans parsed and rewritten, by result",
		},
		[]string{"result"},
	)

	m.DocumentsSaved = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jmxlabel_documents_saved_total",
			Help: "Test plans serialized to disk, by result",
		},
		[]string{"result"},
	)

	m.GroupsRenamed = factory.NewCounter(prometheus.CounterOpts{
		Name: "jmxlabel_groups_renamed_total",
		Help: "Transaction controllers that received a label",
	})

	m.GroupsOverCapacity = factory.NewCounter(prometheus.CounterOpts{
		Name: "jmxlabel_groups_over_capacity_total",
		Help: "Transaction controllers left unchanged because the label sequence ran out",
	})

	m.RequestsRenamed = factory.NewCounter(prometheus.CounterOpts{
		Name: "jmxlabel_requests_renamed_total",
		Help: "HTTP samplers that received a label",
	})

	m.HeartbeatsRemoved = factory.NewCounter(prometheus.CounterOpts{
		Name: "jmxlabel_heartbeats_removed_total",
		Help: "Heartbeat samplers removed from test plans",
	})

	m.HeaderPairsRemoved = factory.NewCounter(prometheus.CounterOpts{
		Name: "jmxlabel_header_pairs_removed_total",
		Help: "Header managers removed with their hashTree",
	})

	m.PathsSubstituted = factory.NewCounter(prometheus.CounterOpts{
		Name: "jmxlabel_paths_substituted_total",
		Help: "Sampler paths changed by substitution rules",
	})

	return m
}

// Registry exposes the private registry, e.g. for testutil or a push gateway.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveParse records one parse+rewrite attempt. stats is ignored when err is set.
func (m *Metrics) ObserveParse(stats jmx.Stats, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.DocumentsParsed.WithLabelValues("failed").Inc()
		return
	}
	m.DocumentsParsed.WithLabelValues("ok").Inc()
	m.GroupsRenamed.Add(float64(stats.GroupsRenamed))
	m.GroupsOverCapacity.Add(float64(stats.GroupsOverCapacity))
	m.RequestsRenamed.Add(float64(stats.RequestsRenamed))
	m.HeartbeatsRemoved.Add(float64(stats.HeartbeatsRemoved))
	m.HeaderPairsRemoved.Add(float64(stats.HeaderPairsRemoved))
	m.PathsSubstituted.Add(float64(stats.PathsSubstituted))
}

// ObserveSave records one save attempt.
func (m *Metrics) ObserveSave(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.DocumentsSaved.WithLabelValues("ok").Inc()
		return
	}
	m.DocumentsSaved.WithLabelValues("failed").Inc()
}

// 💾 WriteTextfile writes the registry in the node-exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
