// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports recording and search statistics as Prometheus
// collectors.
//
// The lincheck command is a batch job, so metrics are written once to a
// node-exporter textfile instead of being scraped.
package metrics

import (
	"fmt"

	"code.hybscloud.com/lincheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "lincheck"

// Metrics holds the collectors of one registry.
//
// Thread Safety: Safe for concurrent use.
type Metrics struct {
	checks         *prometheus.CounterVec
	searchSteps    prometheus.Counter
	cacheHits      prometheus.Counter
	cacheEvictions prometheus.Counter
	checkDuration  prometheus.Histogram
	historyEntries prometheus.Gauge
	operations     *prometheus.CounterVec
}

// New registers the collectors with reg.
// Panics if any of them is already registered.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		checks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Linearizability checks by model and outcome",
		}, []string{"model", "outcome"}),
		searchSteps: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "steps_total",
			Help:      "Candidate evaluations and backtracks",
		}),
		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Configurations skipped as known failures",
		}),
		cacheEvictions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "evictions_total",
			Help:      "Failing configurations evicted at capacity",
		}),
		checkDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Wall-clock time of a check",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		historyEntries: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_entries",
			Help:      "Entries in the last checked history",
		}),
		operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Recorded operations by kind and result",
		}, []string{"kind", "result"}),
	}
}

// ObserveSnapshot records the size of snap and counts its operations by
// kind and result (ok, failed, pending).
func (m *Metrics) ObserveSnapshot(snap *lincheck.Snapshot) {
	m.historyEntries.Set(float64(snap.Len()))
	for _, op := range snap.Operations() {
		result := "failed"
		switch {
		case op.Pending:
			result = "pending"
		case op.Result.OK:
			result = "ok"
		}
		m.operations.WithLabelValues(op.Call.Kind.String(), result).Inc()
	}
}

// ObserveResult records the outcome and search statistics of a check.
func (m *Metrics) ObserveResult(model lincheck.Model, res lincheck.Result) {
	st := res.Stats()
	m.checks.WithLabelValues(model.Name(), res.Outcome().String()).Inc()
	m.searchSteps.Add(float64(st.Steps))
	m.cacheHits.Add(float64(st.CacheHits))
	m.cacheEvictions.Add(float64(st.CacheEvictions))
	m.checkDuration.Observe(st.Elapsed.Seconds())
}

// WriteTextfile writes everything g gathers to path in the text
// exposition format. The file is replaced atomically.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
