// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "edgelog"

// writeTextfileFn writes a gatherer in the node_exporter textfile format.
// Tests replace it to simulate write errors.
var writeTextfileFn = prometheus.WriteToTextfile

// Run summarizes one pipeline invocation for metrics.
type Run struct {
	Env      string
	Decision string
	Listed   int
	Selected int
	Failed   int
	Fetched  int
	Dropped  int
	Cached   int
	Matched  int
	Duration time.Duration
}

// Metrics holds the collectors for one process. It uses a private registry
// so repeated construction in tests never collides.
type Metrics struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	objects       *prometheus.CounterVec
	records       *prometheus.CounterVec
	cacheRecords  *prometheus.GaugeVec
	matched       *prometheus.GaugeVec
	duration      *prometheus.HistogramVec
	lastRunSecond *prometheus.GaugeVec
}

// NewMetrics creates and registers the edgelog collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "runs_total",
			Help:      "Query runs by environment and coverage decision.",
		}, []string{"env", "decision"}),
		objects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "objects_total",
			Help:      "Remote log objects by environment and outcome.",
		}, []string{"env", "outcome"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "records_total",
			Help:      "Log records by environment and outcome.",
		}, []string{"env", "outcome"}),
		cacheRecords: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "cache_records",
			Help:      "Records held in the cache file after the last run.",
		}, []string{"env"}),
		matched: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "matched_records",
			Help:      "Records returned by the last run's filter.",
		}, []string{"env"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of query runs.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"env"}),
		lastRunSecond: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run completed.",
		}, []string{"env"}),
	}

	m.registry.MustRegister(
		m.runs,
		m.objects,
		m.records,
		m.cacheRecords,
		m.matched,
		m.duration,
		m.lastRunSecond,
	)

	return m
}

// Registry exposes the underlying registry as a gatherer.
func (m *Metrics) Registry() prometheus.Gatherer {
	return m.registry
}

// Observe records one completed run.
func (m *Metrics) Observe(
	run Run,
	completedAt time.Time,
) {
	m.runs.WithLabelValues(run.Env, run.Decision).Inc()

	m.objects.WithLabelValues(run.Env, "listed").Add(float64(run.Listed))
	m.objects.WithLabelValues(run.Env, "selected").Add(float64(run.Selected))
	m.objects.WithLabelValues(run.Env, "failed").Add(float64(run.Failed))

	m.records.WithLabelValues(run.Env, "fetched").Add(float64(run.Fetched))
	m.records.WithLabelValues(run.Env, "dropped").Add(float64(run.Dropped))

	m.cacheRecords.WithLabelValues(run.Env).Set(float64(run.Cached))
	m.matched.WithLabelValues(run.Env).Set(float64(run.Matched))
	m.duration.WithLabelValues(run.Env).Observe(run.Duration.Seconds())
	m.lastRunSecond.WithLabelValues(run.Env).Set(float64(completedAt.Unix()))
}

// WriteTextfile writes all collectors to path for the node_exporter
// textfile collector. An empty path is a no-op.
func (m *Metrics) WriteTextfile(
	path string,
) error {
	if path == "" {
		return nil
	}

	if err := writeTextfileFn(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}

	return nil
}
