// Package metrics exposes Prometheus counters for generation, export and
// HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bistack"

// Metrics owns a private registry so several instances can coexist in
// tests.
type Metrics struct {
	registry *prometheus.Registry

	generations        *prometheus.CounterVec
	generatedRecords   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	exports            *prometheus.CounterVec
	exportBytes        *prometheus.CounterVec
	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	datasetRows        *prometheus.GaugeVec
}

// New registers every collector on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Generation requests by entity kind and outcome.",
		}, []string{"kind", "status"}),
		generatedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generated_records_total",
			Help:      "Synthetic records produced by entity kind.",
		}, []string{"kind"}),
		generationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time to build and store one batch.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"kind"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Files written by format.",
		}, []string{"format"}),
		exportBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_bytes_total",
			Help:      "Bytes written by format.",
		}, []string{"format"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		datasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows held by each loaded dashboard dataset.",
		}, []string{"dataset"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.generations, m.generatedRecords, m.generationDuration,
		m.exports, m.exportBytes,
		m.requests, m.requestDuration,
		m.datasetRows,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveGeneration records one generation call. records is ignored unless
// status is "completed".
func (m *Metrics) ObserveGeneration(kind, status string, records int, d time.Duration) {
	m.generations.WithLabelValues(kind, status).Inc()
	if status == "completed" {
		m.generatedRecords.WithLabelValues(kind).Add(float64(records))
		m.generationDuration.WithLabelValues(kind).Observe(d.Seconds())
	}
}

// ObserveExport records one written file.
func (m *Metrics) ObserveExport(format string, bytes int64) {
	m.exports.WithLabelValues(format).Inc()
	m.exportBytes.WithLabelValues(format).Add(float64(bytes))
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, code int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// SetDatasetRows publishes the size of a loaded dataset.
func (m *Metrics) SetDatasetRows(dataset string, rows int) {
	m.datasetRows.WithLabelValues(dataset).Set(float64(rows))
}
