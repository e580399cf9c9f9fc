/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package metrics exposes Prometheus collectors for the HTTP surface, the
// import paths and the live contents of the store registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/suparena/virtualstore/storagemodels"
)

const namespace = "virtualstore"

// StoreLister is the read side of the store manager the collector needs.
type StoreLister interface {
	ListStores() []storagemodels.StoreSummary
}

// Metrics owns a private registry and every collector registered on it.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight    prometheus.Gauge
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	rateLimited     prometheus.Counter
	importedRecords *prometheus.CounterVec
	importFailures  *prometheus.CounterVec
	aggregationRows prometheus.Histogram
}

// New creates the collectors. When stores is non-nil a collector reporting
// store and record counts is registered as well.
func New(stores StoreLister) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		}, []string{"method", "path"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		importedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "records_total",
			Help:      "Records committed by bulk imports.",
		}, []string{"source"}),
		importFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "import",
			Name:      "failures_total",
			Help:      "Imports that ended with an error.",
		}, []string{"source"}),
		aggregationRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "aggregation",
			Name:      "result_rows",
			Help:      "Rows returned per aggregation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequests,
		m.httpDuration,
		m.rateLimited,
		m.importedRecords,
		m.importFailures,
		m.aggregationRows,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	if stores != nil {
		m.registry.MustRegister(newStoreCollector(stores))
	}
	return m
}

// Registry returns the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exposing the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// IncInFlight marks the start of a request
func (m *Metrics) IncInFlight() { m.httpInFlight.Inc() }

// DecInFlight marks the end of a request
func (m *Metrics) DecInFlight() { m.httpInFlight.Dec() }

// RecordHTTPRequest records one handled request. path should be the route
// template, not the raw URL, to keep label cardinality bounded.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRateLimited counts a rejected request
func (m *Metrics) RecordRateLimited() { m.rateLimited.Inc() }

// RecordImport counts committed records, and a failure when err is non-nil.
func (m *Metrics) RecordImport(source string, imported int, err error) {
	m.importedRecords.WithLabelValues(source).Add(float64(imported))
	if err != nil {
		m.importFailures.WithLabelValues(source).Inc()
	}
}

// RecordAggregation observes the size of an aggregation result
func (m *Metrics) RecordAggregation(rows int) {
	m.aggregationRows.Observe(float64(rows))
}

// storeCollector reads the registry at scrape time.
type storeCollector struct {
	stores      StoreLister
	storesDesc  *prometheus.Desc
	recordsDesc *prometheus.Desc
}

func newStoreCollector(stores StoreLister) *storeCollector {
	return &storeCollector{
		stores: stores,
		storesDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "registry", "stores"),
			"Number of registered stores.",
			nil, nil,
		),
		recordsDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "store", "records"),
			"Records held per store and entity type.",
			[]string{"store", "entity"}, nil,
		),
	}
}

func (c *storeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.storesDesc
	ch <- c.recordsDesc
}

func (c *storeCollector) Collect(ch chan<- prometheus.Metric) {
	summaries := c.stores.ListStores()
	ch <- prometheus.MustNewConstMetric(c.storesDesc, prometheus.GaugeValue, float64(len(summaries)))
	for _, s := range summaries {
		for entity, n := range s.EntityCounts {
			ch <- prometheus.MustNewConstMetric(c.recordsDesc, prometheus.GaugeValue, float64(n), s.Name, entity)
		}
	}
}
