// Package metrics provides custom Prometheus metrics for various components of the mosaic service.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MosaicMetrics contains all Prometheus metrics related to mosaic query resolution.
type MosaicMetrics struct {
	ResolveOperations *prometheus.CounterVec
	ResolveErrors     prometheus.Counter
	ResolveDuration   prometheus.Histogram
	LookupCacheOps    *prometheus.CounterVec
	registry          *prometheus.Registry
}

// NewMosaicMetrics creates a new instance of MosaicMetrics.
// It requires a Prometheus registry to register the metrics.
// It returns an error if metric registration fails.
func NewMosaicMetrics(registry *prometheus.Registry) (*MosaicMetrics, error) {
	m := &MosaicMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize mosaic metrics: %w", err)
	}
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register mosaic metrics: %w", err)
	}
	return m, nil
}

// initMetrics initializes all metrics for MosaicMetrics.
func (m *MosaicMetrics) initMetrics() error {
	m.ResolveOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mosaic_resolve_operations_total",
		Help: "Total number of mosaic query resolutions by outcome",
	}, []string{"outcome"})

	m.ResolveErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mosaic_resolve_errors_total",
		Help: "Total number of mosaic query resolutions that failed",
	})

	m.ResolveDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "mosaic_resolve_duration_seconds",
		Help:    "Duration of mosaic query resolution in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	m.LookupCacheOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mosaic_lookup_cache_operations_total",
		Help: "Total number of lookup cache accesses by result",
	}, []string{"result"})

	return nil
}

// RecordResolve records a completed query resolution and its duration.
func (m *MosaicMetrics) RecordResolve(created bool, duration time.Duration) {
	outcome := "existing"
	if created {
		outcome = "created"
	}
	m.ResolveOperations.WithLabelValues(outcome).Inc()
	m.ResolveDuration.Observe(duration.Seconds())
}

// IncrementResolveErrors increments the count of failed query resolutions.
func (m *MosaicMetrics) IncrementResolveErrors() {
	m.ResolveErrors.Inc()
}

// RecordLookupCache records a lookup cache access.
func (m *MosaicMetrics) RecordLookupCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.LookupCacheOps.WithLabelValues(result).Inc()
}

// Collect implements the prometheus.Collector interface.
func (m *MosaicMetrics) Collect(ch chan<- prometheus.Metric) {
	m.ResolveOperations.Collect(ch)
	ch <- m.ResolveErrors
	ch <- m.ResolveDuration
	m.LookupCacheOps.Collect(ch)
}

// Describe implements the prometheus.Collector interface.
func (m *MosaicMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.ResolveOperations.Describe(ch)
	ch <- m.ResolveErrors.Desc()
	ch <- m.ResolveDuration.Desc()
	m.LookupCacheOps.Describe(ch)
}
