package datastore

import (
	"sync"
	"time"

	"github.com/datacube/mosaic-go/internal/observability/metrics"
)

var (
	metricsMu        sync.RWMutex
	datastoreMetrics *metrics.DatastoreMetrics
)

// SetMetrics wires Prometheus instrumentation into the datastore. Safe to
// call at any time; a nil receiver disables recording.
func SetMetrics(m *metrics.DatastoreMetrics) {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	datastoreMetrics = m
}

// recordOperation records a completed datastore operation when metrics are wired.
func recordOperation(operation string, err error, start time.Time) {
	metricsMu.RLock()
	m := datastoreMetrics
	metricsMu.RUnlock()
	if m != nil {
		m.RecordOperation(operation, err, time.Since(start))
	}
}

// recordTaskCount updates the persisted task count gauge when metrics are wired.
func recordTaskCount(count int64) {
	metricsMu.RLock()
	m := datastoreMetrics
	metricsMu.RUnlock()
	if m != nil {
		m.SetTaskCount(count)
	}
}
