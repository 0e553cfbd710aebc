// Package metrics provides Prometheus metrics for storage adapters.
package metrics

import (
	"errors"
	"time"

	interf "github.com/SchnorcherSepp/storagefs/interfaces"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Operation metrics
	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storagefs_operations_total",
			Help: "Total number of adapter operations",
		},
		[]string{"backend", "operation", "status"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storagefs_operation_duration_seconds",
			Help:    "Adapter operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	// Content transfer metrics
	bytesRead = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storagefs_bytes_read_total",
			Help: "Total bytes returned by Read",
		},
		[]string{"backend"},
	)

	bytesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storagefs_bytes_written_total",
			Help: "Total bytes passed to Write",
		},
		[]string{"backend"},
	)

	// Progress metrics
	progressEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storagefs_progress_events_total",
			Help: "Total progress reports of adapter operations",
		},
		[]string{"backend", "operation"},
	)
)

// Status values of storagefs_operations_total.
const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// WriteTextfile writes all metrics of the default registry in the text format to filename,
// for the textfile collector of the node exporter. The file is replaced atomically.
func WriteTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, prometheus.DefaultGatherer)
}

// RecordOperation records one adapter operation.
func RecordOperation(backend, operation string, duration time.Duration, err error) {
	operationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	operationsTotal.WithLabelValues(backend, operation, statusOf(err)).Inc()
}

// RecordRead records the size of read content.
func RecordRead(backend string, bytes int) {
	bytesRead.WithLabelValues(backend).Add(float64(bytes))
}

// RecordWrite records the size of written content.
func RecordWrite(backend string, bytes int) {
	bytesWritten.WithLabelValues(backend).Add(float64(bytes))
}

// RecordProgress records one progress report.
func RecordProgress(backend, operation string) {
	progressEvents.WithLabelValues(backend, operation).Inc()
}

// RegisterCache exports the number of cached paths as storagefs_cache_entries.
// Registering a second cache for the same backend is an error.
func RegisterCache(reg prometheus.Registerer, backend string, cache interf.Cache) error {
	gauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "storagefs_cache_entries",
			Help:        "Number of paths in the content cache",
			ConstLabels: prometheus.Labels{"backend": backend},
		},
		func() float64 { return float64(cache.Len()) },
	)
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return reg.Register(gauge)
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, interf.ErrFileNotFound):
		return StatusNotFound
	default:
		return StatusError
	}
}
