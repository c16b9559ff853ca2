package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var recordsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "migration_records_processed_total",
	Help: "Records fully migrated, labelled by source kind",
}, []string{"source"})

var recordErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "migration_record_errors_total",
	Help: "Records skipped or failed, labelled by source kind",
}, []string{"source"})

var clientsDeduplicated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "migration_clients_deduplicated_total",
	Help: "Client records matched to an already-migrated row by name",
})

var backendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "migration_backend_latency_seconds",
	Help:    "Latency of target backend calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"operation"})

func IncrementProcessed(source string) {
	recordsProcessed.WithLabelValues(source).Inc()
}

func IncrementErrors(source string) {
	recordErrors.WithLabelValues(source).Inc()
}

func IncrementDeduplicated() {
	clientsDeduplicated.Inc()
}

func CaptureBackendLatency(operation string, timeElapsed time.Duration) {
	backendLatency.WithLabelValues(operation).Observe(timeElapsed.Seconds())
}
