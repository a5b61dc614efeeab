// SPDX-License-Identifier: MIT
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeFailure  = "failure"
)

var (
	// Catalog state
	storeRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "filmshelf_store_records",
		Help: "Number of video records currently held by the store",
	})

	storeMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmshelf_store_mutations_total",
		Help: "Store mutations by operation and outcome",
	}, []string{"op", "outcome"}) // op=append|update|remove, outcome=success|not_found|failure

	// Persistence
	storeFlushDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "filmshelf_store_flush_duration_seconds",
		Help:    "Time spent writing the data file",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	})

	storeFlushBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "filmshelf_store_flush_bytes",
		Help: "Size of the data file written by the last successful flush",
	})

	storeFlushFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filmshelf_store_flush_failures_total",
		Help: "Total number of failed data file writes",
	})

	storeLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmshelf_store_loads_total",
		Help: "Data file loads by trigger and outcome",
	}, []string{"trigger", "outcome"}) // trigger=startup|reload

	// Operational metrics
	configValidationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filmshelf_config_validation_errors_total",
		Help: "Total number of configuration validation errors",
	})
)

func RecordStoreRecords(n int) { storeRecords.Set(float64(n)) }

func IncStoreMutation(op, outcome string) { storeMutationsTotal.WithLabelValues(op, outcome).Inc() }

// RecordFlush records one data file write. Size is ignored on failure.
func RecordFlush(d time.Duration, size int, err error) {
	storeFlushDuration.Observe(d.Seconds())
	if err != nil {
		storeFlushFailures.Inc()
		return
	}
	storeFlushBytes.Set(float64(size))
}

func IncStoreLoad(trigger, outcome string) { storeLoadsTotal.WithLabelValues(trigger, outcome).Inc() }

func IncConfigValidationError() { configValidationErrors.Inc() }
