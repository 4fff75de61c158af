package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for batch runs
var (
	// batchItemsTotal counts processed batch items by outcome.
	batchItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "urlrota_batch_items_total",
		Help: "Total number of batch items processed, by outcome",
	}, []string{"outcome"})

	// batchRunsTotal counts finished batch runs by status.
	batchRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "urlrota_batch_runs_total",
		Help: "Total number of finished batch runs, by status",
	}, []string{"status"})

	// historyWriteFailures counts open-history rows that could not be written.
	historyWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "urlrota_history_write_failures_total",
		Help: "Total number of failed open-history writes",
	})

	// sleepSeconds observes the pacing pauses actually drawn.
	sleepSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "urlrota_pacing_sleep_seconds",
		Help:    "Pacing pause drawn between launches in seconds",
		Buckets: prometheus.LinearBuckets(0, 15, 9),
	})
)

// storeEventsTotal counts store changes seen by the listeners WatchStore registers.
var storeEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "urlrota_store_events_total",
	Help: "Total number of store change events, by event",
}, []string{"event"})
