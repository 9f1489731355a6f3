// Package metrics exposes Prometheus instrumentation for the history daemon.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EntriesInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipman_entries_inserted_total",
		Help: "no. of new history entries",
	})
	EntriesBumped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipman_entries_bumped_total",
		Help: "no. of captures deduplicated into an existing entry",
	})
	EntriesEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipman_entries_evicted_total",
		Help: "no. of entries removed by retention",
	})
	EntriesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipman_entries_deleted_total",
		Help: "no. of entries deleted on request",
	})
	CapturesSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipman_captures_suppressed_total",
		Help: "no. of clipboard changes ignored because we wrote them",
	})
	CapturesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clipman_captures_dropped_total",
			Help: "no. of clipboard changes not recorded",
		},
		[]string{"reason"},
	)
	ImageCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipman_image_cache_hits_total",
		Help: "no. of image encodings served from cache",
	})
	ImageCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clipman_image_cache_misses_total",
		Help: "no. of image encodings computed",
	})
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clipman_query_duration_seconds",
			Help:    "history query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clipman_ipc_command_duration_seconds",
			Help:    "IPC command duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command", "status"},
	)
	ActiveEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "clipman_active_entries",
		Help: "no. of entries currently stored",
	})
)
