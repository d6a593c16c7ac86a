package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Job metrics
var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webtools_jobs_total",
			Help: "Total number of transcode jobs by asset kind and outcome",
		},
		[]string{"kind", "status"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "webtools_job_duration_seconds",
			Help:    "Transcode job duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"kind"},
	)

	InputBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webtools_input_bytes_total",
			Help: "Total source bytes consumed by successful jobs",
		},
		[]string{"kind"},
	)

	OutputBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webtools_output_bytes_total",
			Help: "Total output bytes produced by successful jobs",
		},
		[]string{"kind"},
	)
)

// Watcher metrics
var (
	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webtools_watcher_events_total",
			Help: "Filesystem events observed in live mode by operation",
		},
		[]string{"op"},
	)

	WatcherErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webtools_watcher_errors_total",
			Help: "Watcher-level errors (logged, non-fatal)",
		},
	)

	BackfillRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "webtools_backfill_running",
			Help: "1 while the initial backfill pass is in progress",
		},
	)

	BackfillFilesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webtools_backfill_files_total",
			Help: "Files processed during the initial backfill pass",
		},
	)
)

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	kinds := []string{"raster", "vector", "audio", "video", "font-ttf", "font-woff2"}

	for _, kind := range kinds {
		JobsTotal.WithLabelValues(kind, "success")
		JobsTotal.WithLabelValues(kind, "error")
		JobDuration.WithLabelValues(kind)
		InputBytesTotal.WithLabelValues(kind)
		OutputBytesTotal.WithLabelValues(kind)
	}

	for _, op := range []string{"create", "write", "remove", "rename"} {
		WatcherEventsTotal.WithLabelValues(op)
	}
}
