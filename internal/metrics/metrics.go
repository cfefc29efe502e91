package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vod_server_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vod_server_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vod_server_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vod_server_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vod_server_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vod_server_db_connections_open",
			Help: "Number of open database connections",
		},
	)
)

// Transcode job metrics
var (
	TranscodeJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vod_server_transcode_jobs_total",
			Help: "Total number of transcode job outcomes",
		},
		[]string{"outcome"}, // "started", "finished", "failed", "cached"
	)

	TranscodeJobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vod_server_transcode_job_duration_seconds",
			Help:    "Transcode job duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
	)

	TranscodeJobsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vod_server_transcode_jobs_in_progress",
			Help: "Number of transcode jobs currently in progress",
		},
	)

	TranscodeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vod_server_transcode_requests_total",
			Help: "Total number of transcode requests by resulting status",
		},
		[]string{"status"}, // "not ready", "in progress", "ready"
	)
)

// Segment gateway metrics
var (
	SegmentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vod_server_segment_requests_total",
			Help: "Total number of stream file requests",
		},
		[]string{"status"}, // "served", "rejected"
	)

	SegmentBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vod_server_segment_bytes_total",
			Help: "Total bytes served from the transcode cache",
		},
	)

	SecurityRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vod_server_security_rejections_total",
			Help: "Total number of rejected stream file requests by internal reason",
		},
		[]string{"reason"}, // "extension", "path", "not_ready"
	)
)

// Notification metrics
var (
	NotificationSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vod_server_notification_subscribers",
			Help: "Number of currently connected notification subscribers",
		},
	)

	NotificationsPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vod_server_notifications_published_total",
			Help: "Total number of notifications published",
		},
	)

	NotificationsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vod_server_notifications_dropped_total",
			Help: "Total number of notifications dropped due to slow subscribers",
		},
	)
)

// Media library metrics
var (
	LibraryAssetsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vod_server_library_assets_total",
			Help: "Total number of media assets in the library",
		},
	)

	LibraryScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vod_server_library_scans_total",
			Help: "Total number of library scans",
		},
		[]string{"status"}, // "success", "error"
	)

	LibraryScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vod_server_library_scan_duration_seconds",
			Help:    "Library scan duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)
)

// Filesystem retry metrics (NFS resilience)
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vod_server_fs_retry_attempts_total",
			Help: "Total number of filesystem operation retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vod_server_fs_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retry",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vod_server_fs_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vod_server_fs_stale_errors_total",
			Help: "Total number of NFS stale file handle errors",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vod_server_fs_retry_duration_seconds",
			Help:    "Total duration of filesystem operations including retries",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"operation", "volume"},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vod_server_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
