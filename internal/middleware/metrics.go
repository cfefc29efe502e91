package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"vod-server/internal/metrics"
)

// metricsResponseWriter wraps http.ResponseWriter to capture the status
// code and, for streaming endpoints, the time to first byte.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode      int
	headerWritten   bool
	startTime       time.Time
	firstByteTime   time.Time
	isStreamingPath bool
}

func newMetricsResponseWriter(w http.ResponseWriter, startTime time.Time, streaming bool) *metricsResponseWriter {
	return &metricsResponseWriter{
		ResponseWriter:  w,
		statusCode:      http.StatusOK,
		startTime:       startTime,
		isStreamingPath: streaming,
	}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	if rw.headerWritten {
		return
	}
	rw.statusCode = code
	rw.headerWritten = true
	if rw.isStreamingPath && rw.firstByteTime.IsZero() {
		rw.firstByteTime = time.Now()
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *metricsResponseWriter) Write(b []byte) (int, error) {
	if !rw.headerWritten {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *metricsResponseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// GetDuration returns the duration to record for this request. Segment
// delivery can run as long as a client cares to download, so streaming
// endpoints report time to first byte instead of total transfer time.
func (rw *metricsResponseWriter) GetDuration() time.Duration {
	if rw.isStreamingPath && !rw.firstByteTime.IsZero() {
		return rw.firstByteTime.Sub(rw.startTime)
	}
	return time.Since(rw.startTime)
}

// isStreamingPath reports whether the path serves segment data.
func isStreamingPath(path string) bool {
	return strings.HasPrefix(path, "/streams/")
}

// MetricsConfig holds configuration for the metrics middleware
type MetricsConfig struct {
	// SkipPaths are paths that should not be recorded
	SkipPaths []string
}

// DefaultMetricsConfig returns the default metrics configuration
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		SkipPaths: []string{"/metrics", "/health", "/healthz", "/livez", "/readyz"},
	}
}

// Metrics returns a middleware that records Prometheus metrics
func Metrics(config MetricsConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range config.SkipPaths {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}

			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			start := time.Now()
			wrapped := newMetricsResponseWriter(w, start, isStreamingPath(r.URL.Path))

			next.ServeHTTP(wrapped, r)

			path := normalizePath(r.URL.Path)
			status := strconv.Itoa(wrapped.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(wrapped.GetDuration().Seconds())
		})
	}
}

// wildcardPrefixes maps route prefixes with per-asset suffixes to a
// single label value so metric cardinality stays bounded.
var wildcardPrefixes = []struct {
	prefix      string
	replacement string
}{
	{"/streams/", "/streams/{path}"},
	{"/transcode/request/", "/transcode/request/{id}"},
	{"/transcode/playlist/", "/transcode/playlist/{id}"},
	{"/media/", "/media/{id}"},
}

// normalizePath normalizes the path for metrics to avoid high cardinality
func normalizePath(path string) string {
	for _, w := range wildcardPrefixes {
		if strings.HasPrefix(path, w.prefix) {
			return w.replacement
		}
	}

	// Unknown deep paths get truncated rather than labeled verbatim.
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i > 4 {
			parts[i] = "{path}"
			return strings.Join(parts[:i+1], "/")
		}
	}
	return path
}
