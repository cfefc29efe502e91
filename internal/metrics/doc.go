// Package metrics provides Prometheus instrumentation for the VOD server.
//
// All metrics are prefixed with "vod_server_" to avoid naming collisions.
// Categories:
//
//   - HTTP: request counts, durations, and in-flight gauge (recorded by the
//     middleware package)
//   - Database: query counts, durations, and connection gauge
//   - Transcode: job outcomes, durations, and in-progress gauge
//   - Segment gateway: served/rejected counts, bytes served, and
//     security-relevant rejection reasons
//   - Notifications: subscriber gauge, published and dropped counts
//   - Library: asset gauge and scan counters
//   - Filesystem: NFS retry behavior (attempts, successes, stale handles)
//
// InitializeMetrics pre-populates known label combinations so that dashboards
// see every series from the first scrape.
package metrics
