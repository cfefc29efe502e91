package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Transcode job outcomes ---
	for _, outcome := range []string{"started", "finished", "failed", "cached"} {
		TranscodeJobsTotal.WithLabelValues(outcome)
	}
	for _, status := range []string{"not ready", "in progress", "ready"} {
		TranscodeRequestsTotal.WithLabelValues(status)
	}

	// --- Segment gateway ---
	for _, status := range []string{"served", "rejected"} {
		SegmentRequestsTotal.WithLabelValues(status)
	}
	for _, reason := range []string{"extension", "path", "not_ready"} {
		SecurityRejectionsTotal.WithLabelValues(reason)
	}

	// --- Library scans ---
	for _, status := range []string{"success", "partial", "error"} {
		LibraryScansTotal.WithLabelValues(status)
	}

	// --- DB query operations ---
	for _, op := range []string{"initialize_schema", "get_job", "upsert_job",
		"touch_job", "list_jobs", "get_media", "upsert_media", "list_media",
		"count_media"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	// --- Filesystem retry metrics (per retry-operation × volume) ---
	volumes := []string{"media", "cache", "database", "unknown"}
	retryOps := []string{"stat", "open", "readdir"}

	for _, op := range retryOps {
		for _, vol := range volumes {
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}
}
