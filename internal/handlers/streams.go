package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"vod-server/internal/database"
	"vod-server/internal/filesystem"
	"vod-server/internal/logging"
	"vod-server/internal/metrics"
	"vod-server/internal/streaming"

	"github.com/gorilla/mux"
)

// contentTypes maps the two allowed rendition file extensions to their
// media types.
var contentTypes = map[string]string{
	".m3u8": "application/vnd.apple.mpegurl",
	".ts":   "video/mp2t",
}

// rejectStream answers every invalid stream request identically. The
// internal reason goes to the security log and metrics only; the client
// learns nothing about which check failed.
func rejectStream(w http.ResponseWriter, r *http.Request, reason, detail string) {
	logging.Security("Rejected stream request from %s: %s (%s %s)", r.RemoteAddr, detail, reason, r.URL.Path)
	metrics.SecurityRejectionsTotal.WithLabelValues(reason).Inc()
	metrics.SegmentRequestsTotal.WithLabelValues("rejected").Inc()
	http.Error(w, "invalid request", http.StatusBadRequest)
}

// StreamFile serves one rendition file from the transcode cache.
// GET /streams/{id}/{file}
//
// The file name must be a bare playlist or segment name. Requests for
// anything else, or for a job that is not fully converted, are refused
// with an opaque 400.
func (h *Handlers) StreamFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil || id <= 0 {
		rejectStream(w, r, "path", "malformed asset id")
		return
	}

	file := vars["file"]
	if file == "" || strings.ContainsAny(file, "/\\") || strings.Contains(file, "..") {
		rejectStream(w, r, "path", "path traversal attempt")
		return
	}

	ext := strings.ToLower(filepath.Ext(file))
	if _, ok := contentTypes[ext]; !ok {
		rejectStream(w, r, "extension", "disallowed extension "+ext)
		return
	}

	// Only fully converted jobs are served. Store errors fail closed:
	// when job state cannot be confirmed, nothing leaves the cache.
	status, err := h.conductor.Status(r.Context(), id)
	if err != nil || status != database.StatusReady {
		rejectStream(w, r, "not_ready", "job not ready")
		return
	}

	path := filepath.Join(h.transcodeDir, strconv.FormatInt(id, 10), file)
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		rejectStream(w, r, "path", "rendition file missing")
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("Failed to close rendition file %s: %v", path, err)
		}
	}()

	w.Header().Set("Content-Type", contentTypes[ext])
	w.Header().Set("Cache-Control", "no-cache")

	n, err := streaming.StreamWithTimeout(r.Context(), w, f, streaming.DefaultTimeoutWriterConfig())
	metrics.SegmentBytesTotal.Add(float64(n))
	if err != nil {
		// Headers are already sent at this point, so just log.
		logging.Debug("Stream of %s ended early: %v", path, err)
	}

	metrics.SegmentRequestsTotal.WithLabelValues("served").Inc()
}
