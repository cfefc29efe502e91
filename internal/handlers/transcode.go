package handlers

import (
	"errors"
	"net/http"

	"vod-server/internal/database"
	"vod-server/internal/library"
	"vod-server/internal/logging"
	"vod-server/internal/orchestrator"
)

// TranscodeRequest ensures a conversion exists for the asset and reports
// its current state.
// GET /transcode/request/{id}
func (h *Handlers) TranscodeRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(r)
	if !ok {
		writeJSONError(w, "invalid asset id", http.StatusBadRequest)
		return
	}

	status, err := h.conductor.Request(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound), errors.Is(err, library.ErrNoVideo):
			// A request for an asset that cannot be located is a caller
			// error, not a missing resource: nothing retryable exists.
			writeJSONError(w, "asset cannot be converted", http.StatusBadRequest)
		case errors.Is(err, database.ErrUnavailable):
			logging.Error("Transcode request for job %d failed: %v", id, err)
			writeJSONError(w, "service unavailable", http.StatusServiceUnavailable)
		default:
			logging.Error("Transcode request for job %d failed: %v", id, err)
			writeJSONError(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]database.JobStatus{"status": status})
}

// TranscodePlaylist returns the playlist URL for a completed conversion.
// The job must be ready; anything else is reported as not found so clients
// fall back to requesting a conversion.
// GET /transcode/playlist/{id}
func (h *Handlers) TranscodePlaylist(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(r)
	if !ok {
		writeJSONError(w, "invalid asset id", http.StatusBadRequest)
		return
	}

	url, err := h.conductor.PlaylistURL(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, orchestrator.ErrNotReady), errors.Is(err, database.ErrNotFound):
			writeJSONError(w, "playlist not available", http.StatusNotFound)
		case errors.Is(err, database.ErrUnavailable):
			logging.Error("Playlist lookup for job %d failed: %v", id, err)
			writeJSONError(w, "service unavailable", http.StatusServiceUnavailable)
		default:
			logging.Error("Playlist lookup for job %d failed: %v", id, err)
			writeJSONError(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"playlistUrl": url})
}
