package handlers

import (
	"errors"
	"net/http"

	"vod-server/internal/database"
	"vod-server/internal/logging"
)

// ListMedia returns all known media assets.
// GET /media
func (h *Handlers) ListMedia(w http.ResponseWriter, r *http.Request) {
	assets, err := h.catalog.List(r.Context())
	if err != nil {
		logging.Error("Failed to list media assets: %v", err)
		if errors.Is(err, database.ErrUnavailable) {
			writeJSONError(w, "service unavailable", http.StatusServiceUnavailable)
		} else {
			writeJSONError(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"media": assets,
		"count": len(assets),
	})
}

// GetMedia returns a single media asset by id.
// GET /media/{id}
func (h *Handlers) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := assetID(r)
	if !ok {
		writeJSONError(w, "invalid asset id", http.StatusBadRequest)
		return
	}

	asset, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			writeJSONError(w, "asset not found", http.StatusNotFound)
		case errors.Is(err, database.ErrUnavailable):
			logging.Error("Failed to get media asset %d: %v", id, err)
			writeJSONError(w, "service unavailable", http.StatusServiceUnavailable)
		default:
			logging.Error("Failed to get media asset %d: %v", id, err)
			writeJSONError(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, asset)
}

// TriggerScan runs a library scan and reports what it found.
// POST /media/scan
func (h *Handlers) TriggerScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := h.catalog.Scan(r.Context())
	if err != nil {
		logging.Error("Library scan failed: %v", err)
		writeJSONError(w, "scan failed", http.StatusInternalServerError)
		return
	}

	logging.Info("Library scan complete: %d assets, %d errors", result.Scanned, result.Errors)

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, result)
}
