package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vod-server/internal/database"
	"vod-server/internal/library"
)

func TestListMedia(t *testing.T) {
	catalog := &fakeCatalog{
		assets: []database.MediaAsset{
			{ID: 1, Path: "/media/Movie A", Title: "Movie A", Type: "movie"},
			{ID: 2, Path: "/media/Movie B", Title: "Movie B", Type: "movie"},
		},
	}
	h := newTestHandlers(t, &fakeConductor{}, catalog)

	w := httptest.NewRecorder()
	h.ListMedia(w, httptest.NewRequest("GET", "/media", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body struct {
		Media []database.MediaAsset `json:"media"`
		Count int                   `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Count != 2 || len(body.Media) != 2 {
		t.Errorf("Expected 2 assets, got count=%d len=%d", body.Count, len(body.Media))
	}
	if body.Media[0].Title != "Movie A" {
		t.Errorf("Expected first title 'Movie A', got %q", body.Media[0].Title)
	}
}

func TestListMediaStoreOutage(t *testing.T) {
	h := newTestHandlers(t, &fakeConductor{}, &fakeCatalog{listErr: database.ErrUnavailable})

	w := httptest.NewRecorder()
	h.ListMedia(w, httptest.NewRequest("GET", "/media", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", w.Code)
	}
}

func TestGetMedia(t *testing.T) {
	t.Run("Known asset", func(t *testing.T) {
		catalog := &fakeCatalog{
			asset: &database.MediaAsset{ID: 1, Path: "/media/Movie A", Title: "Movie A", Type: "movie"},
		}
		h := newTestHandlers(t, &fakeConductor{}, catalog)

		w := httptest.NewRecorder()
		h.GetMedia(w, requestWithID("GET", "/media/1", "1"))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var asset database.MediaAsset
		if err := json.Unmarshal(w.Body.Bytes(), &asset); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if asset.Title != "Movie A" {
			t.Errorf("Expected title 'Movie A', got %q", asset.Title)
		}
	})

	t.Run("Unknown asset", func(t *testing.T) {
		h := newTestHandlers(t, &fakeConductor{}, &fakeCatalog{getErr: database.ErrNotFound})

		w := httptest.NewRecorder()
		h.GetMedia(w, requestWithID("GET", "/media/999", "999"))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})

	t.Run("Malformed id", func(t *testing.T) {
		h := newTestHandlers(t, &fakeConductor{}, &fakeCatalog{})

		w := httptest.NewRecorder()
		h.GetMedia(w, requestWithID("GET", "/media/abc", "abc"))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestTriggerScan(t *testing.T) {
	t.Run("Successful scan", func(t *testing.T) {
		catalog := &fakeCatalog{scan: library.ScanResult{Scanned: 5, Errors: 1}}
		h := newTestHandlers(t, &fakeConductor{}, catalog)

		w := httptest.NewRecorder()
		h.TriggerScan(w, httptest.NewRequest("POST", "/scan", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var result library.ScanResult
		if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if result.Scanned != 5 || result.Errors != 1 {
			t.Errorf("Unexpected scan result: %+v", result)
		}
	})

	t.Run("GET not allowed", func(t *testing.T) {
		h := newTestHandlers(t, &fakeConductor{}, &fakeCatalog{})

		w := httptest.NewRecorder()
		h.TriggerScan(w, httptest.NewRequest("GET", "/scan", nil))

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", w.Code)
		}
	})

	t.Run("Scan failure", func(t *testing.T) {
		h := newTestHandlers(t, &fakeConductor{}, &fakeCatalog{scanErr: database.ErrUnavailable})

		w := httptest.NewRecorder()
		h.TriggerScan(w, httptest.NewRequest("POST", "/scan", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", w.Code)
		}
	})
}
