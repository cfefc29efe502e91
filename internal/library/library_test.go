package library

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"vod-server/internal/database"
)

func newTestLibrary(t *testing.T) (*Library, string) {
	t.Helper()
	db, err := database.New(context.Background(), filepath.Join(t.TempDir(), "vod.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	mediaDir := t.TempDir()
	return New(db, mediaDir), mediaDir
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func TestScanIndexesFolders(t *testing.T) {
	lib, mediaDir := newTestLibrary(t)
	ctx := context.Background()

	for _, name := range []string{"Movie A", "Movie B", "Movie C"} {
		writeFile(t, filepath.Join(mediaDir, name, "feature.mp4"), 10)
	}
	// Loose files and hidden directories at the root are not assets.
	writeFile(t, filepath.Join(mediaDir, "stray.mp4"), 10)
	writeFile(t, filepath.Join(mediaDir, ".stfolder", "marker"), 1)

	result, err := lib.Scan(ctx)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if result.Scanned != 3 {
		t.Errorf("expected 3 scanned folders, got %d", result.Scanned)
	}
	if result.Errors != 0 {
		t.Errorf("expected no errors, got %d", result.Errors)
	}

	assets, err := lib.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("expected 3 assets, got %d", len(assets))
	}
	if assets[0].Title != "Movie A" {
		t.Errorf("expected first asset Movie A, got %q", assets[0].Title)
	}
}

func TestRescanKeepsIDsStable(t *testing.T) {
	lib, mediaDir := newTestLibrary(t)
	ctx := context.Background()

	writeFile(t, filepath.Join(mediaDir, "Movie A", "feature.mp4"), 10)

	if _, err := lib.Scan(ctx); err != nil {
		t.Fatalf("first scan failed: %v", err)
	}
	before, err := lib.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if _, err := lib.Scan(ctx); err != nil {
		t.Fatalf("second scan failed: %v", err)
	}
	after, err := lib.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(before) != 1 || len(after) != 1 {
		t.Fatalf("expected 1 asset before and after, got %d and %d", len(before), len(after))
	}
	if before[0].ID != after[0].ID {
		t.Errorf("asset id changed across rescans: %d != %d", before[0].ID, after[0].ID)
	}
}

func TestResolvePicksLargestVideo(t *testing.T) {
	lib, mediaDir := newTestLibrary(t)
	ctx := context.Background()

	dir := filepath.Join(mediaDir, "Movie A")
	writeFile(t, filepath.Join(dir, "sample.mp4"), 10)
	writeFile(t, filepath.Join(dir, "feature.mkv"), 1000)
	writeFile(t, filepath.Join(dir, "subtitles.srt"), 5000)
	writeFile(t, filepath.Join(dir, "cover.jpg"), 2000)

	if _, err := lib.Scan(ctx); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	assets, err := lib.List(ctx)
	if err != nil || len(assets) != 1 {
		t.Fatalf("expected 1 asset, got %d (err %v)", len(assets), err)
	}

	source, err := lib.Resolve(ctx, assets[0].ID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if filepath.Base(source.VideoPath) != "feature.mkv" {
		t.Errorf("expected feature.mkv, got %s", source.VideoPath)
	}
	if source.Title != "Movie A" {
		t.Errorf("expected title Movie A, got %q", source.Title)
	}
}

func TestResolveUnknownID(t *testing.T) {
	lib, _ := newTestLibrary(t)

	_, err := lib.Resolve(context.Background(), 999)
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveFolderWithoutVideo(t *testing.T) {
	lib, mediaDir := newTestLibrary(t)
	ctx := context.Background()

	writeFile(t, filepath.Join(mediaDir, "Movie A", "notes.txt"), 10)

	if _, err := lib.Scan(ctx); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	assets, err := lib.List(ctx)
	if err != nil || len(assets) != 1 {
		t.Fatalf("expected 1 asset, got %d (err %v)", len(assets), err)
	}

	_, err = lib.Resolve(ctx, assets[0].ID)
	if !errors.Is(err, ErrNoVideo) {
		t.Errorf("expected ErrNoVideo, got %v", err)
	}
}

func TestResolveSeesNewFilesWithoutRescan(t *testing.T) {
	lib, mediaDir := newTestLibrary(t)
	ctx := context.Background()

	dir := filepath.Join(mediaDir, "Movie A")
	writeFile(t, filepath.Join(dir, "notes.txt"), 10)
	if _, err := lib.Scan(ctx); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	assets, err := lib.List(ctx)
	if err != nil || len(assets) != 1 {
		t.Fatalf("expected 1 asset, got %d (err %v)", len(assets), err)
	}

	// The video arrives after the scan; Resolve reads the folder live.
	writeFile(t, filepath.Join(dir, "feature.mp4"), 100)

	source, err := lib.Resolve(ctx, assets[0].ID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if filepath.Base(source.VideoPath) != "feature.mp4" {
		t.Errorf("expected feature.mp4, got %s", source.VideoPath)
	}
}

func TestScanEmptyRoot(t *testing.T) {
	lib, _ := newTestLibrary(t)

	result, err := lib.Scan(context.Background())
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if result.Scanned != 0 || result.Errors != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}
