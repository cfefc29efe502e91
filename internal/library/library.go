package library

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"vod-server/internal/database"
	"vod-server/internal/filesystem"
	"vod-server/internal/logging"
	"vod-server/internal/metrics"
	"vod-server/internal/workers"
)

// ErrNoVideo indicates an asset folder exists but contains no playable
// video file.
var ErrNoVideo = errors.New("no video file in asset folder")

// videoExtensions lists the container formats the encoder accepts as input.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpg":  true,
	".mpeg": true,
	".ts":   true,
}

// Source is a resolved conversion input.
type Source struct {
	// VideoPath is the absolute path of the file to feed the encoder.
	VideoPath string
	// Title is the asset's display name, published with ready notifications.
	Title string
}

// Library resolves asset ids to source files and keeps the asset table in
// sync with the folders under the media root.
type Library struct {
	db       *database.Database
	mediaDir string
	scanMu   sync.Mutex
}

// New creates a Library over mediaDir backed by db.
func New(db *database.Database, mediaDir string) *Library {
	return &Library{db: db, mediaDir: mediaDir}
}

// Resolve maps an asset id to its conversion source. The asset's folder is
// read at call time so a file added since the last scan is still found.
// Returns database.ErrNotFound for unknown ids and ErrNoVideo when the
// folder holds no video file.
func (l *Library) Resolve(ctx context.Context, id int64) (Source, error) {
	asset, err := l.db.GetMediaAsset(ctx, id)
	if err != nil {
		return Source{}, err
	}

	video, err := largestVideo(asset.Path)
	if err != nil {
		return Source{}, err
	}
	return Source{VideoPath: video, Title: asset.Title}, nil
}

// largestVideo returns the largest video file directly inside dir.
// Folders shipping multiple cuts or sample files alongside the feature
// are common; the feature is reliably the biggest file.
func largestVideo(dir string) (string, error) {
	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())
	if err != nil {
		return "", fmt.Errorf("read asset folder %s: %w", dir, err)
	}

	var best string
	var bestSize int64 = -1
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !videoExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logging.Warn("Skipping unreadable file %s: %v", entry.Name(), err)
			continue
		}
		if info.Size() > bestSize {
			best = filepath.Join(dir, entry.Name())
			bestSize = info.Size()
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w: %s", ErrNoVideo, dir)
	}
	return best, nil
}

// ScanResult summarizes a library scan.
type ScanResult struct {
	Scanned int `json:"scanned"`
	Errors  int `json:"errors"`
}

// Scan walks the top level of the media root and upserts one asset per
// folder, keyed by path so ids survive rescans. Folders are processed by a
// worker pool sized for I/O-bound work. Concurrent scans serialize.
func (l *Library) Scan(ctx context.Context) (ScanResult, error) {
	l.scanMu.Lock()
	defer l.scanMu.Unlock()

	start := time.Now()
	logging.Info("Scanning media library at %s", l.mediaDir)

	entries, err := filesystem.ReadDirWithRetry(l.mediaDir, filesystem.DefaultRetryConfig())
	if err != nil {
		metrics.LibraryScansTotal.WithLabelValues("error").Inc()
		return ScanResult{}, fmt.Errorf("read media root: %w", err)
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	result := ScanResult{}

	numWorkers := workers.ForIO(8)
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for dir := range jobs {
				asset := &database.MediaAsset{
					Path:  dir,
					Title: filepath.Base(dir),
					Type:  "movie",
				}
				err := l.db.UpsertMediaAsset(ctx, asset)
				mu.Lock()
				if err != nil {
					result.Errors++
					logging.Error("Failed to index %s: %v", dir, err)
				} else {
					result.Scanned++
				}
				mu.Unlock()
			}
		}()
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		select {
		case jobs <- filepath.Join(l.mediaDir, entry.Name()):
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			metrics.LibraryScansTotal.WithLabelValues("error").Inc()
			return result, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	duration := time.Since(start)
	metrics.LibraryScanDuration.Observe(duration.Seconds())
	if result.Errors > 0 {
		metrics.LibraryScansTotal.WithLabelValues("partial").Inc()
	} else {
		metrics.LibraryScansTotal.WithLabelValues("success").Inc()
	}

	if count, err := l.db.CountMediaAssets(ctx); err == nil {
		metrics.LibraryAssetsTotal.Set(float64(count))
	}

	logging.Info("Library scan complete: %d assets, %d errors in %v",
		result.Scanned, result.Errors, duration)
	return result, nil
}

// List returns all indexed assets ordered by title.
func (l *Library) List(ctx context.Context) ([]database.MediaAsset, error) {
	return l.db.ListMediaAssets(ctx)
}

// Get returns a single asset by id.
func (l *Library) Get(ctx context.Context, id int64) (*database.MediaAsset, error) {
	return l.db.GetMediaAsset(ctx, id)
}
