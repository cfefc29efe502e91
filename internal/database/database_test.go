package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := New(context.Background(), filepath.Join(t.TempDir(), "vod.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return db
}

func TestJobStatusValid(t *testing.T) {
	tests := []struct {
		status JobStatus
		valid  bool
	}{
		{StatusNotReady, true},
		{StatusInProgress, true},
		{StatusReady, true},
		{JobStatus("done"), false},
		{JobStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Valid(); got != tt.valid {
				t.Errorf("Valid(%q) = %v, want %v", tt.status, got, tt.valid)
			}
		})
	}
}

func TestGetTranscodeJobNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetTranscodeJob(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertTranscodeJobCreate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	status := StatusInProgress
	if err := db.UpsertTranscodeJob(ctx, 42, JobUpdate{Status: &status}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	job, err := db.GetTranscodeJob(ctx, 42)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if job.ID != 42 {
		t.Errorf("expected id 42, got %d", job.ID)
	}
	if job.Status != StatusInProgress {
		t.Errorf("expected status %q, got %q", StatusInProgress, job.Status)
	}
	if !job.LastRequestDate.IsZero() {
		t.Errorf("expected zero last request date, got %v", job.LastRequestDate)
	}
}

func TestUpsertTranscodeJobPartialMerge(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	status := StatusReady
	if err := db.UpsertTranscodeJob(ctx, 7, JobUpdate{Status: &status}); err != nil {
		t.Fatalf("upsert status failed: %v", err)
	}

	// A last-request-only update must not clobber the status.
	now := time.Now().Truncate(time.Second)
	if err := db.UpsertTranscodeJob(ctx, 7, JobUpdate{LastRequestDate: &now}); err != nil {
		t.Fatalf("upsert last request failed: %v", err)
	}

	job, err := db.GetTranscodeJob(ctx, 7)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if job.Status != StatusReady {
		t.Errorf("status clobbered by partial update: got %q", job.Status)
	}
	if !job.LastRequestDate.Equal(now) {
		t.Errorf("expected last request %v, got %v", now, job.LastRequestDate)
	}

	// And vice versa: a status-only update keeps the timestamp.
	rollback := StatusNotReady
	if err := db.UpsertTranscodeJob(ctx, 7, JobUpdate{Status: &rollback}); err != nil {
		t.Fatalf("upsert rollback failed: %v", err)
	}
	job, err = db.GetTranscodeJob(ctx, 7)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if job.Status != StatusNotReady {
		t.Errorf("expected status %q, got %q", StatusNotReady, job.Status)
	}
	if !job.LastRequestDate.Equal(now) {
		t.Errorf("last request date clobbered by status update: got %v", job.LastRequestDate)
	}
}

func TestUpsertTranscodeJobEmptyUpdateDefaults(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Creating a record with no fields set yields the not-ready default.
	if err := db.UpsertTranscodeJob(ctx, 1, JobUpdate{}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	job, err := db.GetTranscodeJob(ctx, 1)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if job.Status != StatusNotReady {
		t.Errorf("expected default status %q, got %q", StatusNotReady, job.Status)
	}
}

func TestListJobsByStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	inProgress := StatusInProgress
	ready := StatusReady
	for id, status := range map[int64]*JobStatus{1: &inProgress, 2: &ready, 3: &inProgress} {
		if err := db.UpsertTranscodeJob(ctx, id, JobUpdate{Status: status}); err != nil {
			t.Fatalf("upsert %d failed: %v", id, err)
		}
	}

	jobs, err := db.ListJobsByStatus(ctx, StatusInProgress)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 in-progress jobs, got %d", len(jobs))
	}
	for _, job := range jobs {
		if job.Status != StatusInProgress {
			t.Errorf("job %d has status %q", job.ID, job.Status)
		}
	}
}

func TestMediaAssetRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	asset := &MediaAsset{Path: "/media/Movie A", Title: "Movie A", Type: "movie"}
	if err := db.UpsertMediaAsset(ctx, asset); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if asset.ID == 0 {
		t.Fatal("expected id to be populated")
	}

	got, err := db.GetMediaAsset(ctx, asset.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != "Movie A" || got.Path != "/media/Movie A" {
		t.Errorf("unexpected asset: %+v", got)
	}
}

func TestMediaAssetStableID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := &MediaAsset{Path: "/media/Movie A", Title: "Movie A", Type: "movie"}
	if err := db.UpsertMediaAsset(ctx, first); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	// Rescanning the same folder must keep the id stable.
	second := &MediaAsset{Path: "/media/Movie A", Title: "Movie A (remastered)", Type: "movie"}
	if err := db.UpsertMediaAsset(ctx, second); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("id changed across rescans: %d != %d", first.ID, second.ID)
	}

	got, err := db.GetMediaAsset(ctx, first.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != "Movie A (remastered)" {
		t.Errorf("title not refreshed: %q", got.Title)
	}
}

func TestListAndCountMediaAssets(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, title := range []string{"Zebra", "alpha", "Monkey"} {
		asset := &MediaAsset{Path: "/media/" + title, Title: title, Type: "movie"}
		if err := db.UpsertMediaAsset(ctx, asset); err != nil {
			t.Fatalf("upsert %s failed: %v", title, err)
		}
	}

	assets, err := db.ListMediaAssets(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(assets) != 3 {
		t.Fatalf("expected 3 assets, got %d", len(assets))
	}
	if assets[0].Title != "alpha" {
		t.Errorf("expected case-insensitive title ordering, got %q first", assets[0].Title)
	}

	count, err := db.CountMediaAssets(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
}

func TestGetMediaAssetNotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetMediaAsset(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
