package jobstore

import (
	"context"
	"errors"
	"sync"

	"vod-server/internal/database"
	"vod-server/internal/logging"
)

// Store layers a mutex-guarded in-memory mirror over the durable job table.
// Reads hit the mirror first and fall back to SQLite, populating the mirror
// on the way back. Writes go to both; a durable write failure is surfaced to
// the caller and the mirror entry is invalidated so the next read re-checks
// the database rather than serving a state that was never persisted.
type Store struct {
	db *database.Database

	mu   sync.RWMutex
	jobs map[int64]database.TranscodeJob
}

// New creates a Store backed by db with an empty mirror.
func New(db *database.Database) *Store {
	return &Store{
		db:   db,
		jobs: make(map[int64]database.TranscodeJob),
	}
}

// Get returns the job record for id. A mirror hit never touches the
// database; a miss reads through and caches the result. A missing record
// is reported as database.ErrNotFound, store failures as
// database.ErrUnavailable.
func (s *Store) Get(ctx context.Context, id int64) (database.TranscodeJob, error) {
	s.mu.RLock()
	job, ok := s.jobs[id]
	s.mu.RUnlock()
	if ok {
		return job, nil
	}

	fetched, err := s.db.GetTranscodeJob(ctx, id)
	if err != nil {
		return database.TranscodeJob{}, err
	}

	s.mu.Lock()
	// A concurrent Upsert may have populated the mirror while we were
	// reading; its state is newer than ours.
	if cached, ok := s.jobs[id]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.jobs[id] = *fetched
	s.mu.Unlock()
	return *fetched, nil
}

// Upsert merges update into the record for id, durably and in the mirror.
// If the durable write fails the mirror entry is dropped and the error is
// returned; callers must treat the update as not applied.
func (s *Store) Upsert(ctx context.Context, id int64, update database.JobUpdate) error {
	if err := s.db.UpsertTranscodeJob(ctx, id, update); err != nil {
		s.mu.Lock()
		delete(s.jobs, id)
		s.mu.Unlock()
		logging.Error("Job %d upsert failed, mirror invalidated: %v", id, err)
		return err
	}

	s.mu.Lock()
	job, ok := s.jobs[id]
	if !ok {
		job = database.TranscodeJob{ID: id, Status: database.StatusNotReady}
	}
	if update.Status != nil {
		job.Status = *update.Status
	}
	if update.LastRequestDate != nil {
		job.LastRequestDate = *update.LastRequestDate
	}
	s.jobs[id] = job
	s.mu.Unlock()
	return nil
}

// Status is a convenience read returning only the job status.
// An absent record reads as not ready.
func (s *Store) Status(ctx context.Context, id int64) (database.JobStatus, error) {
	job, err := s.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return database.StatusNotReady, nil
	}
	if err != nil {
		return "", err
	}
	return job.Status, nil
}

// Warm preloads the mirror with all records of the given status. Used at
// startup so recovery does not race request-path reads against the database.
func (s *Store) Warm(ctx context.Context, status database.JobStatus) ([]database.TranscodeJob, error) {
	jobs, err := s.db.ListJobsByStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for _, job := range jobs {
		s.jobs[job.ID] = job
	}
	s.mu.Unlock()
	return jobs, nil
}

// Invalidate drops the mirror entry for id, forcing the next Get to read
// from the database.
func (s *Store) Invalidate(id int64) {
	s.mu.Lock()
	delete(s.jobs, id)
	s.mu.Unlock()
}
