package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetTranscodeJob retrieves a single job record by asset id.
// Returns ErrNotFound when no record exists, ErrUnavailable on store failure.
func (d *Database) GetTranscodeJob(ctx context.Context, id int64) (*TranscodeJob, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_job", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
	SELECT id, status, last_request_date, updated_at
	FROM transcode_jobs WHERE id = ?
	`

	var job TranscodeJob
	var lastRequest sql.NullInt64
	var updatedAt int64

	err = d.db.QueryRowContext(ctx, query, id).Scan(
		&job.ID, &job.Status, &lastRequest, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
		return nil, err
	}
	if err != nil {
		err = fmt.Errorf("%w: get job %d: %v", ErrUnavailable, id, err)
		return nil, err
	}

	if lastRequest.Valid {
		job.LastRequestDate = time.Unix(lastRequest.Int64, 0)
	}
	job.UpdatedAt = time.Unix(updatedAt, 0)
	return &job, nil
}

// UpsertTranscodeJob merges a partial update into the job record for id,
// creating the record if absent. The merge is a single atomic statement;
// concurrent callers for the same id must serialize externally (the
// orchestrator's per-id lock).
func (d *Database) UpsertTranscodeJob(ctx context.Context, id int64, update JobUpdate) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("upsert_job", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var status any
	if update.Status != nil {
		status = string(*update.Status)
	}
	var lastRequest any
	if update.LastRequestDate != nil {
		lastRequest = update.LastRequestDate.Unix()
	}

	// NULL parameters leave the existing column value in place.
	query := `
	INSERT INTO transcode_jobs (id, status, last_request_date)
	VALUES (?, COALESCE(?, 'not ready'), ?)
	ON CONFLICT(id) DO UPDATE SET
		status = COALESCE(?, transcode_jobs.status),
		last_request_date = COALESCE(?, transcode_jobs.last_request_date),
		updated_at = strftime('%s', 'now')
	`

	_, err = d.db.ExecContext(ctx, query, id, status, lastRequest, status, lastRequest)
	if err != nil {
		err = fmt.Errorf("%w: upsert job %d: %v", ErrUnavailable, id, err)
	}
	return err
}

// ListJobsByStatus returns all job records with the given status.
// Used at startup to recover jobs interrupted mid-conversion.
func (d *Database) ListJobsByStatus(ctx context.Context, status JobStatus) ([]TranscodeJob, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_jobs", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx,
		"SELECT id, status, last_request_date, updated_at FROM transcode_jobs WHERE status = ?",
		string(status),
	)
	if err != nil {
		err = fmt.Errorf("%w: list jobs: %v", ErrUnavailable, err)
		return nil, err
	}
	defer rows.Close()

	var jobs []TranscodeJob
	for rows.Next() {
		var job TranscodeJob
		var lastRequest sql.NullInt64
		var updatedAt int64
		if err = rows.Scan(&job.ID, &job.Status, &lastRequest, &updatedAt); err != nil {
			err = fmt.Errorf("%w: scan job: %v", ErrUnavailable, err)
			return nil, err
		}
		if lastRequest.Valid {
			job.LastRequestDate = time.Unix(lastRequest.Int64, 0)
		}
		job.UpdatedAt = time.Unix(updatedAt, 0)
		jobs = append(jobs, job)
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("%w: list jobs: %v", ErrUnavailable, err)
		return nil, err
	}
	return jobs, nil
}
