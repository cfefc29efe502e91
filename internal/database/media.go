package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetMediaAsset retrieves a library entry by id.
func (d *Database) GetMediaAsset(ctx context.Context, id int64) (*MediaAsset, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_media", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var asset MediaAsset
	err = d.db.QueryRowContext(ctx,
		"SELECT id, path, title, type FROM media WHERE id = ?", id,
	).Scan(&asset.ID, &asset.Path, &asset.Title, &asset.Type)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
		return nil, err
	}
	if err != nil {
		err = fmt.Errorf("%w: get media %d: %v", ErrUnavailable, id, err)
		return nil, err
	}
	return &asset, nil
}

// UpsertMediaAsset inserts a library entry or refreshes the title/type of an
// existing one, keyed by folder path so ids stay stable across rescans.
// The record's id is populated on return.
func (d *Database) UpsertMediaAsset(ctx context.Context, asset *MediaAsset) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("upsert_media", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
	INSERT INTO media (path, title, type)
	VALUES (?, ?, ?)
	ON CONFLICT(path) DO UPDATE SET
		title = excluded.title,
		type = excluded.type,
		updated_at = strftime('%s', 'now')
	`

	if _, err = d.db.ExecContext(ctx, query, asset.Path, asset.Title, asset.Type); err != nil {
		err = fmt.Errorf("%w: upsert media %s: %v", ErrUnavailable, asset.Path, err)
		return err
	}

	err = d.db.QueryRowContext(ctx,
		"SELECT id FROM media WHERE path = ?", asset.Path,
	).Scan(&asset.ID)
	if err != nil {
		err = fmt.Errorf("%w: resolve media id for %s: %v", ErrUnavailable, asset.Path, err)
	}
	return err
}

// ListMediaAssets returns all library entries ordered by title.
func (d *Database) ListMediaAssets(ctx context.Context) ([]MediaAsset, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_media", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx,
		"SELECT id, path, title, type FROM media ORDER BY title COLLATE NOCASE",
	)
	if err != nil {
		err = fmt.Errorf("%w: list media: %v", ErrUnavailable, err)
		return nil, err
	}
	defer rows.Close()

	var assets []MediaAsset
	for rows.Next() {
		var asset MediaAsset
		if err = rows.Scan(&asset.ID, &asset.Path, &asset.Title, &asset.Type); err != nil {
			err = fmt.Errorf("%w: scan media: %v", ErrUnavailable, err)
			return nil, err
		}
		assets = append(assets, asset)
	}
	if err = rows.Err(); err != nil {
		err = fmt.Errorf("%w: list media: %v", ErrUnavailable, err)
		return nil, err
	}
	return assets, nil
}

// CountMediaAssets returns the number of library entries.
func (d *Database) CountMediaAssets(ctx context.Context) (int, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("count_media", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var count int
	err = d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM media").Scan(&count)
	if err != nil {
		err = fmt.Errorf("%w: count media: %v", ErrUnavailable, err)
		return 0, err
	}
	return count, nil
}
