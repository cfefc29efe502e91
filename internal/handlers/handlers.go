package handlers

import (
	"context"
	"time"

	"vod-server/internal/database"
	"vod-server/internal/library"
	"vod-server/internal/notify"
	"vod-server/internal/startup"
)

// Conductor drives transcode jobs. Implemented by orchestrator.Orchestrator.
type Conductor interface {
	Request(ctx context.Context, id int64) (database.JobStatus, error)
	Status(ctx context.Context, id int64) (database.JobStatus, error)
	PlaylistURL(ctx context.Context, id int64) (string, error)
}

// Catalog exposes the media library. Implemented by library.Library.
type Catalog interface {
	List(ctx context.Context) ([]database.MediaAsset, error)
	Get(ctx context.Context, id int64) (*database.MediaAsset, error)
	Scan(ctx context.Context) (library.ScanResult, error)
}

type Handlers struct {
	conductor    Conductor
	catalog      Catalog
	hub          *notify.Hub
	db           *database.Database
	transcodeDir string
	startedAt    time.Time
}

func New(conductor Conductor, catalog Catalog, hub *notify.Hub, db *database.Database, config *startup.Config) *Handlers {
	return &Handlers{
		conductor:    conductor,
		catalog:      catalog,
		hub:          hub,
		db:           db,
		transcodeDir: config.TranscodeDir,
		startedAt:    time.Now(),
	}
}
