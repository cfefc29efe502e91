package database

import "time"

// JobStatus is the lifecycle state of a transcode job. The string values are
// the wire format returned by the transcode API.
type JobStatus string

const (
	// StatusNotReady means no playable rendition exists for the asset.
	StatusNotReady JobStatus = "not ready"
	// StatusInProgress means an encoder is currently producing the rendition.
	StatusInProgress JobStatus = "in progress"
	// StatusReady means a complete rendition exists in the transcode cache.
	StatusReady JobStatus = "ready"
)

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	switch s {
	case StatusNotReady, StatusInProgress, StatusReady:
		return true
	}
	return false
}

// TranscodeJob is the durable record of an asset's conversion state.
// The cache path is derived from the id and never stored.
type TranscodeJob struct {
	ID              int64     `json:"id"`
	Status          JobStatus `json:"status"`
	LastRequestDate time.Time `json:"lastRequestDate,omitempty"`
	UpdatedAt       time.Time `json:"updatedAt,omitempty"`
}

// JobUpdate is a partial update merged into a transcode job record.
// Nil fields are left untouched.
type JobUpdate struct {
	Status          *JobStatus
	LastRequestDate *time.Time
}

// MediaAsset is a library entry mapping a stable id to a media folder.
type MediaAsset struct {
	ID    int64  `json:"id"`
	Path  string `json:"path"`
	Title string `json:"title"`
	Type  string `json:"type"`
}
