// Package playlist parses HLS media playlists and verifies conversion
// output. Complete is the single source of truth for "this job's cache
// directory holds a servable result": the orchestrator uses it both to
// promote finished encodes and to recover ready jobs after a restart.
package playlist
