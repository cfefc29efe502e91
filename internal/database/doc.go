// Package database provides the SQLite durable layer for the VOD server.
//
// Two tables are maintained: transcode_jobs, the authoritative record of each
// asset's conversion state, and media, the library mapping stable asset ids
// to folders on disk. The database uses WAL mode with a busy timeout so the
// request path and background encode watchers can write concurrently.
//
// Store failures surface as ErrUnavailable; callers must treat a failed
// upsert as not persisted. The in-memory read-through mirror lives in the
// jobstore package, not here.
package database
