// Package orchestrator drives the transcode job state machine.
//
// A job moves not ready -> in progress -> ready, and only ever forward
// except for the failure rollback to not ready. Per-id locks make the
// check-then-start sequence atomic, so a burst of identical requests
// starts exactly one conversion. Completed output is verified on disk
// before a job is promoted, both after an encode and when recovering
// state at startup.
package orchestrator
