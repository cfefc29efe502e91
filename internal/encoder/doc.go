// Package encoder wraps ffmpeg for HLS conversions.
//
// Each conversion streams lifecycle events to its caller and is bounded
// by a wall-clock timeout rather than the requesting client's context,
// so one client disconnecting never kills an encode other clients are
// waiting on. The orchestrator owns what the events mean for job state;
// this package only supervises the process.
package encoder
