// Package filesystem provides resilient filesystem operations with automatic
// retry logic for NFS stale file handle errors.
//
// Media libraries are commonly mounted over NFS; transient ESTALE errors
// (errno 116) occur when files are accessed during network issues or
// server-side changes. StatWithRetry, OpenWithRetry, and ReadDirWithRetry
// wrap the corresponding os operations with exponential backoff limited to
// ESTALE errors; all other errors are returned immediately.
//
// Retry behavior is reported through an Observer (set via SetObserver) so
// this package has no dependency on the metrics package.
package filesystem
