// Package library maps stable asset ids to media folders on disk.
//
// Each top-level folder under the media root is one asset. The scan
// indexes folders into the media table; Resolve picks the actual video
// file at conversion time, so the table never holds file paths that can
// rot when a folder's contents change.
package library
