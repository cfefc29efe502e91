// Package logging provides leveled logging for the VOD server.
//
// Levels are configured via the LOG_LEVEL environment variable (debug, info,
// warn, error) or DEBUG=true as a shortcut for debug level. Security events
// from the segment gateway are logged through Security and bypass level
// filtering.
package logging
