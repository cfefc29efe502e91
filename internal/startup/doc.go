// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// This package centralizes all application configuration and provides consistent
// logging throughout the application lifecycle.
//
// # Configuration
//
// Configuration is loaded by [LoadConfig] with three layers of precedence:
// built-in defaults, an optional TOML file named by CONFIG_FILE, and
// environment variables (highest). The following settings are supported
// (environment variable name, TOML key in parentheses):
//
//   - MEDIA_DIR (media_dir): Path to media directory (default: /media)
//   - CACHE_DIR (cache_dir): Path to cache directory for transcoded output (default: /cache)
//   - DATABASE_DIR (database_dir): Path to database directory (default: /database)
//   - PORT (port): HTTP server port (default: 8080)
//   - METRICS_PORT (metrics_port): Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED (metrics_enabled): Enable or disable metrics server (default: true)
//   - ENCODE_TIMEOUT (encode_timeout): Upper bound for one conversion as Go duration (default: 2h)
//   - SCAN_INTERVAL (scan_interval): Periodic library scan interval, 0 disables (default: 6h)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_SEGMENTS (log_segments): Log individual segment requests (default: false)
//   - LOG_HEALTH_CHECKS (log_health_checks): Log health check requests (default: true)
//
// # Directory Setup
//
// The package validates and creates required directories:
//   - Database directory: Required, must be writable
//   - Transcode directory (CACHE_DIR/transcoded): Required, must be writable
//   - Media directory: Checked but not created (should be mounted)
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Lifecycle Logging
//
// The package provides structured logging functions for consistent output:
//   - [LogDatabaseInit]: Database initialization timing
//   - [LogEncoderInit]: Encoder setup and FFmpeg availability
//   - [LogRecoveryComplete]: Startup job state reconciliation
//   - [LogLibraryInit]: Library scan configuration
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server endpoints and startup duration
//   - [LogShutdownInitiated]: Graceful shutdown start
//   - [LogShutdownComplete]: Shutdown completion
//
// # Example Usage
//
//	config, err := startup.LoadConfig()
//	if err != nil {
//	    startup.LogFatal("Configuration error: %v", err)
//	}
//
//	// Initialize components...
//	startup.LogDatabaseInit(dbInitDuration)
//	startup.LogEncoderInit(config.EncodeTimeout)
//
//	// Start server...
//	startup.LogServerStarted(startup.ServerConfig{
//	    Port:            config.Port,
//	    MetricsPort:     config.MetricsPort,
//	    MetricsEnabled:  config.MetricsEnabled,
//	    StartupDuration: time.Since(startTime),
//	})
//
//	// On shutdown...
//	startup.LogShutdownInitiated("SIGTERM")
//	// ... cleanup ...
//	startup.LogShutdownComplete()
package startup
