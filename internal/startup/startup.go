package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"vod-server/internal/logging"

	"github.com/gorilla/mux"
	"github.com/pelletier/go-toml/v2"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	MediaDir        string
	CacheDir        string
	DatabaseDir     string
	Port            string
	MetricsPort     string
	EncodeTimeout   time.Duration
	ScanInterval    time.Duration
	LogSegments     bool
	LogHealthChecks bool
	MetricsEnabled  bool

	// Derived paths
	DatabasePath string
	TranscodeDir string
	LockPath     string
}

// fileConfig mirrors the subset of Config that can be provided via a
// TOML file. Durations are strings so the file uses the same syntax as
// the environment variables ("2h", "30m").
type fileConfig struct {
	MediaDir        *string `toml:"media_dir"`
	CacheDir        *string `toml:"cache_dir"`
	DatabaseDir     *string `toml:"database_dir"`
	Port            *string `toml:"port"`
	MetricsPort     *string `toml:"metrics_port"`
	EncodeTimeout   *string `toml:"encode_timeout"`
	ScanInterval    *string `toml:"scan_interval"`
	LogSegments     *bool   `toml:"log_segments"`
	LogHealthChecks *bool   `toml:"log_health_checks"`
	MetricsEnabled  *bool   `toml:"metrics_enabled"`
}

// LoadConfig loads and validates configuration. Defaults are overridden
// by an optional TOML file (CONFIG_FILE), which in turn is overridden by
// environment variables.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	fc, err := loadFileConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	mediaDir := getSetting("MEDIA_DIR", fc.MediaDir, "/media")
	cacheDir := getSetting("CACHE_DIR", fc.CacheDir, "/cache")
	databaseDir := getSetting("DATABASE_DIR", fc.DatabaseDir, "/database")
	port := getSetting("PORT", fc.Port, "8080")
	metricsPort := getSetting("METRICS_PORT", fc.MetricsPort, "9090")
	encodeTimeoutStr := getSetting("ENCODE_TIMEOUT", fc.EncodeTimeout, "2h")
	scanIntervalStr := getSetting("SCAN_INTERVAL", fc.ScanInterval, "6h")
	logSegments := getSettingBool("LOG_SEGMENTS", fc.LogSegments, false)
	logHealthChecks := getSettingBool("LOG_HEALTH_CHECKS", fc.LogHealthChecks, true)
	metricsEnabled := getSettingBool("METRICS_ENABLED", fc.MetricsEnabled, true)

	logging.Info("  MEDIA_DIR:         %s", mediaDir)
	logging.Info("  CACHE_DIR:         %s", cacheDir)
	logging.Info("  DATABASE_DIR:      %s", databaseDir)
	logging.Info("  PORT:              %s", port)
	logging.Info("  METRICS_PORT:      %s", metricsPort)
	logging.Info("  METRICS_ENABLED:   %v", metricsEnabled)
	logging.Info("  ENCODE_TIMEOUT:    %s", encodeTimeoutStr)
	logging.Info("  SCAN_INTERVAL:     %s", scanIntervalStr)
	logging.Info("  LOG_SEGMENTS:      %v", logSegments)
	logging.Info("  LOG_HEALTH_CHECKS: %v", logHealthChecks)
	logging.Info("  LOG_LEVEL:         %s", logging.GetLevel())

	encodeTimeout, err := time.ParseDuration(encodeTimeoutStr)
	if err != nil || encodeTimeout <= 0 {
		logging.Warn("  Invalid ENCODE_TIMEOUT, using default: 2h")
		encodeTimeout = 2 * time.Hour
	}

	scanInterval, err := time.ParseDuration(scanIntervalStr)
	if err != nil || scanInterval < 0 {
		logging.Warn("  Invalid SCAN_INTERVAL, using default: 6h")
		scanInterval = 6 * time.Hour
	}

	// Resolve paths
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	mediaDir, err = filepath.Abs(mediaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media directory path: %w", err)
	}
	logging.Info("  Media directory (absolute): %s", mediaDir)

	cacheDir, err = filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}
	logging.Info("  Cache directory (absolute): %s", cacheDir)

	databaseDir, err = filepath.Abs(databaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}
	logging.Info("  Database directory (absolute): %s", databaseDir)

	// Check/create media directory (warning only; usually a mount)
	if err := ensureDirectory(mediaDir, "media"); err != nil {
		logging.Warn("  Media directory issue: %v", err)
	}

	config := &Config{
		MediaDir:        mediaDir,
		CacheDir:        cacheDir,
		DatabaseDir:     databaseDir,
		Port:            port,
		MetricsPort:     metricsPort,
		EncodeTimeout:   encodeTimeout,
		ScanInterval:    scanInterval,
		LogSegments:     logSegments,
		LogHealthChecks: logHealthChecks,
		MetricsEnabled:  metricsEnabled,
		DatabasePath:    filepath.Join(databaseDir, "vod.db"),
		TranscodeDir:    filepath.Join(cacheDir, "transcoded"),
		LockPath:        filepath.Join(cacheDir, ".vod-server.lock"),
	}

	// Database directory is required
	if err := ensureDirectory(databaseDir, "database"); err != nil {
		return nil, fmt.Errorf("database directory error: %w", err)
	}

	logging.Debug("  Testing database directory write access...")
	if err := testWriteAccess(databaseDir); err != nil {
		return nil, fmt.Errorf("database directory is not writable (required for database): %w", err)
	}
	logging.Info("  [OK] Database directory is writable")

	// Transcode output directory is required: serving renditions is the
	// entire purpose of this server.
	if err := ensureDirectory(config.TranscodeDir, "transcode"); err != nil {
		return nil, fmt.Errorf("transcode directory error: %w", err)
	}

	logging.Debug("  Testing transcode directory write access...")
	if err := testWriteAccess(config.TranscodeDir); err != nil {
		return nil, fmt.Errorf("transcode directory is not writable (required for encoding): %w", err)
	}
	logging.Info("  [OK] Transcode directory is writable")

	return config, nil
}

// loadFileConfig reads an optional TOML configuration file. An empty
// path means no file was requested and yields an empty overlay. A path
// that cannot be read or parsed is a hard error since the operator
// asked for it explicitly.
func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}

	logging.Info("  Config file: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return fc, nil
}

// LogDatabaseInit logs database initialization
func LogDatabaseInit(duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DATABASE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Database initialized in %v", duration)
}

// LogEncoderInit logs encoder initialization and checks FFmpeg
func LogEncoderInit(timeout time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("ENCODER INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Encode timeout: %v", timeout)

	if err := checkFFmpeg(); err != nil {
		logging.Warn("  FFmpeg check failed: %v", err)
		logging.Warn("  New conversions will fail until ffmpeg is installed")
	} else {
		logging.Info("  [OK] FFmpeg is available")
	}
}

// LogRecoveryComplete logs the result of startup job recovery
func LogRecoveryComplete(duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("JOB RECOVERY")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Job state reconciled in %v", duration)
}

// LogLibraryInit logs media library initialization
func LogLibraryInit(interval time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("LIBRARY INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	if interval > 0 {
		logging.Info("  Scan interval: %v", interval)
	} else {
		logging.Info("  Periodic scanning disabled (on-demand only)")
	}
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logSegments, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		logging.Debug("")

		// Group routes by prefix for cleaner output
		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		for _, group := range groupKeys {
			groupRoutes := groups[group]
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}

			for _, route := range groupRoutes {
				methodPadded := fmt.Sprintf("%-6s", route.Method)
				logging.Debug("    %s %s", methodPadded, route.Path)
			}
			logging.Debug("")
		}
	}

	logging.Info("  HTTP logging enabled")
	if logSegments {
		logging.Info("    Segment logging: ON")
	} else {
		logging.Info("    Segment logging: OFF (set LOG_SEGMENTS=true to enable)")
	}
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 {
		return ""
	}

	first := parts[0]

	if first == "transcode" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "transcode/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Local access:")
	logging.Info("    Application:   http://localhost:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://localhost:%s/metrics", config.MetricsPort)
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
 _    ______  ____     _____
| |  / / __ \/ __ \   / ___/___  ______   _____  _____
| | / / / / / / / /   \__ \/ _ \/ ___/ | / / _ \/ ___/
| |/ / /_/ / /_/ /   ___/ /  __/ /   | |/ /  __/ /
|___/\____/_____/   /____/\___/_/    |___/\___/_/

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")

	if name == "media" && logging.IsDebugEnabled() {
		entries, err := os.ReadDir(path)
		if err == nil {
			fileCount := 0
			dirCount := 0
			for _, e := range entries {
				if e.IsDir() {
					dirCount++
				} else {
					fileCount++
				}
			}
			logging.Debug("    Contents: %d files, %d directories (top level)", fileCount, dirCount)
		}
	}

	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Write access was confirmed regardless
	}
	return nil
}

func checkFFmpeg() error {
	path, err := exec.LookPath("ffmpeg")
	if err != nil {
		return fmt.Errorf("ffmpeg not found in PATH")
	}
	logging.Debug("  FFmpeg path: %s", path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg", "-version")
	output, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("failed to get ffmpeg version: %w", err)
	}

	lines := strings.Split(string(output), "\n")
	if len(lines) > 0 {
		logging.Debug("  FFmpeg version: %s", strings.TrimSpace(lines[0]))
	}

	return nil
}

// getSetting resolves a string setting: environment variable first, then
// the config file value, then the built-in default.
func getSetting(key string, fileValue *string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != nil && *fileValue != "" {
		return *fileValue
	}
	return defaultValue
}

func getSettingBool(key string, fileValue *bool, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		if fileValue != nil {
			return *fileValue
		}
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		if fileValue != nil {
			return *fileValue
		}
		return defaultValue
	}
	return parsed
}
