package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vod-server/internal/database"
	"vod-server/internal/encoder"
	"vod-server/internal/filesystem"
	"vod-server/internal/handlers"
	"vod-server/internal/jobstore"
	"vod-server/internal/library"
	"vod-server/internal/logging"
	"vod-server/internal/memory"
	"vod-server/internal/metrics"
	"vod-server/internal/middleware"
	"vod-server/internal/notify"
	"vod-server/internal/orchestrator"
	"vod-server/internal/startup"

	"github.com/gofrs/flock"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Set GOMEMLIMIT from container limits before anything allocates
	memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Only one instance may own the transcode cache. A second instance
	// would race the first on job state and partial renditions.
	cacheLock := flock.New(config.LockPath)
	locked, err := cacheLock.TryLock()
	if err != nil {
		startup.LogFatal("Failed to acquire cache lock %s: %v", config.LockPath, err)
	}
	if !locked {
		startup.LogFatal("Cache lock %s is held by another instance", config.LockPath)
	}
	defer func() {
		if err := cacheLock.Unlock(); err != nil {
			logging.Warn("Failed to release cache lock: %v", err)
		}
	}()

	ctx := context.Background()

	// Initialize database
	dbStart := time.Now()
	db, err := database.New(ctx, config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn("Failed to close database: %v", err)
		}
	}()
	startup.LogDatabaseInit(time.Since(dbStart))

	// Initialize job store, library, encoder, and notification hub
	store := jobstore.New(db)
	lib := library.New(db, config.MediaDir)

	startup.LogEncoderInit(config.EncodeTimeout)
	enc := encoder.New(config.EncodeTimeout)

	hub := notify.NewHub()

	orch := orchestrator.New(store, lib, enc, hub, config.TranscodeDir)

	// Reconcile job state against what actually survived on disk
	recoverStart := time.Now()
	if err := orch.Recover(ctx); err != nil {
		startup.LogFatal("Job recovery failed: %v", err)
	}
	startup.LogRecoveryComplete(time.Since(recoverStart))

	// Initial library scan plus an optional periodic rescan
	startup.LogLibraryInit(config.ScanInterval)
	go func() {
		if _, err := lib.Scan(ctx); err != nil {
			logging.Error("Initial library scan failed: %v", err)
		}
	}()
	if config.ScanInterval > 0 {
		go func() {
			ticker := time.NewTicker(config.ScanInterval)
			defer ticker.Stop()
			for range ticker.C {
				if _, err := lib.Scan(ctx); err != nil {
					logging.Error("Periodic library scan failed: %v", err)
				}
			}
		}()
	}

	// Periodic DB metrics refresh
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			db.UpdateDBMetrics()
		}
	}()

	// Initialize handlers
	h := handlers.New(orch, lib, hub, db, config)

	// Setup router
	router := setupRouter(h)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogSegments, config.LogHealthChecks)

	// Apply middleware: metrics innermost, then logging, then compression
	var handler http.Handler = router
	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogSegments = config.LogSegments
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler = middleware.Logger(loggingConfig)(handler)

	handler = middleware.Compression(middleware.DefaultCompressionConfig())(handler)

	// Create server. WriteTimeout stays 0 because segment delivery has its
	// own per-write timeout handling.
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Metrics server on its own port
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		filesystem.SetObserver(metrics.NewFilesystemObserver())
		buildInfo := startup.GetBuildInfo()
		metrics.SetAppInfo(buildInfo.Version, buildInfo.Commit, buildInfo.GoVersion)

		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:         ":" + config.MetricsPort,
			Handler:      metricsMux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}

		go func() {
			if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv, orch, enc, hub)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Transcode control
	r.HandleFunc("/transcode/request/{id:[0-9]+}", h.TranscodeRequest).Methods("GET")
	r.HandleFunc("/transcode/playlist/{id:[0-9]+}", h.TranscodePlaylist).Methods("GET")

	// Segment delivery. The id pattern is loose on purpose: malformed ids
	// must reach the handler so they get the same opaque rejection as
	// every other invalid stream request.
	r.HandleFunc("/streams/{id}/{file}", h.StreamFile).Methods("GET")

	// Notifications
	r.HandleFunc("/notifications", h.Notifications).Methods("GET")

	// Library
	r.HandleFunc("/media", h.ListMedia).Methods("GET")
	r.HandleFunc("/media/{id:[0-9]+}", h.GetMedia).Methods("GET")
	r.HandleFunc("/scan", h.TriggerScan).Methods("POST")

	return r
}

func handleShutdown(srv, metricsSrv *http.Server, orch *orchestrator.Orchestrator, enc *encoder.Encoder, hub *notify.Hub) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping encoder")
	enc.Cleanup()
	startup.LogShutdownStepComplete("Encoder stopped")

	startup.LogShutdownStep("Waiting for job watchers")
	orch.Wait()
	startup.LogShutdownStepComplete("Job watchers drained")

	startup.LogShutdownStep("Closing notification hub")
	hub.Close()
	startup.LogShutdownStepComplete("Notification hub closed")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownComplete()
}
