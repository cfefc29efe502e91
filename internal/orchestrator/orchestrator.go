package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"vod-server/internal/database"
	"vod-server/internal/encoder"
	"vod-server/internal/library"
	"vod-server/internal/logging"
	"vod-server/internal/metrics"
	"vod-server/internal/notify"
	"vod-server/internal/playlist"
)

// ErrNotReady indicates a playlist was requested for a job whose
// conversion has not completed.
var ErrNotReady = errors.New("conversion not ready")

// Store is the job state store the orchestrator drives. Implemented by
// jobstore.Store.
type Store interface {
	Get(ctx context.Context, id int64) (database.TranscodeJob, error)
	Upsert(ctx context.Context, id int64, update database.JobUpdate) error
	Status(ctx context.Context, id int64) (database.JobStatus, error)
	Warm(ctx context.Context, status database.JobStatus) ([]database.TranscodeJob, error)
}

// Locator resolves asset ids to conversion sources. Implemented by
// library.Library.
type Locator interface {
	Resolve(ctx context.Context, id int64) (library.Source, error)
}

// Starter launches conversions. Implemented by encoder.Encoder.
type Starter interface {
	Start(ctx context.Context, source, destDir string) (<-chan encoder.Event, error)
}

// Publisher receives ready notifications. Implemented by notify.Hub.
type Publisher interface {
	Publish(event notify.Event)
}

// Orchestrator owns the transcode job state machine. All status
// transitions flow through here; handlers only read state and forward
// requests.
type Orchestrator struct {
	store    Store
	locator  Locator
	enc      Starter
	hub      Publisher
	cacheDir string

	lockMu sync.Mutex
	locks  map[int64]*sync.Mutex

	// live tracks ids with a conversion watcher currently running, so an
	// in-progress row orphaned by a store outage can be told apart from a
	// conversion that is actually encoding.
	liveMu sync.Mutex
	live   map[int64]struct{}

	watchers sync.WaitGroup
}

// New creates an Orchestrator writing conversion output under cacheDir.
func New(store Store, locator Locator, enc Starter, hub Publisher, cacheDir string) *Orchestrator {
	return &Orchestrator{
		store:    store,
		locator:  locator,
		enc:      enc,
		hub:      hub,
		cacheDir: cacheDir,
		locks:    make(map[int64]*sync.Mutex),
		live:     make(map[int64]struct{}),
	}
}

// CachePath returns the conversion output directory for a job. The path
// is always derived from the id, never stored.
func (o *Orchestrator) CachePath(id int64) string {
	return filepath.Join(o.cacheDir, strconv.FormatInt(id, 10))
}

// jobLock returns the mutex serializing state transitions for one id.
// The map only ever grows; ids are dense and the entries are two words.
func (o *Orchestrator) jobLock(id int64) *sync.Mutex {
	o.lockMu.Lock()
	defer o.lockMu.Unlock()

	l, ok := o.locks[id]
	if !ok {
		l = &sync.Mutex{}
		o.locks[id] = l
	}
	return l
}

func (o *Orchestrator) markLive(id int64) {
	o.liveMu.Lock()
	o.live[id] = struct{}{}
	o.liveMu.Unlock()
}

func (o *Orchestrator) clearLive(id int64) {
	o.liveMu.Lock()
	delete(o.live, id)
	o.liveMu.Unlock()
}

// conversionLive reports whether id has a watcher consuming encoder
// events right now.
func (o *Orchestrator) conversionLive(id int64) bool {
	o.liveMu.Lock()
	defer o.liveMu.Unlock()
	_, ok := o.live[id]
	return ok
}

// Request asks for asset id to be converted and reports the job's status.
// Idempotent under concurrency: any number of simultaneous requests for
// the same id start at most one conversion. A store failure fails the
// request rather than risking a duplicate encode.
func (o *Orchestrator) Request(ctx context.Context, id int64) (database.JobStatus, error) {
	// Fast path: a warm job needs no lock at all. An in-progress row only
	// short-circuits while its conversion is actually running; a row
	// orphaned by a store outage at completion time falls through to the
	// cache check below.
	status, err := o.store.Status(ctx, id)
	if err != nil {
		return "", err
	}
	if status == database.StatusReady || (status == database.StatusInProgress && o.conversionLive(id)) {
		metrics.TranscodeRequestsTotal.WithLabelValues(string(status)).Inc()
		return status, nil
	}

	lock := o.jobLock(id)
	lock.Lock()
	defer lock.Unlock()

	// Re-check under the lock: another request may have just started it.
	status, err = o.store.Status(ctx, id)
	if err != nil {
		return "", err
	}
	if status == database.StatusReady || (status == database.StatusInProgress && o.conversionLive(id)) {
		metrics.TranscodeRequestsTotal.WithLabelValues(string(status)).Inc()
		return status, nil
	}

	// Resolve before looking at the cache. An id the library does not
	// know gets rejected even if a stray rendition directory exists.
	source, err := o.locator.Resolve(ctx, id)
	if err != nil {
		return "", err
	}

	dir := o.CachePath(id)

	// A complete rendition on disk means a previous run already did the
	// work. Promote without touching the encoder.
	complete, err := playlist.Complete(dir)
	if err != nil {
		logging.Warn("Cache verification failed for job %d: %v", id, err)
	}
	if complete {
		if err := o.setStatus(ctx, id, database.StatusReady); err != nil {
			return "", err
		}
		logging.Info("Job %d promoted from cache", id)
		metrics.TranscodeJobsTotal.WithLabelValues("cached").Inc()
		metrics.TranscodeRequestsTotal.WithLabelValues(string(database.StatusReady)).Inc()
		o.notifyReadyTitle(source.Title)
		return database.StatusReady, nil
	}

	// Mark in progress before spawning so a store outage can never leave
	// an untracked encode running.
	if err := o.setStatus(ctx, id, database.StatusInProgress); err != nil {
		return "", err
	}

	events, err := o.enc.Start(ctx, source.VideoPath, dir)
	if err != nil {
		o.rollback(ctx, id)
		return "", fmt.Errorf("start conversion for job %d: %w", id, err)
	}

	o.markLive(id)
	o.watchers.Add(1)
	go o.watch(id, source.Title, events)

	logging.Info("Job %d conversion started: %s", id, source.VideoPath)
	metrics.TranscodeRequestsTotal.WithLabelValues(string(database.StatusInProgress)).Inc()
	return database.StatusInProgress, nil
}

// watch consumes one conversion's event stream and applies the terminal
// transition. Runs detached from any request.
func (o *Orchestrator) watch(id int64, title string, events <-chan encoder.Event) {
	defer o.watchers.Done()
	defer o.clearLive(id)

	// State transitions outlive the requests that caused them.
	ctx := context.Background()
	start := time.Now()

	for ev := range events {
		switch ev.Type {
		case encoder.EventStarted:
			metrics.TranscodeJobsTotal.WithLabelValues("started").Inc()
			metrics.TranscodeJobsInProgress.Inc()
			defer metrics.TranscodeJobsInProgress.Dec()

		case encoder.EventProgress:
			logging.Debug("Job %d conversion at %.1f%%", id, ev.Percent)

		case encoder.EventFinished:
			o.finish(ctx, id, title, start)

		case encoder.EventFailed:
			logging.Error("Job %d conversion failed (%s): %s", id, ev.Reason, ev.Message)
			metrics.TranscodeJobsTotal.WithLabelValues("failed").Inc()
			o.rollback(ctx, id)
		}
	}
}

// finish verifies the encoder's output and promotes the job. A clean
// exit with a broken rendition is a failure, not a ready job.
func (o *Orchestrator) finish(ctx context.Context, id int64, title string, start time.Time) {
	dir := o.CachePath(id)

	complete, err := playlist.Complete(dir)
	if err != nil || !complete {
		logging.Error("Job %d output failed verification (complete=%v err=%v)", id, complete, err)
		metrics.TranscodeJobsTotal.WithLabelValues("failed").Inc()
		o.rollback(ctx, id)
		return
	}

	if err := o.setStatus(ctx, id, database.StatusReady); err != nil {
		// The rendition is on disk; cache promotion will pick it up on
		// the next request once the store recovers.
		logging.Error("Job %d finished but could not be marked ready: %v", id, err)
		return
	}

	duration := time.Since(start)
	logging.Info("Job %d conversion finished in %v", id, duration)
	metrics.TranscodeJobsTotal.WithLabelValues("finished").Inc()
	metrics.TranscodeJobDuration.Observe(duration.Seconds())
	o.notifyReadyTitle(title)
}

// rollback returns a job to not ready and removes partial output so the
// next request starts from a clean slate.
func (o *Orchestrator) rollback(ctx context.Context, id int64) {
	dir := o.CachePath(id)
	if err := os.RemoveAll(dir); err != nil {
		logging.Warn("Failed to remove partial output for job %d: %v", id, err)
	}
	if err := o.setStatus(ctx, id, database.StatusNotReady); err != nil {
		logging.Error("Failed to roll back job %d: %v", id, err)
	}
}

func (o *Orchestrator) setStatus(ctx context.Context, id int64, status database.JobStatus) error {
	return o.store.Upsert(ctx, id, database.JobUpdate{Status: &status})
}

func (o *Orchestrator) notifyReady(id int64) {
	// Recovery promotions have no resolved source in hand; the title is
	// best-effort.
	title := strconv.FormatInt(id, 10)
	if source, err := o.locator.Resolve(context.Background(), id); err == nil {
		title = source.Title
	}
	o.notifyReadyTitle(title)
}

func (o *Orchestrator) notifyReadyTitle(title string) {
	o.hub.Publish(notify.TranscodeReady(title))
}

// Status reports a job's current status. Unknown jobs read as not ready.
func (o *Orchestrator) Status(ctx context.Context, id int64) (database.JobStatus, error) {
	return o.store.Status(ctx, id)
}

// PlaylistURL returns the client-facing playlist location for a ready
// job and records the access time. Jobs in any other state get
// ErrNotReady.
func (o *Orchestrator) PlaylistURL(ctx context.Context, id int64) (string, error) {
	status, err := o.store.Status(ctx, id)
	if err != nil {
		return "", err
	}
	if status != database.StatusReady {
		return "", fmt.Errorf("%w: job %d is %s", ErrNotReady, id, status)
	}

	// Access-time bookkeeping; serving does not depend on it.
	now := time.Now()
	if err := o.store.Upsert(ctx, id, database.JobUpdate{LastRequestDate: &now}); err != nil {
		logging.Warn("Failed to record access time for job %d: %v", id, err)
	}

	return fmt.Sprintf("/streams/%d/%s", id, playlist.Name), nil
}

// Recover reconciles persisted job state with the cache directory after a
// restart. Interrupted conversions either finished on disk, in which case
// they are promoted, or they are rolled back for a clean retry. Ready
// jobs whose rendition has vanished are demoted.
func (o *Orchestrator) Recover(ctx context.Context) error {
	stalled, err := o.store.Warm(ctx, database.StatusInProgress)
	if err != nil {
		return fmt.Errorf("list stalled jobs: %w", err)
	}
	for _, job := range stalled {
		lock := o.jobLock(job.ID)
		lock.Lock()
		complete, err := playlist.Complete(o.CachePath(job.ID))
		if err != nil {
			logging.Warn("Recovery verification failed for job %d: %v", job.ID, err)
		}
		if complete {
			if err := o.setStatus(ctx, job.ID, database.StatusReady); err == nil {
				logging.Info("Job %d recovered as ready", job.ID)
				metrics.TranscodeJobsTotal.WithLabelValues("cached").Inc()
				o.notifyReady(job.ID)
			}
		} else {
			logging.Info("Job %d was interrupted, rolling back", job.ID)
			o.rollback(ctx, job.ID)
		}
		lock.Unlock()
	}

	ready, err := o.store.Warm(ctx, database.StatusReady)
	if err != nil {
		return fmt.Errorf("list ready jobs: %w", err)
	}
	for _, job := range ready {
		lock := o.jobLock(job.ID)
		lock.Lock()
		complete, err := playlist.Complete(o.CachePath(job.ID))
		if err != nil {
			logging.Warn("Recovery verification failed for job %d: %v", job.ID, err)
		}
		if !complete {
			logging.Warn("Job %d marked ready but rendition is gone, demoting", job.ID)
			o.rollback(ctx, job.ID)
		}
		lock.Unlock()
	}

	logging.Info("Job recovery complete: %d interrupted, %d ready checked", len(stalled), len(ready))
	return nil
}

// Wait blocks until every conversion watcher has observed its terminal
// event. Used in tests and during shutdown.
func (o *Orchestrator) Wait() {
	o.watchers.Wait()
}
