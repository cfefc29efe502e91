package encoder

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"vod-server/internal/logging"
	"vod-server/internal/playlist"
)

// DefaultTimeout bounds a single conversion when no override is configured.
const DefaultTimeout = 2 * time.Hour

// Encoder spawns and supervises ffmpeg HLS conversions. Each conversion
// reports through its own event channel; the processes map lets shutdown
// kill everything still running.
type Encoder struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration

	processMu sync.Mutex
	processes map[string]*exec.Cmd
}

// New creates an Encoder. Timeout bounds each conversion; zero selects
// DefaultTimeout.
func New(timeout time.Duration) *Encoder {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Encoder{
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
		timeout:     timeout,
		processes:   make(map[string]*exec.Cmd),
	}
}

// hlsArgs builds the ffmpeg invocation for converting source into an HLS
// rendition under destDir. Streams are copied, not re-encoded; the point
// of the conversion is segmentation, not format change.
func hlsArgs(source, destDir string) []string {
	return []string{
		"-i", source,
		"-c", "copy",
		"-hls_time", "6",
		"-hls_playlist_type", "vod",
		"-hls_list_size", "0",
		"-hls_flags", "independent_segments",
		"-hls_segment_type", "mpegts",
		"-hls_segment_filename", filepath.Join(destDir, "segment%03d.ts"),
		"-f", "hls",
		filepath.Join(destDir, playlist.Name),
	}
}

// Start begins converting source into destDir and returns the conversion's
// event stream. The returned channel is closed after the terminal event.
//
// The conversion is detached from ctx's cancellation: many clients may be
// waiting on one shared encode, so a single disconnecting client must not
// kill it. Only the configured timeout bounds the process.
func (e *Encoder) Start(ctx context.Context, source, destDir string) (<-chan Event, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory %s: %w", destDir, err)
	}

	events := make(chan Event, 16)
	go e.run(context.WithoutCancel(ctx), source, destDir, events)
	return events, nil
}

func (e *Encoder) run(ctx context.Context, source, destDir string, events chan<- Event) {
	defer close(events)

	if _, err := os.Stat(source); err != nil {
		logging.Error("Conversion source missing: %s: %v", source, err)
		events <- Event{Type: EventFailed, Reason: ReasonSourceMissing, Message: err.Error()}
		return
	}

	// Duration drives progress percentages; without it the conversion
	// still runs, just silently.
	duration := e.probeDuration(ctx, source)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.ffmpegPath, hlsArgs(source, destDir)...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		events <- Event{Type: EventFailed, Reason: ReasonSpawnFailed, Message: err.Error()}
		return
	}

	if err := cmd.Start(); err != nil {
		logging.Error("Failed to spawn encoder for %s: %v", source, err)
		events <- Event{Type: EventFailed, Reason: ReasonSpawnFailed, Message: err.Error()}
		return
	}

	// The job is only started once the process actually exists.
	events <- Event{Type: EventStarted}

	e.processMu.Lock()
	e.processes[destDir] = cmd
	e.processMu.Unlock()
	defer func() {
		e.processMu.Lock()
		delete(e.processes, destDir)
		e.processMu.Unlock()
	}()

	// ffmpeg writes progress lines to stderr. Keep a tail of it for the
	// failure message; progress events are best-effort.
	var tail []string
	scanner := bufio.NewScanner(stderr)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		tail = append(tail, line)
		if len(tail) > 20 {
			tail = tail[1:]
		}
		if duration <= 0 {
			continue
		}
		if elapsed, ok := parseProgressTime(line); ok {
			percent := elapsed / duration * 100
			if percent > 100 {
				percent = 100
			}
			select {
			case events <- Event{Type: EventProgress, Percent: percent}:
			default:
				// A slow consumer must not stall the encoder.
			}
		}
	}

	err = cmd.Wait()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			logging.Error("Conversion timed out after %v: %s", e.timeout, source)
			events <- Event{Type: EventFailed, Reason: ReasonTimeout, Message: ctx.Err().Error()}
			return
		}
		msg := err.Error()
		if len(tail) > 0 {
			msg = fmt.Sprintf("%v: %s", err, tail[len(tail)-1])
		}
		logging.Error("Encoder exited with error for %s: %s", source, msg)
		events <- Event{Type: EventFailed, Reason: ReasonExitedNonZero, Message: msg}
		return
	}

	events <- Event{Type: EventFinished, Percent: 100}
}

// Cleanup kills every conversion still running. Called on shutdown.
func (e *Encoder) Cleanup() {
	e.processMu.Lock()
	defer e.processMu.Unlock()

	for destDir, cmd := range e.processes {
		if cmd.Process != nil {
			logging.Info("Killing encoder process for: %s", destDir)
			if err := cmd.Process.Kill(); err != nil {
				logging.Warn("failed to kill encoder process for %s: %v", destDir, err)
			}
		}
	}
}

// Active returns the number of conversions currently running.
func (e *Encoder) Active() int {
	e.processMu.Lock()
	defer e.processMu.Unlock()
	return len(e.processes)
}
