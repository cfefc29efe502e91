package encoder

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"vod-server/internal/logging"
)

const probeTimeout = 30 * time.Second

// probeDuration asks ffprobe for the source's duration in seconds.
// Returns 0 when the duration cannot be determined; conversion proceeds
// without progress reporting in that case.
func (e *Encoder) probeDuration(ctx context.Context, source string) float64 {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		source,
	)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		logging.Warn("ffprobe failed for %s, progress disabled: %v", source, err)
		return 0
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(stdout.String()), 64)
	if err != nil || duration <= 0 {
		return 0
	}
	return duration
}

// progressTimeRe matches the time= field ffmpeg prints on its stderr
// status lines, e.g. "frame= 1234 ... time=00:01:23.45 bitrate=...".
var progressTimeRe = regexp.MustCompile(`time=(\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)

// parseProgressTime extracts the elapsed media time in seconds from an
// ffmpeg status line.
func parseProgressTime(line string) (float64, bool) {
	m := progressTimeRe.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.ParseFloat(m[1], 64)
	minutes, _ := strconv.ParseFloat(m[2], 64)
	seconds, _ := strconv.ParseFloat(m[3], 64)
	return hours*3600 + minutes*60 + seconds, true
}
