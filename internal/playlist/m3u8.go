package playlist

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vod-server/internal/filesystem"
)

// Name is the playlist filename the encoder writes into every job's
// output directory.
const Name = "playlist.m3u8"

// Playlist is a parsed HLS media playlist.
type Playlist struct {
	Path     string   `json:"path"`
	Segments []string `json:"segments"`
	Ended    bool     `json:"ended"`
}

// ErrIncomplete indicates a playlist exists but does not describe a
// finished conversion (missing header, no end tag, or missing segments).
var ErrIncomplete = errors.New("playlist incomplete")

// Parse reads an HLS media playlist from path. Segment URIs are returned
// in playback order. Ended reports whether the EXT-X-ENDLIST tag was
// present, i.e. the encoder finished writing the playlist.
func Parse(path string) (*Playlist, error) {
	f, err := filesystem.OpenWithRetry(path, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pl := &Playlist{Path: path}

	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			if line != "#EXTM3U" {
				return nil, fmt.Errorf("%w: %s missing #EXTM3U header", ErrIncomplete, path)
			}
			first = false
			continue
		}
		if line == "#EXT-X-ENDLIST" {
			pl.Ended = true
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		// Any non-tag line is a segment URI.
		pl.Segments = append(pl.Segments, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read playlist %s: %w", path, err)
	}
	if first {
		return nil, fmt.Errorf("%w: %s is empty", ErrIncomplete, path)
	}
	return pl, nil
}

// Complete reports whether dir holds a finished conversion: a playlist
// with an end tag whose referenced segments all exist on disk. A missing
// playlist is reported as (false, nil); any other failure is returned.
func Complete(dir string) (bool, error) {
	path := filepath.Join(dir, Name)

	pl, err := Parse(path)
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, ErrIncomplete) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !pl.Ended || len(pl.Segments) == 0 {
		return false, nil
	}

	for _, seg := range pl.Segments {
		// Remote or absolute URIs never appear in our encoder output;
		// treat them as incomplete rather than probing outside dir.
		if strings.Contains(seg, "://") || filepath.IsAbs(seg) || strings.Contains(seg, "..") {
			return false, nil
		}
		if _, err := filesystem.StatWithRetry(filepath.Join(dir, seg), filesystem.DefaultRetryConfig()); err != nil {
			if os.IsNotExist(err) {
				return false, nil
			}
			return false, err
		}
	}
	return true, nil
}
