package playlist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const endedPlaylist = `#EXTM3U
#EXT-X-VERSION:7
#EXT-X-TARGETDURATION:6
#EXT-X-MEDIA-SEQUENCE:0
#EXT-X-PLAYLIST-TYPE:VOD
#EXT-X-INDEPENDENT-SEGMENTS
#EXTINF:6.000000,
segment000.ts
#EXTINF:6.000000,
segment001.ts
#EXTINF:4.500000,
segment002.ts
#EXT-X-ENDLIST
`

func writePlaylist(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, Name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write playlist: %v", err)
	}
	return path
}

func writeSegments(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("ts"), 0644); err != nil {
			t.Fatalf("failed to write segment %s: %v", name, err)
		}
	}
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	path := writePlaylist(t, dir, endedPlaylist)

	pl, err := Parse(path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := []string{"segment000.ts", "segment001.ts", "segment002.ts"}
	if len(pl.Segments) != len(want) {
		t.Fatalf("expected %d segments, got %d", len(want), len(pl.Segments))
	}
	for i, seg := range want {
		if pl.Segments[i] != seg {
			t.Errorf("segment %d: expected %q, got %q", i, seg, pl.Segments[i])
		}
	}
	if !pl.Ended {
		t.Error("expected Ended for playlist with end tag")
	}
}

func TestParseNoEndTag(t *testing.T) {
	dir := t.TempDir()
	path := writePlaylist(t, dir, "#EXTM3U\n#EXTINF:6.0,\nsegment000.ts\n")

	pl, err := Parse(path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if pl.Ended {
		t.Error("expected Ended=false for truncated playlist")
	}
	if len(pl.Segments) != 1 {
		t.Errorf("expected 1 segment, got %d", len(pl.Segments))
	}
}

func TestParseRejectsNonPlaylist(t *testing.T) {
	dir := t.TempDir()
	path := writePlaylist(t, dir, "not a playlist\n")

	if _, err := Parse(path); !errors.Is(err, ErrIncomplete) {
		t.Errorf("expected ErrIncomplete, got %v", err)
	}
}

func TestParseEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writePlaylist(t, dir, "")

	if _, err := Parse(path); !errors.Is(err, ErrIncomplete) {
		t.Errorf("expected ErrIncomplete, got %v", err)
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), Name))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	dir := t.TempDir()
	writePlaylist(t, dir, endedPlaylist)
	writeSegments(t, dir, "segment000.ts", "segment001.ts", "segment002.ts")

	ok, err := Complete(dir)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if !ok {
		t.Error("expected complete directory to verify")
	}
}

func TestCompleteMissingSegment(t *testing.T) {
	dir := t.TempDir()
	writePlaylist(t, dir, endedPlaylist)
	writeSegments(t, dir, "segment000.ts", "segment002.ts")

	ok, err := Complete(dir)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if ok {
		t.Error("directory missing a segment must not verify")
	}
}

func TestCompleteNoEndTag(t *testing.T) {
	dir := t.TempDir()
	writePlaylist(t, dir, "#EXTM3U\n#EXTINF:6.0,\nsegment000.ts\n")
	writeSegments(t, dir, "segment000.ts")

	ok, err := Complete(dir)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if ok {
		t.Error("playlist without end tag must not verify")
	}
}

func TestCompleteMissingPlaylist(t *testing.T) {
	ok, err := Complete(t.TempDir())
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if ok {
		t.Error("empty directory must not verify")
	}
}

func TestCompleteNoSegments(t *testing.T) {
	dir := t.TempDir()
	writePlaylist(t, dir, "#EXTM3U\n#EXT-X-ENDLIST\n")

	ok, err := Complete(dir)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if ok {
		t.Error("playlist with no segments must not verify")
	}
}

func TestCompleteRejectsEscapingSegmentURIs(t *testing.T) {
	tests := []struct {
		name string
		uri  string
	}{
		{"parent traversal", "../other/segment000.ts"},
		{"absolute path", "/etc/passwd"},
		{"remote uri", "https://example.com/segment000.ts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writePlaylist(t, dir, "#EXTM3U\n#EXTINF:6.0,\n"+tt.uri+"\n#EXT-X-ENDLIST\n")

			ok, err := Complete(dir)
			if err != nil {
				t.Fatalf("complete failed: %v", err)
			}
			if ok {
				t.Errorf("segment uri %q must not verify", tt.uri)
			}
		})
	}
}
