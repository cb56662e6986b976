package library

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pistream/pistream/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("not really audio"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()

	albumDir := filepath.Join(dir, "My Album")
	if err := os.Mkdir(albumDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(albumDir, "02 second.mp3"))
	writeFile(t, filepath.Join(albumDir, "01 first.mp3"))
	writeFile(t, filepath.Join(albumDir, "cover.jpg"))
	writeFile(t, filepath.Join(albumDir, "notes.txt"))

	emptyDir := filepath.Join(dir, "Empty")
	if err := os.Mkdir(emptyDir, 0o755); err != nil {
		t.Fatal(err)
	}

	albums := ScanDir(dir, discardLogger())
	if len(albums) != 1 {
		t.Fatalf("got %d albums, want 1", len(albums))
	}

	a := albums[0]
	if a.Type != TypeAlbum {
		t.Errorf("Type = %q, want album", a.Type)
	}
	// Untagged files fall back to directory / stem naming.
	if a.Name != "My Album" {
		t.Errorf("Name = %q, want %q", a.Name, "My Album")
	}
	if len(a.Tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(a.Tracks))
	}
	if a.Tracks[0].Name != "01 first" || a.Tracks[1].Name != "02 second" {
		t.Errorf("tracks out of order: %q, %q", a.Tracks[0].Name, a.Tracks[1].Name)
	}
	if filepath.Base(a.Artwork) != "cover.jpg" {
		t.Errorf("Artwork = %q, want cover.jpg", a.Artwork)
	}
}

func TestScanDirMissingPath(t *testing.T) {
	albums := ScanDir("/does/not/exist", discardLogger())
	if albums != nil {
		t.Errorf("got %d albums for missing path, want none", len(albums))
	}
}

func TestFromConfigStream(t *testing.T) {
	albums := FromConfig([]config.AlbumConfig{
		{Name: "FIP", Type: "stream", Path: "http://icecast.radiofrance.fr/fip.mp3"},
		{Type: "stream", Path: "http://example.com/other"},
	}, discardLogger())

	if len(albums) != 2 {
		t.Fatalf("got %d albums, want 2", len(albums))
	}
	if albums[0].Name != "FIP" || albums[0].Type != TypeStream {
		t.Errorf("unexpected first album: %+v", albums[0])
	}
	if albums[1].Name != "Unknown Album" {
		t.Errorf("missing name not defaulted: %q", albums[1].Name)
	}
}

func TestFromConfigExplicitTracks(t *testing.T) {
	albums := FromConfig([]config.AlbumConfig{
		{
			Name:   "Mix",
			Type:   "album",
			Path:   "/music/mix",
			Tracks: []string{"/music/mix/a.mp3", "/music/mix/b.mp3"},
		},
	}, discardLogger())

	if len(albums) != 1 {
		t.Fatalf("got %d albums, want 1", len(albums))
	}
	a := albums[0]
	if len(a.Tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(a.Tracks))
	}
	if a.Tracks[1].Index != 1 {
		t.Errorf("track index = %d, want 1", a.Tracks[1].Index)
	}
	if !a.MultiTrack() {
		t.Error("MultiTrack() = false for album with tracks")
	}
}
