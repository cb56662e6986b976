// Package ripper turns inserted audio CDs into albums in the music
// directory. It watches the removable-media mount point, runs abcde for the
// actual rip, and decorates the result with cover art from the Cover Art
// Archive.
package ripper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// mountSettleDelay gives the automounter time to finish before the new
// mount point is inspected.
const mountSettleDelay = 2 * time.Second

const defaultDevice = "/dev/cdrom"

// Ripper watches for audio CDs and rips them into the output directory.
type Ripper struct {
	log        *slog.Logger
	volumesDir string
	outputDir  string
	device     string
	meta       *MetadataClient

	// OnRipped is called after a disc lands in the output directory, so the
	// catalog can pick it up.
	OnRipped func()

	// runRip is swapped out in tests.
	runRip func(ctx context.Context) error
}

func New(volumesDir, outputDir string, log *slog.Logger) *Ripper {
	r := &Ripper{
		log:        log,
		volumesDir: volumesDir,
		outputDir:  outputDir,
		device:     defaultDevice,
		meta:       NewMetadataClient(),
	}
	r.runRip = r.runAbcde
	return r
}

// Run watches the volumes directory until ctx is cancelled. A missing
// directory is an error; on a headless box that means the automounter is
// not set up.
func (r *Ripper) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(r.volumesDir); err != nil {
		return fmt.Errorf("watch %s: %w", r.volumesDir, err)
	}
	r.log.Info("ripper watching for discs", "dir", r.volumesDir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			r.handleMount(ctx, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Warn("volume watcher error", "error", err)
		}
	}
}

func (r *Ripper) handleMount(ctx context.Context, path string) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(mountSettleDelay):
	}

	if !isAudioCDMount(path) {
		r.log.Debug("mounted volume is not an audio cd", "path", path)
		return
	}

	r.log.Info("audio cd detected", "mount", path)
	if err := r.ripDisc(ctx); err != nil {
		r.log.Error("rip failed", "error", err)
	}
}

// ripDisc runs the rip and then resolves cover art for the new album.
func (r *Ripper) ripDisc(ctx context.Context) error {
	before := dirNames(r.outputDir)

	if err := r.runRip(ctx); err != nil {
		return err
	}

	albumDir := newDirSince(r.outputDir, before)
	if albumDir == "" {
		return fmt.Errorf("rip produced no album directory under %s", r.outputDir)
	}
	r.log.Info("disc ripped", "album_dir", albumDir)

	r.fetchCoverArt(albumDir)

	if r.OnRipped != nil {
		r.OnRipped()
	}
	return nil
}

// runAbcde shells out to abcde in non-interactive mode, encoding to ogg and
// ejecting the disc when done.
func (r *Ripper) runAbcde(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "abcde",
		"-N",
		"-o", "ogg",
		"-x",
		"-d", r.device)
	cmd.Dir = r.outputDir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("abcde: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// fetchCoverArt looks the album up on MusicBrainz and drops a cover.jpg in
// the album directory. Failures only cost the artwork, never the rip.
func (r *Ripper) fetchCoverArt(albumDir string) {
	artist, album := splitArtistAlbum(filepath.Base(albumDir))

	release, err := r.meta.SearchRelease(artist, album)
	if err != nil {
		r.log.Warn("release lookup failed", "album", album, "error", err)
		return
	}
	if release == nil {
		r.log.Info("no release match for ripped disc", "album", album)
		return
	}

	art, err := r.meta.GetCoverArt(release.ID)
	if err != nil {
		r.log.Warn("cover art fetch failed", "release", release.ID, "error", err)
		return
	}
	if art == nil {
		return
	}

	dest := filepath.Join(albumDir, "cover.jpg")
	if err := os.WriteFile(dest, art, 0o644); err != nil {
		r.log.Warn("cover art write failed", "path", dest, "error", err)
		return
	}
	r.log.Info("cover art saved", "path", dest)
}

// isAudioCDMount reports whether a mount point looks like an audio disc:
// the automounter exposes those as a directory of .cda entries, or an empty
// directory when the disc has no data session at all.
func isAudioCDMount(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return false
	}
	if len(entries) == 0 {
		return true
	}
	for _, e := range entries {
		if !strings.EqualFold(filepath.Ext(e.Name()), ".cda") {
			return false
		}
	}
	return true
}

// splitArtistAlbum parses abcde's "Artist-Album" directory naming. A name
// without a separator is taken as the album title.
func splitArtistAlbum(name string) (artist, album string) {
	parts := strings.SplitN(name, "-", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return "", strings.TrimSpace(name)
}

func dirNames(dir string) map[string]bool {
	names := make(map[string]bool)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return names
	}
	for _, e := range entries {
		if e.IsDir() {
			names[e.Name()] = true
		}
	}
	return names
}

// newDirSince returns the path of a directory that appeared since the
// before snapshot, or "" when nothing new exists.
func newDirSince(dir string, before map[string]bool) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		if e.IsDir() && !before[e.Name()] {
			return filepath.Join(dir, e.Name())
		}
	}
	return ""
}
