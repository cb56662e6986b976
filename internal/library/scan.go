package library

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhowden/tag"
)

var audioExts = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".oga":  true,
	".wav":  true,
	".aiff": true,
	".m4a":  true,
	".mp4":  true,
	".aac":  true,
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ScanDir reads every subdirectory of dir that contains audio files and
// returns it as an Album. Missing or unreadable directories are not an
// error; they simply yield no albums.
func ScanDir(dir string, log *slog.Logger) []*Album {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Error("music path unreadable", "path", dir, "error", err)
		return nil
	}

	var albums []*Album
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		album := scanAlbumDir(filepath.Join(dir, entry.Name()))
		if album == nil {
			log.Warn("no audio tracks in album directory, skipping", "dir", entry.Name())
			continue
		}
		albums = append(albums, album)
	}
	return albums
}

func scanAlbumDir(dir string) *Album {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var trackPaths []string
	var artwork string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		switch {
		case audioExts[ext]:
			trackPaths = append(trackPaths, filepath.Join(dir, entry.Name()))
		case imageExts[ext] && artwork == "":
			artwork = filepath.Join(dir, entry.Name())
		}
	}
	if len(trackPaths) == 0 {
		return nil
	}
	sort.Strings(trackPaths)

	album := &Album{
		Name:    filepath.Base(dir),
		Path:    dir,
		Type:    TypeAlbum,
		Artwork: artwork,
	}

	for i, path := range trackPaths {
		name, albumName := readTrackTags(path)
		if i == 0 && albumName != "" {
			album.Name = albumName
		}
		album.Tracks = append(album.Tracks, Track{
			Path:  path,
			Name:  name,
			Index: i,
		})
	}
	return album
}

// readTrackTags returns the track title and album name from the file's tag
// metadata, falling back to the file stem when the file has no usable tags.
func readTrackTags(path string) (title, album string) {
	title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	f, err := os.Open(path)
	if err != nil {
		return title, ""
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return title, ""
	}
	if t := m.Title(); t != "" {
		title = t
	}
	return title, m.Album()
}
