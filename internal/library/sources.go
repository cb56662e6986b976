package library

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/gofeed"

	"github.com/pistream/pistream/internal/config"
)

// FromConfig builds albums from config-declared items. Podcast feeds are
// fetched eagerly so their episode lists are available as tracks; a feed
// that cannot be fetched yields an error for that item but does not abort
// the others.
func FromConfig(items []config.AlbumConfig, log *slog.Logger) []*Album {
	var albums []*Album
	for _, item := range items {
		album := &Album{
			Name:    item.Name,
			Path:    item.Path,
			Type:    ItemType(item.Type),
			Artwork: item.Artwork,
		}
		if album.Name == "" {
			album.Name = "Unknown Album"
		}
		for i, path := range item.Tracks {
			album.Tracks = append(album.Tracks, Track{Path: path, Name: trackNameFromIndex(i), Index: i})
		}
		if album.Type == TypePodcast {
			if err := loadPodcastFeed(album, item.Path); err != nil {
				log.Error("podcast feed fetch failed", "name", album.Name, "url", item.Path, "error", err)
				continue
			}
		}
		albums = append(albums, album)
	}
	return albums
}

// loadPodcastFeed fills an album's name, artwork and track list from an RSS
// or Atom feed. Episodes without an audio enclosure are skipped.
func loadPodcastFeed(album *Album, url string) error {
	feed, err := gofeed.NewParser().ParseURL(url)
	if err != nil {
		return err
	}

	if feed.Title != "" {
		album.Name = feed.Title
	}
	if feed.Image != nil {
		album.Artwork = feed.Image.URL
	}

	for _, item := range feed.Items {
		var audioURL string
		for _, enc := range item.Enclosures {
			if enc.URL != "" {
				audioURL = enc.URL
				break
			}
		}
		if audioURL == "" {
			continue
		}
		track := Track{
			Path:  audioURL,
			Name:  item.Title,
			Index: len(album.Tracks),
		}
		if item.Image != nil {
			track.Artwork = item.Image.URL
		}
		album.Tracks = append(album.Tracks, track)
	}

	if len(album.Tracks) == 0 {
		return fmt.Errorf("feed has no playable episodes")
	}
	return nil
}

func trackNameFromIndex(i int) string {
	return fmt.Sprintf("Track %02d", i+1)
}
