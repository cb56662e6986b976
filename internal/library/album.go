// Package library holds the catalog of playable items: local album folders,
// config-declared streams and playlists, and podcast feeds.
package library

// ItemType classifies a playable item.
type ItemType string

const (
	TypeAlbum    ItemType = "album"
	TypePlaylist ItemType = "playlist"
	TypeStream   ItemType = "stream"
	TypePodcast  ItemType = "podcast"
)

// Track is one playable entry inside a multi-track album.
type Track struct {
	Path    string // file path or audio URL
	Name    string
	Index   int
	Artwork string // per-track artwork ref, falls back to album artwork
}

// Album is a playable item. For single-path items (streams, playlists) the
// track list is empty and Path is played directly.
//
// The track cursor is plain mutable state; the playback controller owns all
// mutation and guards it with its own lock.
type Album struct {
	Name    string
	Path    string
	Type    ItemType
	Artwork string // file path or URL; empty means generated placeholder
	Tracks  []Track

	cursor int
}

// MultiTrack reports whether track navigation applies to this item.
func (a *Album) MultiTrack() bool {
	return a.Type == TypeAlbum || a.Type == TypePodcast
}

// CurrentTrack returns the track at the cursor, or nil for single-path items.
func (a *Album) CurrentTrack() *Track {
	if len(a.Tracks) == 0 {
		return nil
	}
	return &a.Tracks[a.cursor]
}

// CurrentIndex returns the cursor position, or -1 for single-path items.
func (a *Album) CurrentIndex() int {
	if len(a.Tracks) == 0 {
		return -1
	}
	return a.cursor
}

// CurrentPath returns the path the engine should play: the current track's
// path, or the album path if there are no tracks.
func (a *Album) CurrentPath() string {
	if t := a.CurrentTrack(); t != nil {
		return t.Path
	}
	return a.Path
}

// ResetCursor rewinds the cursor to the first track.
func (a *Album) ResetCursor() {
	a.cursor = 0
}

// Next advances the cursor. Returns false at the end of the track list or
// when there are no tracks.
func (a *Album) Next() bool {
	if a.cursor >= len(a.Tracks)-1 {
		return false
	}
	a.cursor++
	return true
}

// Previous retreats the cursor. Returns false at the start of the track list
// or when there are no tracks.
func (a *Album) Previous() bool {
	if len(a.Tracks) == 0 || a.cursor == 0 {
		return false
	}
	a.cursor--
	return true
}

// IsLastTrack reports whether the cursor sits on the final track. Items
// without tracks have no further tracks, so this is true for them as well.
func (a *Album) IsLastTrack() bool {
	return a.cursor >= len(a.Tracks)-1
}

// WrapWindow returns n albums starting at index start, wrapping around the
// end of the list. Returns fewer than n entries only when the list itself is
// shorter than n.
func WrapWindow(albums []*Album, start, n int) []*Album {
	if len(albums) == 0 {
		return nil
	}
	if n > len(albums) {
		n = len(albums)
	}
	out := make([]*Album, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, albums[(start+i)%len(albums)])
	}
	return out
}
