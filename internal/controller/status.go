package controller

import "github.com/pistream/pistream/internal/library"

// AlbumInfo is the wire-friendly view of a catalog item.
type AlbumInfo struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Tracks int    `json:"tracks"`
}

// Status is a snapshot of the controller for the HTTP API and websocket
// subscribers.
type Status struct {
	Album         *AlbumInfo `json:"album,omitempty"`
	TrackIndex    int        `json:"track_index"`
	TrackName     string     `json:"track_name,omitempty"`
	PlayerState   string     `json:"player_state"`
	CarouselStart int        `json:"carousel_start"`
	LastError     string     `json:"last_error,omitempty"`
}

// Status returns the current snapshot.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() Status {
	s := Status{
		TrackIndex:    -1,
		PlayerState:   c.engine.State().String(),
		CarouselStart: c.carouselStart,
		LastError:     c.lastError,
	}
	if c.current != nil {
		s.Album = c.albumInfoLocked(c.current)
		s.TrackIndex = c.current.CurrentIndex()
		if t := c.current.CurrentTrack(); t != nil {
			s.TrackName = t.Name
		}
	}
	return s
}

func (c *Controller) albumInfoLocked(album *library.Album) *AlbumInfo {
	info := &AlbumInfo{
		Index:  -1,
		Name:   album.Name,
		Type:   string(album.Type),
		Tracks: len(album.Tracks),
	}
	for i, a := range c.albums {
		if a == album {
			info.Index = i
			break
		}
	}
	return info
}

// Albums lists the catalog for the HTTP API.
func (c *Controller) Albums() []AlbumInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]AlbumInfo, len(c.albums))
	for i, a := range c.albums {
		out[i] = AlbumInfo{
			Index:  i,
			Name:   a.Name,
			Type:   string(a.Type),
			Tracks: len(a.Tracks),
		}
	}
	return out
}

// AlbumByIndex returns the catalog item at i, or nil when out of range.
func (c *Controller) AlbumByIndex(i int) *library.Album {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.albums) {
		return nil
	}
	return c.albums[i]
}

// Subscription delivers status snapshots after every state change. Slow
// receivers miss intermediate snapshots rather than blocking the
// controller.
type Subscription struct {
	C  <-chan Status
	ch chan Status
}

// Subscribe registers a status listener.
func (c *Controller) Subscribe() *Subscription {
	ch := make(chan Status, 8)
	sub := &Subscription{C: ch, ch: ch}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, sub)
	return sub
}

// Unsubscribe removes a listener and closes its channel.
func (c *Controller) Unsubscribe(sub *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, s := range c.subs {
		if s == sub {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			close(sub.ch)
			return
		}
	}
}

func (c *Controller) notifyLocked() {
	if len(c.subs) == 0 {
		return
	}
	s := c.statusLocked()
	for _, sub := range c.subs {
		select {
		case sub.ch <- s:
		default:
		}
	}
}
