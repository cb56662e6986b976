// Package deck drives the physical key grid: raw key transitions in, press
// semantics and rendered key bitmaps out.
package deck

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/pistream/pistream/internal/artwork"
	"github.com/pistream/pistream/internal/library"
	"github.com/pistream/pistream/internal/player"
)

const keyMargin = 5

// Surface combines a Device with the key Tracker and artwork store. All
// rendering goes through one mutex: the device handle is not reentrant and
// key images are small enough that global serialization costs nothing.
type Surface struct {
	device  Device
	tracker *Tracker
	art     *artwork.Store
	log     *slog.Logger

	renderMu sync.Mutex
	// Composed media-key bitmaps, keyed by artwork ref and name. Albums are
	// re-rendered on every carousel move; composition is not free.
	albumKeys map[string]image.Image
}

func NewSurface(device Device, tracker *Tracker, art *artwork.Store, log *slog.Logger) *Surface {
	return &Surface{
		device:    device,
		tracker:   tracker,
		art:       art,
		log:       log,
		albumKeys: make(map[string]image.Image),
	}
}

// KeyCount returns the device's fixed key count.
func (s *Surface) KeyCount() int {
	return s.device.KeyCount()
}

// Bind forwards a key binding to the tracker.
func (s *Surface) Bind(key int, b Binding) {
	s.tracker.Bind(key, b)
}

// Run pumps raw key transitions from the device into the tracker until the
// context is done or the device goes away.
func (s *Surface) Run(ctx context.Context) error {
	events, err := s.device.Events()
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return fmt.Errorf("deck device disconnected")
			}
			s.log.Debug("key transition", "key", ev.Index, "pressed", ev.Pressed)
			s.tracker.HandleKey(ev.Index, ev.Pressed)
		}
	}
}

// ShowAlbum renders an album's artwork onto a media key.
func (s *Surface) ShowAlbum(key int, album *library.Album) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	cacheKey := album.Artwork + "\x00" + album.Name
	img, ok := s.albumKeys[cacheKey]
	if !ok {
		art := s.art.Resolve(album.Artwork, album.Name)
		img = composeKey(s.device.KeySize(), art, composeOpts{
			margin:     keyMargin,
			background: controlBackground,
		})
		s.albumKeys[cacheKey] = img
	}
	s.setImage(key, img)
}

// ShowControl renders a control glyph onto a key.
func (s *Surface) ShowControl(key int, icon Icon) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	size := s.device.KeySize()
	img := composeKey(size, drawIcon(icon, size-2*keyMargin), composeOpts{
		margin:     keyMargin,
		background: controlBackground,
	})
	s.setImage(key, img)
}

// ShowNowPlaying renders the now-playing key: the active item's artwork with
// an icon for the action a short press performs, or a placeholder note when
// nothing is active. Multi-track items carry the current track number as a
// label.
func (s *Surface) ShowNowPlaying(key int, album *library.Album, state player.State) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	size := s.device.KeySize()

	if album == nil {
		img := composeKey(size, drawIcon(IconNote, size-2*keyMargin), composeOpts{
			margin:     keyMargin,
			background: emptyBackground,
		})
		s.setImage(key, img)
		return
	}

	ref := album.Artwork
	label := ""
	if t := album.CurrentTrack(); t != nil {
		if t.Artwork != "" {
			ref = t.Artwork
		}
		label = fmt.Sprintf("%02d", t.Index+1)
	}

	icon := IconPlay
	if state == player.Playing {
		icon = IconPause
	}

	art := s.art.Resolve(ref, album.Name)
	img := composeKey(size, art, composeOpts{
		margin:     keyMargin,
		background: controlBackground,
		icon:       drawIcon(icon, size/3),
		label:      label,
	})
	s.setImage(key, img)
}

// ShowBlank blanks a key.
func (s *Surface) ShowBlank(key int) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	img := composeKey(s.device.KeySize(), nil, composeOpts{})
	s.setImage(key, img)
}

func (s *Surface) setImage(key int, img image.Image) {
	if err := s.device.SetImage(key, img); err != nil {
		s.log.Error("key render failed", "key", key, "error", err)
	}
}
