package controller

import (
	"github.com/pistream/pistream/internal/deck"
	"github.com/pistream/pistream/internal/library"
	"github.com/pistream/pistream/internal/player"
)

// renderMediaLocked paints the carousel window onto the media keys and binds
// each one to start its item. Keys past the end of a short catalog go blank
// and unbound.
func (c *Controller) renderMediaLocked() {
	window := library.WrapWindow(c.albums, c.carouselStart, mediaKeyCount)
	for key := 0; key < mediaKeyCount; key++ {
		if key < len(window) {
			album := window[key]
			c.surface.ShowAlbum(key, album)
			c.surface.Bind(key, deck.Binding{
				OnPress: func() { _ = c.PlayAlbum(album) },
				Long:    deck.NoLongPress(),
			})
		} else {
			c.surface.ShowBlank(key)
			c.surface.Bind(key, deck.Binding{})
		}
	}
}

// renderControlsLocked binds the navigation keys for the current mode.
// While a multi-track item plays they move between its tracks, with a held
// press falling back to repeated carousel rotation. Otherwise short and
// held presses both rotate the carousel.
func (c *Controller) renderControlsLocked() {
	trackMode := c.current != nil && c.current.MultiTrack() && c.engine.State() == player.Playing

	if trackMode {
		c.surface.ShowControl(keyPrevious, deck.IconPrevTrack)
		c.surface.Bind(keyPrevious, deck.Binding{
			OnPress: c.PreviousTrack,
			Long:    deck.RepeatingLongPress(c.CarouselPrevious, c.repeatInterval),
		})
		c.surface.ShowControl(keyNext, deck.IconNextTrack)
		c.surface.Bind(keyNext, deck.Binding{
			OnPress: c.NextTrack,
			Long:    deck.RepeatingLongPress(c.CarouselNext, c.repeatInterval),
		})
		return
	}

	c.surface.ShowControl(keyPrevious, deck.IconPrevious)
	c.surface.Bind(keyPrevious, deck.Binding{
		OnPress: c.CarouselPrevious,
		Long:    deck.RepeatingLongPress(c.CarouselPrevious, c.repeatInterval),
	})
	c.surface.ShowControl(keyNext, deck.IconNext)
	c.surface.Bind(keyNext, deck.Binding{
		OnPress: c.CarouselNext,
		Long:    deck.RepeatingLongPress(c.CarouselNext, c.repeatInterval),
	})
}

// renderNowPlayingLocked paints the session key. With no session it shows a
// neutral face and carries no actions; otherwise a short press toggles
// play/pause and a held press stops.
func (c *Controller) renderNowPlayingLocked() {
	if c.current == nil {
		c.surface.ShowNowPlaying(keyNowPlaying, nil, c.engine.State())
		c.surface.Bind(keyNowPlaying, deck.Binding{})
		return
	}

	album := c.current
	c.surface.ShowNowPlaying(keyNowPlaying, album, c.engine.State())
	c.surface.Bind(keyNowPlaying, deck.Binding{
		OnPress: func() { c.PlayPauseToggle(album) },
		Long:    deck.LongPress(func() { c.Stop() }),
	})
}
