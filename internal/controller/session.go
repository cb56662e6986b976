package controller

import (
	"time"

	"github.com/pistream/pistream/internal/library"
)

// Every exported operation follows the same bracket: cancel the idle reset,
// take the state lock, do the work, and on the way out re-arm the reset if
// the carousel is still away from home. The defers unwind in that order.

// CarouselNext rotates the media keys one position forward.
func (c *Controller) CarouselNext() {
	c.idle.cancel()
	defer c.rearmIdle()
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stepCarouselLocked(+1)
}

// CarouselPrevious rotates the media keys one position backward.
func (c *Controller) CarouselPrevious() {
	c.idle.cancel()
	defer c.rearmIdle()
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stepCarouselLocked(-1)
}

func (c *Controller) stepCarouselLocked(dir int) {
	if len(c.albums) == 0 {
		return
	}
	n := len(c.albums)
	c.carouselStart = ((c.carouselStart+dir)%n + n) % n
	c.renderMediaLocked()
	c.renderControlsLocked()
	c.notifyLocked()
}

// PlayAlbum starts the given item from its current cursor position, ending
// any session already in progress.
func (c *Controller) PlayAlbum(album *library.Album) error {
	c.idle.cancel()
	defer c.rearmIdle()
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.playLocked(album)
}

// playLocked hands the item's current track to the engine. When the session
// switches to a different item, the one being left behind has its cursor
// rewound so a later selection starts it from the top.
func (c *Controller) playLocked(album *library.Album) error {
	if c.current != nil && c.current != album {
		c.current.ResetCursor()
	}

	path := album.CurrentPath()
	c.log.Info("starting playback",
		"album", album.Name,
		"track", album.CurrentIndex()+1,
		"path", path)

	if err := c.engine.Play(path); err != nil {
		c.lastError = err.Error()
		c.log.Error("playback failed", "album", album.Name, "error", err)
		c.notifyLocked()
		return err
	}

	c.current = album
	c.lastError = ""
	c.renderNowPlayingLocked()
	c.renderControlsLocked()
	c.notifyLocked()
	return nil
}

// Pause suspends playback. Legal only while actually playing.
func (c *Controller) Pause() {
	c.idle.cancel()
	defer c.rearmIdle()
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pauseLocked()
}

func (c *Controller) pauseLocked() {
	if !c.engine.State().CanPause() {
		c.log.Debug("pause ignored", "state", c.engine.State())
		return
	}
	if err := c.engine.Pause(); err != nil {
		c.lastError = err.Error()
		c.log.Error("pause failed", "error", err)
	}
	c.settleLocked()
	c.renderNowPlayingLocked()
	c.renderControlsLocked()
	c.notifyLocked()
}

// Resume continues a paused session.
func (c *Controller) Resume() {
	c.idle.cancel()
	defer c.rearmIdle()
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resumeLocked()
}

func (c *Controller) resumeLocked() {
	if c.current == nil || !c.engine.State().CanResume() {
		c.log.Debug("resume ignored", "state", c.engine.State())
		return
	}
	if err := c.engine.Resume(); err != nil {
		c.lastError = err.Error()
		c.log.Error("resume failed", "error", err)
	}
	c.settleLocked()
	c.renderNowPlayingLocked()
	c.renderControlsLocked()
	c.notifyLocked()
}

// PlayPauseToggle pauses when playing, resumes when paused, and otherwise
// starts the given item.
func (c *Controller) PlayPauseToggle(album *library.Album) {
	c.idle.cancel()
	defer c.rearmIdle()
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.engine.State()
	switch {
	case st.CanPause():
		c.pauseLocked()
	case st.CanResume():
		c.resumeLocked()
	default:
		_ = c.playLocked(album)
	}
}

// Stop ends the session and rewinds the item that was playing. It reports
// whether there was anything to stop.
func (c *Controller) Stop() bool {
	c.idle.cancel()
	defer c.rearmIdle()
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stopLocked()
}

func (c *Controller) stopLocked() bool {
	if c.current == nil && !c.engine.State().IsActive() {
		c.log.Debug("stop ignored: nothing playing")
		return false
	}

	if err := c.engine.Stop(); err != nil {
		c.lastError = err.Error()
		c.log.Error("engine stop failed", "error", err)
	}
	if c.current != nil {
		c.current.ResetCursor()
		c.log.Info("playback stopped", "album", c.current.Name)
	}
	c.current = nil
	c.settleLocked()
	c.renderNowPlayingLocked()
	c.renderControlsLocked()
	c.notifyLocked()
	return true
}

// NextTrack advances within the current multi-track item.
func (c *Controller) NextTrack() {
	c.idle.cancel()
	defer c.rearmIdle()
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stepTrackLocked(true)
}

// PreviousTrack steps back within the current multi-track item.
func (c *Controller) PreviousTrack() {
	c.idle.cancel()
	defer c.rearmIdle()
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stepTrackLocked(false)
}

func (c *Controller) stepTrackLocked(forward bool) {
	if c.current == nil || !c.current.MultiTrack() {
		c.log.Warn("track navigation ignored: no multi-track item playing")
		return
	}

	var moved bool
	if forward {
		moved = c.current.Next()
	} else {
		moved = c.current.Previous()
	}
	if !moved {
		c.log.Warn("track navigation ignored: at track list boundary",
			"album", c.current.Name,
			"track", c.current.CurrentIndex()+1)
		return
	}
	_ = c.playLocked(c.current)
}

// OnPlaybackEnded handles the engine's end-of-stream notification: advance
// to the next track, or converge to the stopped state when there is nothing
// left to play.
func (c *Controller) OnPlaybackEnded() {
	c.idle.cancel()
	defer c.rearmIdle()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		c.log.Warn("playback ended with no active item")
		c.stopLocked()
		return
	}

	if c.current.IsLastTrack() {
		c.log.Info("playback finished", "album", c.current.Name)
		c.stopLocked()
		return
	}

	c.current.Next()
	_ = c.playLocked(c.current)
}

// settleLocked gives the engine a moment to complete its state transition
// before the keys are re-rendered from that state.
func (c *Controller) settleLocked() {
	time.Sleep(c.settleDelay)
}
