// Package controller coordinates the deck surface, the media engine and the
// album catalog: which items the carousel shows, what is playing, and which
// actions the physical keys carry in the current mode.
package controller

import (
	"log/slog"
	"sync"
	"time"

	"github.com/pistream/pistream/internal/deck"
	"github.com/pistream/pistream/internal/library"
	"github.com/pistream/pistream/internal/player"
)

// Key layout: three media keys showing the carousel window, a now-playing
// key, and two navigation keys.
const (
	mediaKeyCount = 3
	keyNowPlaying = 3
	keyPrevious   = 4
	keyNext       = 5
)

const (
	// DefaultIdleResetTimeout is how long the carousel may sit away from its
	// default position before snapping back.
	DefaultIdleResetTimeout = 30 * time.Second

	// DefaultRepeatInterval is the tick rate of held navigation keys.
	DefaultRepeatInterval = 500 * time.Millisecond

	// defaultSettleDelay absorbs engine state-transition latency between a
	// pause/resume/stop call and the key re-render that reads the state.
	defaultSettleDelay = 100 * time.Millisecond
)

// Surface is the controller's view of the deck: bindings plus rendered keys.
// *deck.Surface implements it; tests substitute a recorder.
type Surface interface {
	Bind(key int, b deck.Binding)
	ShowAlbum(key int, album *library.Album)
	ShowControl(key int, icon deck.Icon)
	ShowNowPlaying(key int, album *library.Album, state player.State)
	ShowBlank(key int)
}

// Options tunes controller timing. Zero values take the defaults.
type Options struct {
	IdleResetTimeout time.Duration
	RepeatInterval   time.Duration
	SettleDelay      time.Duration
}

// Controller owns the playback session and carousel state. One lock guards
// both; key presses are rare enough that finer grain would buy nothing.
type Controller struct {
	log     *slog.Logger
	engine  player.Engine
	surface Surface

	settleDelay    time.Duration
	repeatInterval time.Duration
	idle           idleTimer

	mu            sync.Mutex
	albums        []*library.Album
	carouselStart int
	current       *library.Album // nil when no session
	lastError     string
	subs          []*Subscription
}

// New builds a controller over the given engine, surface and catalog, and
// registers itself for the engine's end-of-stream notifications.
func New(engine player.Engine, surface Surface, albums []*library.Album, log *slog.Logger, opts Options) *Controller {
	if opts.IdleResetTimeout == 0 {
		opts.IdleResetTimeout = DefaultIdleResetTimeout
	}
	if opts.RepeatInterval == 0 {
		opts.RepeatInterval = DefaultRepeatInterval
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = defaultSettleDelay
	}

	c := &Controller{
		log:            log,
		engine:         engine,
		surface:        surface,
		albums:         albums,
		settleDelay:    opts.SettleDelay,
		repeatInterval: opts.RepeatInterval,
	}
	c.idle.timeout = opts.IdleResetTimeout
	c.idle.fire = c.resetCarousel

	engine.OnFinished(c.OnPlaybackEnded)
	return c
}

// Start performs the initial render of every key.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderMediaLocked()
	c.renderControlsLocked()
	c.renderNowPlayingLocked()
	c.log.Info("controller started", "albums", len(c.albums))
}

// rearmIdle is the closing half of the idle-reset bracket around every
// mutating operation: reschedule the reset only while the carousel sits away
// from its default position.
func (c *Controller) rearmIdle() {
	c.mu.Lock()
	away := c.carouselStart != 0
	c.mu.Unlock()
	c.idle.reschedule(away)
}

// resetCarousel is the idle timer's fire path. The timer may fire after a
// logical cancel; re-checking the position under the lock makes that a
// no-op.
func (c *Controller) resetCarousel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.carouselStart == 0 {
		return
	}
	c.carouselStart = 0
	c.renderMediaLocked()
	c.notifyLocked()
	c.log.Info("carousel reset to default position after inactivity")
}

// AddAlbums appends catalog entries discovered after startup, skipping paths
// already present. Used by the periodic rescan and the CD ripper.
func (c *Controller) AddAlbums(albums []*library.Album) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	known := make(map[string]bool, len(c.albums))
	for _, a := range c.albums {
		known[a.Path] = true
	}

	added := 0
	for _, a := range albums {
		if known[a.Path] {
			continue
		}
		c.albums = append(c.albums, a)
		added++
	}
	if added > 0 {
		c.renderMediaLocked()
		c.notifyLocked()
		c.log.Info("new albums added to catalog", "count", added)
	}
	return added
}

// idleTimer guards the carousel reset schedule. Its own lock makes the
// cancel/reschedule pair atomic with respect to the fire callback; the
// generation counter invalidates a fire that lost the race to a reschedule.
type idleTimer struct {
	timeout time.Duration
	fire    func()

	mu    sync.Mutex
	timer *time.Timer
	gen   int
}

func (t *idleTimer) cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *idleTimer) reschedule(needed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if !needed {
		return
	}
	gen := t.gen
	t.timer = time.AfterFunc(t.timeout, func() { t.onFire(gen) })
}

func (t *idleTimer) onFire(gen int) {
	t.mu.Lock()
	if gen != t.gen {
		// Cancelled or rescheduled while this fire was pending
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.mu.Unlock()
	t.fire()
}
