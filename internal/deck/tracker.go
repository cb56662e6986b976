package deck

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultLongPressThreshold is how long a key must stay down before the
// long-press path fires instead of the short press.
const DefaultLongPressThreshold = time.Second

// pressState is the ephemeral tracking state of one in-flight press cycle.
// Created on press, dropped on release. The binding is snapshotted at press
// time: rebinding a key mid-press never changes what the cycle fires.
type pressState struct {
	pressedAt     time.Time
	binding       Binding
	longTriggered bool
	longTimer     *time.Timer
	repeatTimer   *time.Timer
}

// Tracker turns raw key transitions into short-press, long-press and
// repeating-long-press action invocations.
//
// Per key, press and release are assumed to arrive in order (the device
// driver serializes them); across keys, and between a release and a pending
// timer fire, calls race freely and are reconciled under the tracker lock.
// Action callbacks always run outside the lock, so they may rebind keys.
type Tracker struct {
	log       *slog.Logger
	threshold time.Duration

	mu       sync.Mutex
	bindings map[int]Binding
	pressed  map[int]*pressState
}

// NewTracker creates a tracker with the default long-press threshold.
func NewTracker(log *slog.Logger) *Tracker {
	return &Tracker{
		log:       log,
		threshold: DefaultLongPressThreshold,
		bindings:  make(map[int]Binding),
		pressed:   make(map[int]*pressState),
	}
}

// SetThreshold overrides the long-press threshold. Only affects presses that
// start after the call.
func (t *Tracker) SetThreshold(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.threshold = d
}

// Bind replaces the binding for a key. An in-flight press cycle on that key
// keeps the binding it was pressed with.
func (t *Tracker) Bind(key int, b Binding) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bindings[key] = b
}

// HandleKey is the inbound entry point for raw key transitions.
func (t *Tracker) HandleKey(key int, pressedDown bool) {
	if pressedDown {
		t.press(key)
	} else {
		t.release(key)
	}
}

func (t *Tracker) press(key int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// A repeated press without a release in between supersedes the old cycle
	if old := t.pressed[key]; old != nil {
		old.cancelTimers()
	}

	ps := &pressState{
		pressedAt: time.Now(),
		binding:   t.bindings[key],
	}
	t.pressed[key] = ps

	if ps.binding.Long.kind != longNone {
		ps.longTimer = time.AfterFunc(t.threshold, func() {
			t.fireLongPress(key, ps)
		})
	}
}

func (t *Tracker) release(key int) {
	t.mu.Lock()
	ps := t.pressed[key]
	if ps == nil {
		// Release with no matching press
		t.mu.Unlock()
		return
	}
	delete(t.pressed, key)
	ps.cancelTimers()
	swallow := ps.longTriggered
	short := ps.binding.OnPress
	t.mu.Unlock()

	if swallow {
		// The long press and its repeats fully consumed this cycle
		t.log.Debug("long press completed", "key", key)
		return
	}
	if short != nil {
		t.invoke(key, "short press", short)
	}
}

// fireLongPress runs when the threshold timer elapses. The press may have
// been released concurrently; a stale state pointer means this fire lost
// that race and must do nothing.
func (t *Tracker) fireLongPress(key int, ps *pressState) {
	t.mu.Lock()
	if t.pressed[key] != ps {
		t.mu.Unlock()
		return
	}
	ps.longTriggered = true
	long := ps.binding.Long
	t.mu.Unlock()

	t.log.Debug("long press triggered", "key", key)
	t.invoke(key, "long press", long.fn)

	if long.kind == longRepeating {
		t.scheduleRepeat(key, ps, long)
	}
}

func (t *Tracker) fireRepeat(key int, ps *pressState, long LongBinding) {
	t.mu.Lock()
	if t.pressed[key] != ps {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.invoke(key, "repeat", long.fn)
	t.scheduleRepeat(key, ps, long)
}

// scheduleRepeat arms the next repeat tick. Ticks are one-shot timers armed
// after each invocation returns, so a slow callback never overlaps itself.
func (t *Tracker) scheduleRepeat(key int, ps *pressState, long LongBinding) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pressed[key] != ps {
		return
	}
	ps.repeatTimer = time.AfterFunc(long.interval, func() {
		t.fireRepeat(key, ps, long)
	})
}

// invoke runs an action callback, containing panics so a failing handler
// cannot take down key processing.
func (t *Tracker) invoke(key int, what string, fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			t.log.Error("key action panicked", "key", key, "action", what, "panic", r)
		}
	}()
	fn()
}

func (ps *pressState) cancelTimers() {
	if ps.longTimer != nil {
		ps.longTimer.Stop()
		ps.longTimer = nil
	}
	if ps.repeatTimer != nil {
		ps.repeatTimer.Stop()
		ps.repeatTimer = nil
	}
}
