package deck

import (
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	testThreshold = 50 * time.Millisecond
	testInterval  = 25 * time.Millisecond
)

func newTestTracker() *Tracker {
	t := NewTracker(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.SetThreshold(testThreshold)
	return t
}

func TestShortPress(t *testing.T) {
	tr := newTestTracker()
	var short, long atomic.Int32
	tr.Bind(0, Binding{
		OnPress: func() { short.Add(1) },
		Long:    LongPress(func() { long.Add(1) }),
	})

	tr.HandleKey(0, true)
	tr.HandleKey(0, false)

	// The long-press timer was cancelled; give it a chance to prove otherwise
	time.Sleep(2 * testThreshold)

	assert.Equal(t, int32(1), short.Load(), "exactly one short press")
	assert.Equal(t, int32(0), long.Load(), "no long press")
}

func TestShortPressJustUnderThreshold(t *testing.T) {
	tr := newTestTracker()
	var short, long atomic.Int32
	tr.Bind(2, Binding{
		OnPress: func() { short.Add(1) },
		Long:    RepeatingLongPress(func() { long.Add(1) }, testInterval),
	})

	tr.HandleKey(2, true)
	time.Sleep(testThreshold / 2)
	tr.HandleKey(2, false)
	time.Sleep(2 * testThreshold)

	assert.Equal(t, int32(1), short.Load())
	assert.Equal(t, int32(0), long.Load())
}

func TestLongPressFiresOnce(t *testing.T) {
	tr := newTestTracker()
	var short, long atomic.Int32
	tr.Bind(1, Binding{
		OnPress: func() { short.Add(1) },
		Long:    LongPress(func() { long.Add(1) }),
	})

	tr.HandleKey(1, true)
	time.Sleep(testThreshold + 4*testInterval)
	tr.HandleKey(1, false)
	time.Sleep(testThreshold)

	assert.Equal(t, int32(1), long.Load(), "long press fires once, no repeats")
	assert.Equal(t, int32(0), short.Load(), "long press swallows the release")
}

func TestRepeatingLongPress(t *testing.T) {
	tr := newTestTracker()
	var short, repeats atomic.Int32
	tr.Bind(0, Binding{
		OnPress: func() { short.Add(1) },
		Long:    RepeatingLongPress(func() { repeats.Add(1) }, testInterval),
	})

	tr.HandleKey(0, true)
	// Hold across the threshold plus roughly three repeat intervals
	time.Sleep(testThreshold + 3*testInterval + testInterval/2)
	tr.HandleKey(0, false)

	fired := repeats.Load()
	assert.GreaterOrEqual(t, fired, int32(3), "initial fire plus repeats")
	assert.Equal(t, int32(0), short.Load())

	// Release stops further firings
	time.Sleep(4 * testInterval)
	assert.Equal(t, fired, repeats.Load(), "no repeats after release")
}

func TestReleaseWithoutPressIsNoop(t *testing.T) {
	tr := newTestTracker()
	var short atomic.Int32
	tr.Bind(0, Binding{OnPress: func() { short.Add(1) }})

	tr.HandleKey(0, false)
	assert.Equal(t, int32(0), short.Load())
}

func TestUnboundKeyIgnored(t *testing.T) {
	tr := newTestTracker()
	tr.HandleKey(7, true)
	time.Sleep(2 * testThreshold)
	tr.HandleKey(7, false)
	// Nothing to assert beyond not panicking
}

func TestBindingSnapshotAtPressTime(t *testing.T) {
	tr := newTestTracker()
	var first, second atomic.Int32
	tr.Bind(0, Binding{Long: LongPress(func() { first.Add(1) })})

	tr.HandleKey(0, true)
	// Rebind mid-press; the in-flight cycle must keep the old binding
	tr.Bind(0, Binding{Long: LongPress(func() { second.Add(1) })})
	time.Sleep(testThreshold + testInterval)
	tr.HandleKey(0, false)

	assert.Equal(t, int32(1), first.Load(), "snapshotted binding fires")
	assert.Equal(t, int32(0), second.Load(), "new binding does not apply mid-press")
}

func TestCallbackPanicContained(t *testing.T) {
	tr := newTestTracker()
	var after atomic.Int32
	tr.Bind(0, Binding{OnPress: func() { panic("boom") }})
	tr.Bind(1, Binding{OnPress: func() { after.Add(1) }})

	tr.HandleKey(0, true)
	tr.HandleKey(0, false)

	// Subsequent presses still work
	tr.HandleKey(1, true)
	tr.HandleKey(1, false)
	assert.Equal(t, int32(1), after.Load())
}

func TestConcurrentKeys(t *testing.T) {
	tr := newTestTracker()
	var a, b atomic.Int32
	tr.Bind(0, Binding{OnPress: func() { a.Add(1) }})
	tr.Bind(1, Binding{OnPress: func() { b.Add(1) }})

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			tr.HandleKey(0, true)
			tr.HandleKey(0, false)
		}
		close(done)
	}()
	for i := 0; i < 50; i++ {
		tr.HandleKey(1, true)
		tr.HandleKey(1, false)
	}
	<-done

	assert.Equal(t, int32(50), a.Load())
	assert.Equal(t, int32(50), b.Load())
}
