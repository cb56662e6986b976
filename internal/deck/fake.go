package deck

import (
	"image"
	"sync"
)

// FakeDevice is an in-memory Device for tests.
type FakeDevice struct {
	mu         sync.Mutex
	keys       int
	size       int
	images     map[int]image.Image
	brightness int
	events     chan KeyEvent
	closed     bool
}

func NewFakeDevice(keys, size int) *FakeDevice {
	return &FakeDevice{
		keys:   keys,
		size:   size,
		images: make(map[int]image.Image),
		events: make(chan KeyEvent, 16),
	}
}

func (f *FakeDevice) KeyCount() int { return f.keys }
func (f *FakeDevice) KeySize() int  { return f.size }

func (f *FakeDevice) SetImage(key int, img image.Image) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images[key] = img
	return nil
}

func (f *FakeDevice) SetBrightness(percent int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.brightness = percent
	return nil
}

func (f *FakeDevice) Events() (<-chan KeyEvent, error) {
	return f.events, nil
}

func (f *FakeDevice) Clear() error { return nil }

func (f *FakeDevice) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.events)
	}
	return nil
}

// Test helpers

// Press injects a raw press transition.
func (f *FakeDevice) Press(key int) {
	f.events <- KeyEvent{Index: key, Pressed: true}
}

// Release injects a raw release transition.
func (f *FakeDevice) Release(key int) {
	f.events <- KeyEvent{Index: key, Pressed: false}
}

// Image returns the last bitmap rendered onto a key.
func (f *FakeDevice) Image(key int) image.Image {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.images[key]
}

// Brightness returns the last brightness set.
func (f *FakeDevice) Brightness() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.brightness
}

// Verify FakeDevice implements Device at compile time.
var _ Device = (*FakeDevice)(nil)
