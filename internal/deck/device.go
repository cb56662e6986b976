package deck

import "image"

// KeyEvent is one raw key transition from the surface hardware.
type KeyEvent struct {
	Index   int
	Pressed bool
}

// Device abstracts the physical key grid. Implementations are not assumed
// reentrant; callers must serialize rendering calls (the Surface does).
type Device interface {
	// KeyCount returns the number of keys, fixed for the device lifetime.
	KeyCount() int
	// KeySize returns the pixel edge length of a key image.
	KeySize() int
	// SetImage renders a bitmap onto one key.
	SetImage(key int, img image.Image) error
	// SetBrightness sets the backlight percentage.
	SetBrightness(percent int) error
	// Events returns the raw key transition stream. The channel closes when
	// the device goes away.
	Events() (<-chan KeyEvent, error)
	// Clear blanks every key.
	Clear() error
	Close() error
}
