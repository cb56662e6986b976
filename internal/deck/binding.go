package deck

import "time"

// Binding describes the actions bound to one physical key. The zero value
// binds nothing; presses on such a key are ignored.
type Binding struct {
	// OnPress fires on release of a press shorter than the long-press
	// threshold.
	OnPress func()

	Long LongBinding
}

type longKind int

const (
	longNone longKind = iota
	longSingle
	longRepeating
)

// LongBinding is the long-press half of a binding: nothing, a single
// callback fired once when the threshold elapses, or a repeating callback
// fired at the threshold and then again every interval until release.
type LongBinding struct {
	kind     longKind
	fn       func()
	interval time.Duration
}

// NoLongPress returns an empty long-press binding.
func NoLongPress() LongBinding {
	return LongBinding{}
}

// LongPress returns a long-press binding fired once.
func LongPress(fn func()) LongBinding {
	return LongBinding{kind: longSingle, fn: fn}
}

// RepeatingLongPress returns a long-press binding fired at the threshold and
// then re-fired every interval while the key stays down.
func RepeatingLongPress(fn func(), interval time.Duration) LongBinding {
	return LongBinding{kind: longRepeating, fn: fn, interval: interval}
}
