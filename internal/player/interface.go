package player

// Engine defines the media engine contract for dependency injection and
// testing. Implementations must be safe for concurrent use; the playback
// controller calls in from both user-input and timer goroutines.
//
// The OnFinished callback is invoked on its own goroutine once per played
// item when the stream reaches its natural end. It is not invoked on Stop.
type Engine interface {
	Play(path string) error
	Pause() error
	Resume() error
	Stop() error
	State() State
	OnFinished(fn func())
	Close() error
}

// Verify implementations at compile time.
var (
	_ Engine = (*BeepEngine)(nil)
	_ Engine = (*Mock)(nil)
)
