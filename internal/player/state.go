package player

// State represents the engine state machine.
//
// Valid transitions:
//   - Stopped/Ended/Error → Opening → Playing (via Play)
//   - Playing → Paused  (via Pause)
//   - Paused  → Playing (via Resume)
//   - Playing/Paused → Stopped (via Stop)
//   - Playing → Ended (end of stream)
//   - Opening → Error (decode or network failure)
//
// Buffering is reported while a network stream is being fetched.
type State int

const (
	Stopped State = iota
	Opening
	Playing
	Paused
	Buffering
	Ended
	Error
)

// String returns the state name for logging and the status API.
func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Opening:
		return "opening"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Buffering:
		return "buffering"
	case Ended:
		return "ended"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// IsActive returns true if playback is active (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}

// CanResume returns true if the state allows resuming.
func (s State) CanResume() bool {
	return s == Paused
}
