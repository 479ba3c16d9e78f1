package game

// State of a playback session.
type State int

const (
	// Idle covers both "loaded but not started" and "paused by the user".
	Idle State = iota
	Playing
	// Interrupted means the interrupt timer paused playback. The pillow
	// stops here.
	Interrupted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Playing:
		return "Playing"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown"
	}
}
