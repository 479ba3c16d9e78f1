package game

import "time"

// A status message sent out by a session to whoever renders it.
// Status structs, alongside acting as a notifier for changes, also provide
// information about the change.
type Status interface {
	isStatus()
	// Sequence numbers increase with every change in a session. Statuses may
	// arrive out of order since timers fire on their own goroutines, so a
	// receiver should drop anything older than what it has already applied.
	Sequence() uint64
}

// Status update sent when playback starts, pauses, or gets interrupted.
type PlayStateUpdate struct {
	Seq   uint64
	State State
	// Pending is the delay the next segment will last before the pillow
	// stops. HasPending is false until the first interruption.
	Pending    time.Duration
	HasPending bool
}

func (PlayStateUpdate) isStatus()          {}
func (u PlayStateUpdate) Sequence() uint64 { return u.Seq }

// Status update sent to signify a change in playing position of the track.
// Sent out every poll interval while playing.
type ProgressUpdate struct {
	Seq     uint64
	Percent float64
}

func (ProgressUpdate) isStatus()          {}
func (u ProgressUpdate) Sequence() uint64 { return u.Seq }

// Status update sent when a new track gets loaded.
type MediaUpdate struct {
	Seq    uint64
	LoadID uint64
}

func (MediaUpdate) isStatus()          {}
func (u MediaUpdate) Sequence() uint64 { return u.Seq }
