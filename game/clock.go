package game

import "time"

// Clock schedules one-shot callbacks. Callbacks may run on any goroutine.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	// Stop reports whether the call stopped the timer before it fired.
	Stop() bool
}

// RealClock schedules callbacks with the runtime timers.
type RealClock struct{}

func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
