package autosave

import "time"

// Clock schedules the debounced save. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback created by a Clock.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the call stopped it.
	Stop() bool
}

// RealClock schedules callbacks with time.AfterFunc.
type RealClock struct{}

func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
