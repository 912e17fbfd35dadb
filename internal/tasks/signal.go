package tasks

import "sync/atomic"

// Signal is the cooperative cancellation flag for one execution attempt.
// The scheduler creates a fresh Signal when a track starts, the generator
// polls it between chunks, and the scheduler reads it after the generator
// returns to decide between completed and canceled. It has no identity
// beyond the attempt.
type Signal struct {
	set atomic.Bool
}

// NewSignal creates an unset signal.
func NewSignal() *Signal {
	return &Signal{}
}

// Cancel sets the flag. Cancellation is advisory: an in-flight provider
// call is not interrupted, the generator is expected to stop submitting
// new chunk work once it observes the flag.
func (s *Signal) Cancel() {
	s.set.Store(true)
}

// Canceled reports whether the flag has been set.
func (s *Signal) Canceled() bool {
	return s.set.Load()
}
