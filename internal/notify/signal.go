package notify

import "sync/atomic"

// Signal is a single-slot change notification shared between the file watcher
// and the reload pollers. It holds at most one pending change: any number of
// Set calls before the next TestAndClear collapse into one observation, and
// that observation goes to whichever reader clears it first.
type Signal struct {
	pending atomic.Bool
}

// New creates a cleared signal
func New() *Signal {
	return &Signal{}
}

// Set marks a change as pending
func (s *Signal) Set() {
	s.pending.Store(true)
}

// TestAndClear reports whether a change was pending and clears it in the same
// atomic step.
func (s *Signal) TestAndClear() bool {
	return s.pending.CompareAndSwap(true, false)
}
