package logger

import "sync"

// Switchable forwards to a Logger that can be replaced at runtime, so
// components built before a configuration reload pick up the new one.
type Switchable struct {
	mu      sync.RWMutex
	current Logger
}

// NewSwitchable creates a switchable logger forwarding to initial
func NewSwitchable(initial Logger) *Switchable {
	return &Switchable{current: initial}
}

// Swap installs next and returns the previous logger, which the caller
// should Sync once nothing else uses it.
func (s *Switchable) Swap(next Logger) Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current
	s.current = next
	return prev
}

func (s *Switchable) get() Logger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Debug logs a debug message
func (s *Switchable) Debug(msg string, keysAndValues ...interface{}) {
	s.get().Debug(msg, keysAndValues...)
}

// Info logs an info message
func (s *Switchable) Info(msg string, keysAndValues ...interface{}) {
	s.get().Info(msg, keysAndValues...)
}

// Error logs an error message
func (s *Switchable) Error(msg string, keysAndValues ...interface{}) {
	s.get().Error(msg, keysAndValues...)
}

// Sync syncs the current logger
func (s *Switchable) Sync() error {
	return s.get().Sync()
}
