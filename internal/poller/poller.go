package poller

import (
	"context"
	"sync"
	"time"
)

const (
	// DefaultIterations is the number of checks made before answering "no"
	DefaultIterations = 60

	// DefaultInterval is the wait between two checks
	DefaultInterval = 1000 * time.Millisecond

	// AnswerYes is returned when a change was observed during the window
	AnswerYes = "yes"

	// AnswerNo is returned when the window expired without a change
	AnswerNo = "no"
)

// TestAndClearer is the read side of a change signal
type TestAndClearer interface {
	TestAndClear() bool
}

// Window bounds how long a single reload check may block
type Window struct {
	Iterations int
	Interval   time.Duration
}

// Timeout returns the longest a check waits before answering "no"
func (w Window) Timeout() time.Duration {
	return time.Duration(w.Iterations) * w.Interval
}

// withDefaults fills zero fields with the package defaults
func (w Window) withDefaults() Window {
	if w.Iterations <= 0 {
		w.Iterations = DefaultIterations
	}
	if w.Interval <= 0 {
		w.Interval = DefaultInterval
	}
	return w
}

// Poller answers long-poll reload checks against a shared change signal
type Poller struct {
	signal TestAndClearer

	mu     sync.RWMutex
	window Window
}

// New creates a new poller
func New(sig TestAndClearer, w Window) *Poller {
	return &Poller{
		signal: sig,
		window: w.withDefaults(),
	}
}

// Window returns the effective poll window
func (p *Poller) Window() Window {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.window
}

// SetWindow replaces the poll window. Checks already waiting keep the window
// they started with.
func (p *Poller) SetWindow(w Window) {
	w = w.withDefaults()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.window = w
}

// Check blocks until a change is observed or the window is exhausted. The
// signal is cleared when it is observed, so one change produces at most one
// positive answer. A cancelled context ends the wait early with false.
func (p *Poller) Check(ctx context.Context) bool {
	w := p.Window()
	timer := time.NewTimer(w.Interval)
	defer timer.Stop()

	for i := 0; i < w.Iterations; i++ {
		if p.signal.TestAndClear() {
			return true
		}

		if i > 0 {
			timer.Reset(w.Interval)
		}

		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
		}
	}

	return false
}

// Answer is Check rendered as the plain-text reply body
func (p *Poller) Answer(ctx context.Context) string {
	if p.Check(ctx) {
		return AnswerYes
	}
	return AnswerNo
}
