package testutil

import (
	"sync"
	"time"
)

// DefaultTime is the instant a FixedClock reports unless told otherwise.
var DefaultTime = time.Date(2026, time.October, 19, 9, 30, 0, 0, time.UTC)

// FixedClock is a wall clock that only moves when a test moves it.
//
// Listings stamp their creation date from a clock; pinning it keeps generated
// files and golden comparisons byte-identical across runs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock stopped at t.
// A zero t means DefaultTime.
func NewFixedClock(t time.Time) *FixedClock {
	if t.IsZero() {
		t = DefaultTime
	}
	return &FixedClock{now: t}
}

// Now returns the clock's current instant. Pass c.Now wherever a func() time.Time is expected.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
