package testutil

import (
	"sync"
	"time"
)

// ManualClock is a core.Clock whose time only moves when a test advances it,
// making expiry behavior deterministic without sleeping.
type ManualClock struct {
	mu sync.Mutex
	at time.Time
}

// NewManualClock starts a clock frozen at the given instant.
func NewManualClock(at time.Time) *ManualClock {
	return &ManualClock{at: at}
}

// Now returns the clock's current frozen instant.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = c.at.Add(d)
}

// Set jumps the clock to an absolute instant.
func (c *ManualClock) Set(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = at
}
