package loop

import (
	"sync"
	"time"
)

// Clock yields frame timestamps as durations since an arbitrary origin.
type Clock interface {
	Now() time.Duration
}

// MonotonicClock measures time since it was created using the monotonic
// reading of time.Now.
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock returns a clock starting at zero.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// Now returns the time elapsed since the clock was created.
func (c *MonotonicClock) Now() time.Duration {
	return time.Since(c.start)
}

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	mu  sync.RWMutex
	now time.Duration
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Set sets the current time.
func (c *ManualClock) Set(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = d
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
}
