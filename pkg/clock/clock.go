// Package clock provides the node's controllable time source. Sale phases
// resolve against it, so a harness can warp past window boundaries without
// waiting for wall time.
package clock

import (
	"sync"
	"time"
)

// Clock is a wall clock with an adjustable offset and an optional pin.
// A pinned clock stops advancing until unpinned.
type Clock struct {
	offset int64
	pinned int64 // 0 = not pinned

	mu sync.RWMutex
}

// New creates a clock tracking wall time.
func New() *Clock {
	return &Clock{}
}

// Now returns the current virtual timestamp.
func (c *Clock) Now() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.pinned != 0 {
		return c.pinned
	}
	return time.Now().Unix() + c.offset
}

// SetTime pins the clock to a fixed timestamp.
func (c *Clock) SetTime(timestamp int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pinned = timestamp
}

// IncreaseTime advances the clock by the given number of seconds and
// returns the new timestamp. A pinned clock advances its pin.
func (c *Clock) IncreaseTime(seconds int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pinned != 0 {
		c.pinned += seconds
		return c.pinned
	}
	c.offset += seconds
	return time.Now().Unix() + c.offset
}

// Reset unpins the clock and clears any accumulated offset.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.offset = 0
	c.pinned = 0
}
