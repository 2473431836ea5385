package playback

import (
	"sync"
	"time"
)

// Clock is a simulated playback clock. It advances with wall time scaled by
// a rate, can be paused and seeked, and ends at an optional duration.
type Clock struct {
	mu       sync.Mutex
	now      func() time.Time
	rate     float64
	duration int64

	base    int64
	started time.Time
	paused  bool
}

type ClockOption func(*Clock)

// WithRate sets the playback speed; non-positive values are ignored
func WithRate(rate float64) ClockOption {
	return func(c *Clock) {
		if rate > 0 {
			c.rate = rate
		}
	}
}

// WithDuration makes the clock report ErrEnded once d has been reached
func WithDuration(d time.Duration) ClockOption {
	return func(c *Clock) {
		if d > 0 {
			c.duration = d.Milliseconds()
		}
	}
}

// WithNow replaces the wall clock
func WithNow(now func() time.Time) ClockOption {
	return func(c *Clock) {
		c.now = now
	}
}

// NewClock returns a running clock positioned at start
func NewClock(start time.Duration, opts ...ClockOption) *Clock {
	c := &Clock{
		now:  time.Now,
		rate: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if start < 0 {
		start = 0
	}
	c.base = start.Milliseconds()
	c.started = c.now()
	return c
}

// Position implements TimeSource
func (c *Clock) Position() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos := c.positionLocked()
	if c.duration > 0 && pos >= c.duration {
		return c.duration, ErrEnded
	}
	return pos, nil
}

func (c *Clock) positionLocked() int64 {
	if c.paused {
		return c.base
	}
	elapsed := c.now().Sub(c.started)
	return c.base + int64(float64(elapsed.Milliseconds())*c.rate)
}

// Seek jumps to ms, clamped at zero
func (c *Clock) Seek(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ms < 0 {
		ms = 0
	}
	c.base = ms
	c.started = c.now()
}

func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused {
		return
	}
	c.base = c.positionLocked()
	c.paused = true
}

func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.paused {
		return
	}
	c.started = c.now()
	c.paused = false
}
