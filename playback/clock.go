package playback

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFrameInterval is the FrameClock tick period.
const DefaultFrameInterval = time.Second / 60

// Clock schedules one-shot tick callbacks.
type Clock interface {
	Now() time.Time
	// Schedule arranges for fn to run once at the clock's next tick.
	Schedule(fn func(now time.Time)) Handle
}

// Handle cancels a scheduled callback. Cancel may be called any number of
// times, including after the callback ran.
type Handle interface {
	Cancel()
}

type noopHandle struct{}

func (noopHandle) Cancel() {}

// FrameClock ticks on a timer every Interval.
type FrameClock struct {
	Interval time.Duration
}

// NewFrameClock returns a clock ticking every interval, or every
// DefaultFrameInterval when interval is not positive.
func NewFrameClock(interval time.Duration) *FrameClock {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &FrameClock{Interval: interval}
}

func (c *FrameClock) Now() time.Time { return time.Now() }

func (c *FrameClock) Schedule(fn func(now time.Time)) Handle {
	if fn == nil {
		return noopHandle{}
	}
	interval := c.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	h := &timerHandle{}
	h.timer = time.AfterFunc(interval, func() {
		if h.cancelled.Load() {
			return
		}
		fn(time.Now())
	})
	return h
}

type timerHandle struct {
	timer     *time.Timer
	cancelled atomic.Bool
	once      sync.Once
}

func (h *timerHandle) Cancel() {
	h.once.Do(func() {
		h.cancelled.Store(true)
		h.timer.Stop()
	})
}

// ManualClock only ticks when Advance is called. It is meant for tests and
// hosts that own their own loop.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*manualHandle
}

// NewManualClock returns a clock starting at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Schedule(fn func(now time.Time)) Handle {
	if fn == nil {
		return noopHandle{}
	}
	h := &manualHandle{fn: fn}
	c.mu.Lock()
	c.pending = append(c.pending, h)
	c.mu.Unlock()
	return h
}

// Advance moves time forward by d and runs every callback scheduled before
// the call exactly once. Callbacks scheduled while running wait for the next
// Advance.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	due := c.pending
	c.pending = nil
	c.mu.Unlock()

	for _, h := range due {
		if h.cancelled.Load() {
			continue
		}
		h.fn(now)
	}
}

// Pending reports how many live callbacks are waiting.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, h := range c.pending {
		if !h.cancelled.Load() {
			n++
		}
	}
	return n
}

type manualHandle struct {
	fn        func(now time.Time)
	cancelled atomic.Bool
}

func (h *manualHandle) Cancel() { h.cancelled.Store(true) }
