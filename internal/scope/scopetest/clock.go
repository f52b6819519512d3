// Package scopetest provides a manual clock for driving scope timers in tests.
package scopetest

import (
	"sort"
	"sync"
	"time"

	"reelgrip/internal/scope"
)

// Clock is a fake time source. Timers only fire when Advance is called.
type Clock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*timer
}

type timer struct {
	clock    *Clock
	deadline time.Duration
	seq      int
	f        func()
	stopped  bool
	fired    bool
}

// NewClock returns a clock at time zero
func NewClock() *Clock {
	return &Clock{}
}

// AfterFunc satisfies scope.AfterFunc
func (c *Clock) AfterFunc(d time.Duration, f func()) scope.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &timer{clock: c, deadline: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Option returns the scope option that installs this clock
func (c *Clock) Option() scope.Option {
	return scope.WithAfterFunc(c.AfterFunc)
}

// Advance moves time forward by d and runs every timer that came due, in
// deadline order, on the calling goroutine.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*timer
	remaining := c.timers[:0]
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case t.deadline <= c.now:
			t.fired = true
			due = append(due, t)
		default:
			remaining = append(remaining, t)
		}
	}
	c.timers = remaining
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline != due[j].deadline {
			return due[i].deadline < due[j].deadline
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		t.f()
	}
}

// Active returns the number of timers that are neither stopped nor fired
func (c *Clock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (t *timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
