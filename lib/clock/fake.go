// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// Fake returns a FakeClock reading initial. It does not move until
// Advance is called.
func Fake(initial time.Time) *FakeClock {
	clock := &FakeClock{now: initial}
	clock.armed = sync.NewCond(&clock.mu)
	return clock
}

// FakeClock is a Clock driven by the test. It is safe for concurrent
// use.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer

	// armed is broadcast whenever a timer is added.
	armed *sync.Cond
}

// fakeTimer backs After, Sleep (period zero) and tickers.
type fakeTimer struct {
	due     time.Time
	period  time.Duration
	fire    chan time.Time
	stopped bool
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	fire := make(chan time.Time, 1)
	if d <= 0 {
		fire <- c.now
		return fire
	}
	c.arm(&fakeTimer{due: c.now.Add(d), fire: fire})
	return fire
}

func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &fakeTimer{due: c.now.Add(d), period: d, fire: make(chan time.Time, 1)}
	c.arm(timer)
	return &Ticker{C: timer.fire, stopFunc: func() {
		c.mu.Lock()
		timer.stopped = true
		c.mu.Unlock()
	}}
}

func (c *FakeClock) Sleep(d time.Duration) {
	if d > 0 {
		<-c.After(d)
	}
}

// Advance moves the clock forward by d and fires every timer that has
// come due. Sends never block: a ticker whose reader is behind keeps
// only one tick, however many periods d spans.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)

	pending := c.timers[:0]
	for _, timer := range c.timers {
		if timer.stopped {
			continue
		}
		if timer.due.After(c.now) {
			pending = append(pending, timer)
			continue
		}
		select {
		case timer.fire <- c.now:
		default:
		}
		if timer.period > 0 {
			for !timer.due.After(c.now) {
				timer.due = timer.due.Add(timer.period)
			}
			pending = append(pending, timer)
		}
	}
	clear(c.timers[len(pending):])
	c.timers = pending
}

// WaitForTimers blocks until at least n timers are pending, so that an
// Advance cannot run before the goroutine under test has armed its
// timeout.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pending() < n {
		c.armed.Wait()
	}
}

// PendingCount returns the number of timers that have not fired or
// been stopped.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending()
}

func (c *FakeClock) arm(timer *fakeTimer) {
	c.timers = append(c.timers, timer)
	c.armed.Broadcast()
}

func (c *FakeClock) pending() int {
	count := 0
	for _, timer := range c.timers {
		if !timer.stopped {
			count++
		}
	}
	return count
}
