package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock is a manually advanced Clock. Pending timers fire synchronously
// inside Advance, in deadline order.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	nextID  int
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	id       int
	deadline time.Time
	fn       func()
	ch       chan time.Time
	fired    bool
	stopped  bool
}

// Fake returns a FakeClock starting at now.
func Fake(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After returns a channel that receives once the clock is advanced past d.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.mu.Lock()
	if d <= 0 {
		ch <- c.now
		c.mu.Unlock()
		return ch
	}
	c.addLocked(d, nil, ch)
	c.mu.Unlock()
	return ch
}

// AfterFunc schedules f to run when the clock is advanced past d. With
// d <= 0, f runs before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	if d <= 0 {
		w := &fakeWaiter{fired: true}
		c.mu.Unlock()
		f()
		return &fakeTimer{clock: c, waiter: w}
	}
	w := c.addLocked(d, f, nil)
	c.mu.Unlock()
	return &fakeTimer{clock: c, waiter: w}
}

// Advance moves the clock forward by d and fires every timer whose deadline
// has been reached.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for {
		w := c.nextDueLocked(target)
		if w == nil {
			break
		}
		w.fired = true
		c.now = w.deadline
		if w.ch != nil {
			w.ch <- w.deadline
			continue
		}
		c.mu.Unlock()
		w.fn()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// Set jumps the clock to t without firing timers. Used for date-dependent tests.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, w := range c.waiters {
		if !w.fired && !w.stopped {
			n++
		}
	}
	return n
}

func (c *FakeClock) addLocked(d time.Duration, fn func(), ch chan time.Time) *fakeWaiter {
	c.nextID++
	w := &fakeWaiter{id: c.nextID, deadline: c.now.Add(d), fn: fn, ch: ch}
	c.waiters = append(c.waiters, w)
	return w
}

func (c *FakeClock) nextDueLocked(target time.Time) *fakeWaiter {
	live := c.waiters[:0]
	for _, w := range c.waiters {
		if !w.fired && !w.stopped {
			live = append(live, w)
		}
	}
	c.waiters = live
	sort.SliceStable(c.waiters, func(i, j int) bool {
		if c.waiters[i].deadline.Equal(c.waiters[j].deadline) {
			return c.waiters[i].id < c.waiters[j].id
		}
		return c.waiters[i].deadline.Before(c.waiters[j].deadline)
	})
	if len(c.waiters) == 0 || c.waiters[0].deadline.After(target) {
		return nil
	}
	return c.waiters[0]
}

type fakeTimer struct {
	clock  *FakeClock
	waiter *fakeWaiter
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.waiter.fired || t.waiter.stopped {
		return false
	}
	t.waiter.stopped = true
	return true
}
