// Package notify holds transient operator notifications that expire on
// their own after a fixed time to live.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/report-desk/internal/clock"
	"github.com/spec-kit/report-desk/internal/domain"
)

// Center keeps active notifications newest first.
type Center struct {
	mu     sync.Mutex
	clock  clock.Clock
	ttl    time.Duration
	items  []domain.Notification
	timers map[string]clock.Timer
	closed bool
}

// NewCenter builds a Center whose notifications expire after ttl.
func NewCenter(c clock.Clock, ttl time.Duration) *Center {
	if c == nil {
		c = clock.Real()
	}
	return &Center{
		clock:  c,
		ttl:    ttl,
		timers: make(map[string]clock.Timer),
	}
}

// Push adds a notification and schedules its removal.
func (c *Center) Push(message string, kind domain.NotificationKind) domain.Notification {
	n := domain.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		CreatedAt: c.clock.Now().UTC(),
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return n
	}
	c.items = append([]domain.Notification{n}, c.items...)
	c.mu.Unlock()

	// AfterFunc may run expire inline for a non-positive ttl, so the lock is
	// released first.
	timer := c.clock.AfterFunc(c.ttl, func() { c.expire(n.ID) })

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexLocked(n.ID) < 0 || c.closed {
		timer.Stop()
		return n
	}
	c.timers[n.ID] = timer
	return n
}

// List returns the active notifications, newest first.
func (c *Center) List() []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Clear removes a notification early. It reports whether id was active.
func (c *Center) Clear(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(id)
}

// Close cancels every pending expiry and drops all notifications.
func (c *Center) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.items = nil
	c.closed = true
}

func (c *Center) expire(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(id)
}

func (c *Center) removeLocked(id string) bool {
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	idx := c.indexLocked(id)
	if idx < 0 {
		return false
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return true
}

func (c *Center) indexLocked(id string) int {
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}
