package notify

import (
	"testing"
	"time"

	"github.com/spec-kit/report-desk/internal/clock"
	"github.com/spec-kit/report-desk/internal/domain"
)

func newTestCenter() (*Center, *clock.FakeClock) {
	fc := clock.Fake(time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	return NewCenter(fc, 5*time.Second), fc
}

func TestPushListsNewestFirst(t *testing.T) {
	c, fc := newTestCenter()
	first := c.Push("one", domain.NotificationInfo)
	fc.Advance(time.Second)
	second := c.Push("two", domain.NotificationSuccess)

	got := c.List()
	if len(got) != 2 || got[0].ID != second.ID || got[1].ID != first.ID {
		t.Fatalf("list = %+v", got)
	}
	if !second.CreatedAt.After(first.CreatedAt) {
		t.Error("createdAt should follow the clock")
	}
}

func TestNotificationsExpireAfterTTL(t *testing.T) {
	c, fc := newTestCenter()
	c.Push("one", domain.NotificationInfo)
	fc.Advance(3 * time.Second)
	c.Push("two", domain.NotificationInfo)

	fc.Advance(2 * time.Second)
	got := c.List()
	if len(got) != 1 || got[0].Message != "two" {
		t.Fatalf("after 5s = %+v", got)
	}

	fc.Advance(3 * time.Second)
	if n := len(c.List()); n != 0 {
		t.Fatalf("after 8s len = %d", n)
	}
	if fc.Pending() != 0 {
		t.Errorf("pending timers = %d", fc.Pending())
	}
}

func TestClearStopsTimer(t *testing.T) {
	c, fc := newTestCenter()
	n := c.Push("one", domain.NotificationWarning)
	if !c.Clear(n.ID) {
		t.Fatal("clear should report removal")
	}
	if c.Clear(n.ID) {
		t.Fatal("second clear should report false")
	}
	if fc.Pending() != 0 {
		t.Errorf("pending timers = %d", fc.Pending())
	}
}

func TestCloseCancelsEverything(t *testing.T) {
	c, fc := newTestCenter()
	c.Push("one", domain.NotificationInfo)
	c.Push("two", domain.NotificationInfo)
	c.Close()
	if fc.Pending() != 0 {
		t.Errorf("pending timers = %d", fc.Pending())
	}
	c.Push("late", domain.NotificationInfo)
	if n := len(c.List()); n != 0 {
		t.Fatalf("closed center kept %d items", n)
	}
}

func TestZeroTTLExpiresImmediately(t *testing.T) {
	fc := clock.Fake(time.Now())
	c := NewCenter(fc, 0)
	c.Push("gone", domain.NotificationInfo)
	if n := len(c.List()); n != 0 {
		t.Fatalf("len = %d", n)
	}
}
