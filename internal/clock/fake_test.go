package clock

import (
	"testing"
	"time"
)

func TestFakeAfterFuncFiresOnAdvance(t *testing.T) {
	start := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
	c := Fake(start)

	fired := 0
	c.AfterFunc(5*time.Second, func() { fired++ })

	c.Advance(4 * time.Second)
	if fired != 0 {
		t.Fatalf("fired early")
	}
	c.Advance(time.Second)
	if fired != 1 {
		t.Fatalf("expected 1 call, got %d", fired)
	}
	if got := c.Now(); !got.Equal(start.Add(5 * time.Second)) {
		t.Errorf("now = %v", got)
	}
}

func TestFakeTimerStop(t *testing.T) {
	c := Fake(time.Unix(0, 0))
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("expected Stop to report a pending timer")
	}
	if timer.Stop() {
		t.Error("second Stop should report false")
	}
	c.Advance(time.Minute)
	if fired {
		t.Error("stopped timer fired")
	}
	if c.Pending() != 0 {
		t.Errorf("pending = %d", c.Pending())
	}
}

func TestFakeAfterDeliversInOrder(t *testing.T) {
	c := Fake(time.Unix(0, 0))
	late := c.After(2 * time.Second)
	early := c.After(time.Second)

	c.Advance(3 * time.Second)

	e := <-early
	l := <-late
	if !e.Before(l) {
		t.Errorf("early %v should precede late %v", e, l)
	}
}

func TestFakeAfterNonPositive(t *testing.T) {
	c := Fake(time.Unix(10, 0))
	select {
	case <-c.After(0):
	default:
		t.Fatal("After(0) should be ready immediately")
	}
}
