package worker

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/report-desk/internal/clock"
	"github.com/spec-kit/report-desk/internal/config"
	"github.com/spec-kit/report-desk/internal/domain"
	"github.com/spec-kit/report-desk/internal/events"
	"github.com/spec-kit/report-desk/internal/notify"
	"github.com/spec-kit/report-desk/internal/service"
)

func newNotifications(t *testing.T) (*service.NotificationService, events.Dispatcher) {
	t.Helper()
	fc := clock.Fake(time.Date(2026, 4, 20, 9, 0, 0, 0, time.UTC))
	dispatcher := events.NewInMemoryDispatcher()
	notes := service.NewNotificationService(dispatcher, notify.NewCenter(fc, 5*time.Second), zap.NewNop(), config.NotificationConfig{})
	t.Cleanup(notes.Close)
	return notes, dispatcher
}

func TestWorkerHandlesQueuedEventsBeforeExit(t *testing.T) {
	notes, dispatcher := newNotifications(t)
	w := NewNotificationWorker(notes, 8, nil)
	w.Attach(dispatcher)

	now := time.Now()
	for _, number := range []string{"TK-260420-1001", "TK-260420-1002"} {
		ev := events.New(events.EventTicketCreated, number, domain.RoleSubmitter, now, events.TicketCreatedPayload{Title: "t"})
		if err := dispatcher.Publish(context.Background(), ev); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	// Updates have no notification handler and must be ignored.
	if err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventTicketUpdated}); err != nil {
		t.Fatalf("publish update: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()
	w.Wait()

	list := notes.List()
	if len(list) != 2 {
		t.Fatalf("notifications = %+v", list)
	}
	if list[0].Message != service.CreatedMessage("TK-260420-1002") {
		t.Errorf("newest = %q", list[0].Message)
	}
}

func TestWorkerDropsWhenQueueFull(t *testing.T) {
	notes, dispatcher := newNotifications(t)
	w := NewNotificationWorker(notes, 1, nil)
	w.Attach(dispatcher)

	ev := events.New(events.EventTicketDeleted, "TK-260420-1003", domain.RoleAdmin, time.Now(), events.TicketDeletedPayload{Title: "t"})
	if err := dispatcher.Publish(context.Background(), ev); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if err := dispatcher.Publish(context.Background(), ev); err == nil {
		t.Fatal("expected queue full error")
	}
	if w.Dropped() != 1 {
		t.Errorf("dropped = %d", w.Dropped())
	}
}
