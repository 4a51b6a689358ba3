package events

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/report-desk/internal/domain"
)

func TestPublishRunsSubscribersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.TicketNumber)
		return nil
	})
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.TicketNumber)
		return nil
	})
	d.Subscribe(EventTicketDeleted, func(context.Context, Event) error {
		t.Error("deleted handler must not run")
		return nil
	})

	ev := New(EventTicketCreated, "TK-260101-1000", domain.RoleSubmitter, time.Now(), TicketCreatedPayload{Title: "x"})
	if err := d.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(calls) != 2 || calls[0] != "first:TK-260101-1000" || calls[1] != "second:TK-260101-1000" {
		t.Fatalf("calls = %v", calls)
	}
	if ev.ID == "" || ev.Actor.Role != domain.RoleSubmitter {
		t.Errorf("event = %+v", ev)
	}
}

func TestPublishJoinsHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	errA := errors.New("a")
	ran := false
	d.Subscribe(EventTicketUpdated, func(context.Context, Event) error { return errA })
	d.Subscribe(EventTicketUpdated, func(context.Context, Event) error { ran = true; return nil })

	err := d.Publish(context.Background(), Event{Type: EventTicketUpdated})
	if !errors.Is(err, errA) {
		t.Fatalf("err = %v", err)
	}
	if !ran {
		t.Error("later handler should still run")
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	if err := NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventTicketStatusChanged}); err != nil {
		t.Fatal(err)
	}
}

func TestPublishRecoversHandlerPanic(t *testing.T) {
	d := NewInMemoryDispatcher()
	ran := false
	d.Subscribe(EventTicketDeleted, func(context.Context, Event) error { panic("boom") })
	d.Subscribe(EventTicketDeleted, func(context.Context, Event) error { ran = true; return nil })

	err := d.Publish(context.Background(), Event{Type: EventTicketDeleted})
	if err == nil || !strings.Contains(err.Error(), "panicked: boom") {
		t.Fatalf("err = %v", err)
	}
	if !ran {
		t.Error("handler after the panic should still run")
	}
}
