package worker

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/spec-kit/report-desk/internal/events"
	"github.com/spec-kit/report-desk/internal/service"
)

// DefaultQueueSize bounds the events waiting for the notification goroutine.
const DefaultQueueSize = 64

// NotificationWorker moves notification side effects off the request path.
// Events are queued by the dispatcher and handled in order by one goroutine.
type NotificationWorker struct {
	handlers map[events.EventType]events.EventHandler
	queue    chan events.Event
	done     chan struct{}
	logger   *zap.Logger
	dropped  atomic.Int64
}

// NewNotificationWorker builds a worker around the service's handlers.
func NewNotificationWorker(notificationService *service.NotificationService, queueSize int, logger *zap.Logger) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		handlers: notificationService.Handlers(),
		queue:    make(chan events.Event, queueSize),
		done:     make(chan struct{}),
		logger:   logger.Named("notification_worker"),
	}
}

// Attach subscribes the worker to every event type it has a handler for.
func (w *NotificationWorker) Attach(dispatcher events.Dispatcher) {
	for eventType := range w.handlers {
		dispatcher.Subscribe(eventType, w.enqueue)
	}
}

// Start runs the worker until ctx is cancelled. Events still queued at that
// point are handled before Wait returns.
func (w *NotificationWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Wait blocks until the worker started by Start has drained and exited.
func (w *NotificationWorker) Wait() {
	<-w.done
}

// Dropped reports how many events were rejected because the queue was full.
func (w *NotificationWorker) Dropped() int64 {
	return w.dropped.Load()
}

func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
		return nil
	default:
		w.dropped.Add(1)
		return fmt.Errorf("notification queue full: dropped %s for %s", event.Type, event.TicketNumber)
	}
}

func (w *NotificationWorker) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case event := <-w.queue:
			w.handle(event)
		}
	}
}

func (w *NotificationWorker) drain() {
	for {
		select {
		case event := <-w.queue:
			w.handle(event)
		default:
			return
		}
	}
}

// handle runs detached from the publishing request, whose context is gone by now.
func (w *NotificationWorker) handle(event events.Event) {
	handler, ok := w.handlers[event.Type]
	if !ok {
		return
	}
	if err := handler(context.Background(), event); err != nil {
		w.logger.Warn("notification handler failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_number", event.TicketNumber),
			zap.Error(err))
	}
}
