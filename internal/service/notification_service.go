package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/report-desk/internal/config"
	"github.com/spec-kit/report-desk/internal/domain"
	"github.com/spec-kit/report-desk/internal/events"
	"github.com/spec-kit/report-desk/internal/notify"
)

// NotificationService turns domain events into transient notifications and
// outbound notification stubs.
type NotificationService struct {
	dispatcher events.Dispatcher
	center     *notify.Center
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, center *notify.Center, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		center:     center,
		logger:     logger,
		cfg:        cfg,
	}
}

// Handlers maps each event type the service reacts to onto its handler.
func (n *NotificationService) Handlers() map[events.EventType]events.EventHandler {
	return map[events.EventType]events.EventHandler{
		events.EventTicketCreated:       n.handleTicketCreated,
		events.EventTicketStatusChanged: n.handleTicketStatusChanged,
		events.EventTicketDeleted:       n.handleTicketDeleted,
	}
}

// RegisterHandlers subscribes the handlers directly, so notifications are
// pushed before Publish returns.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for eventType, handler := range n.Handlers() {
		n.dispatcher.Subscribe(eventType, handler)
	}
}

// List returns active notifications, newest first.
func (n *NotificationService) List() []domain.Notification {
	if n.center == nil {
		return []domain.Notification{}
	}
	return n.center.List()
}

// Dismiss removes a notification before it expires.
func (n *NotificationService) Dismiss(id string) bool {
	if n.center == nil {
		return false
	}
	return n.center.Clear(id)
}

// Close stops pending expiry timers.
func (n *NotificationService) Close() {
	if n.center != nil {
		n.center.Close()
	}
}

// CreatedMessage is the notification text for a new ticket.
func CreatedMessage(ticketNumber string) string {
	return "تم استلام البلاغ رقم " + ticketNumber
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.String("ticket_number", event.TicketNumber), zap.Any("payload", event.Payload))
	n.push(CreatedMessage(event.TicketNumber), domain.NotificationSuccess)
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketStatusChanged", zap.String("ticket_number", event.TicketNumber), zap.Any("payload", event.Payload))
	if payload, ok := event.Payload.(events.TicketStatusChangedPayload); ok {
		n.push(fmt.Sprintf("تم تحديث حالة البلاغ رقم %s إلى %s", event.TicketNumber, payload.NewStatus.Info().Label), domain.NotificationInfo)
	}
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleTicketDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketDeleted", zap.String("ticket_number", event.TicketNumber))
	n.push("تم حذف البلاغ رقم "+event.TicketNumber, domain.NotificationWarning)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) push(message string, kind domain.NotificationKind) {
	if n.center == nil {
		return
	}
	n.center.Push(message, kind)
}

func (n *NotificationService) sendEmailNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("ticket_number", event.TicketNumber),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_number", event.TicketNumber),
		zap.String("event_type", string(event.Type)))
}
