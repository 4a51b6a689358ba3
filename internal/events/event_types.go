package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/report-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketUpdated       EventType = "ticket_updated"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketDeleted       EventType = "ticket_deleted"
)

// Actor identifies which view caused the event.
type Actor struct {
	Role domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	TicketNumber string      `json:"ticket_number"`
	Actor        Actor       `json:"actor"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// New stamps an event with a fresh id.
func New(eventType EventType, ticketNumber string, role domain.Role, at time.Time, payload interface{}) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		TicketNumber: ticketNumber,
		Actor:        Actor{Role: role},
		Timestamp:    at,
		Payload:      payload,
	}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title    string                `json:"title"`
	Priority domain.TicketPriority `json:"priority"`
	HasImage bool                  `json:"has_image"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketUpdatedPayload lists the fields a patch touched.
type TicketUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	Title string `json:"title"`
}
