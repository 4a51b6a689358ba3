package domain

import "time"

// TicketChangeType captures what changed in a history entry.
type TicketChangeType string

const (
	ChangeTypeCreated TicketChangeType = "CREATED"
	ChangeTypeStatus  TicketChangeType = "STATUS_CHANGE"
	ChangeTypeFields  TicketChangeType = "FIELDS_CHANGE"
	ChangeTypeDeleted TicketChangeType = "DELETED"
)

// TicketHistory is an immutable audit trail entry.
type TicketHistory struct {
	ID           string           `json:"id"`
	TicketNumber string           `json:"ticketNumber"`
	ChangedBy    Role             `json:"changedBy"`
	ChangeType   TicketChangeType `json:"changeType"`
	OldValue     map[string]any   `json:"oldValue,omitempty"`
	NewValue     map[string]any   `json:"newValue,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}
