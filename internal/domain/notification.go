package domain

import "time"

// NotificationKind classifies transient notifications.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationInfo    NotificationKind = "info"
	NotificationWarning NotificationKind = "warning"
)

// Notification is a short-lived message surfaced to operators.
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	CreatedAt time.Time        `json:"createdAt"`
}
