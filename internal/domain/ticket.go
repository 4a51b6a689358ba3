package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for problem reports.
type TicketStatus string

const (
	TicketStatusNew           TicketStatus = "new"
	TicketStatusInProgress    TicketStatus = "in-progress"
	TicketStatusTransferred   TicketStatus = "transferred"
	TicketStatusCompleted     TicketStatus = "completed"
	TicketStatusFixed         TicketStatus = "fixed"
	TicketStatusNeedsFollowup TicketStatus = "needs-followup"
	TicketStatusCannotFix     TicketStatus = "cannot-fix"
)

// TicketPriority enumerates urgency classes. A is the most urgent.
type TicketPriority string

const (
	TicketPriorityA TicketPriority = "A"
	TicketPriorityB TicketPriority = "B"
	TicketPriorityC TicketPriority = "C"
)

// Ticket is a submitted problem report. TicketNumber is the identifier shared
// with the submitter and never changes after creation.
type Ticket struct {
	ID               string         `json:"id" yaml:"id"`
	TicketNumber     string         `json:"ticketNumber" yaml:"ticketNumber"`
	Title            string         `json:"title" yaml:"title"`
	Description      string         `json:"description" yaml:"description"`
	ImageURL         string         `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Category         string         `json:"category" yaml:"category"`
	Priority         TicketPriority `json:"priority" yaml:"priority"`
	Status           TicketStatus   `json:"status" yaml:"status"`
	Location         string         `json:"location" yaml:"location"`
	ReportedBy       string         `json:"reportedBy" yaml:"reportedBy"`
	Phone            string         `json:"phone" yaml:"phone"`
	Email            string         `json:"email" yaml:"email"`
	AdminNotes       string         `json:"adminNotes" yaml:"adminNotes"`
	MaintenanceNotes string         `json:"maintenanceNotes" yaml:"maintenanceNotes"`
	AssignedTo       string         `json:"assignedTo" yaml:"assignedTo"`
	CreatedAt        time.Time      `json:"createdAt" yaml:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt" yaml:"updatedAt"`
}

// TicketInput is the submitter-provided part of a new ticket.
type TicketInput struct {
	Title       string
	Description string
	ImageURL    string
	Category    string
	Priority    TicketPriority
	Location    string
	ReportedBy  string
	Phone       string
	Email       string
}

// TicketPatch carries the fields an update may change. Nil fields are left as is.
type TicketPatch struct {
	Title            *string
	Description      *string
	Status           *TicketStatus
	Priority         *TicketPriority
	Category         *string
	Location         *string
	AdminNotes       *string
	MaintenanceNotes *string
	AssignedTo       *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TicketPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil &&
		p.Category == nil && p.Location == nil && p.AdminNotes == nil &&
		p.MaintenanceNotes == nil && p.AssignedTo == nil
}

// NormalizeTicketNumber trims and uppercases a user-typed ticket number.
func NormalizeTicketNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}

// ParsePriority validates a priority value. Empty input yields the default B.
func ParsePriority(val string) (TicketPriority, bool) {
	switch TicketPriority(strings.ToUpper(strings.TrimSpace(val))) {
	case "":
		return TicketPriorityB, true
	case TicketPriorityA:
		return TicketPriorityA, true
	case TicketPriorityB:
		return TicketPriorityB, true
	case TicketPriorityC:
		return TicketPriorityC, true
	}
	return "", false
}
