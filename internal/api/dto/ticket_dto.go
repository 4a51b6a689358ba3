package dto

import (
	"strings"

	"github.com/spec-kit/report-desk/internal/domain"
	"github.com/spec-kit/report-desk/internal/service"
)

// CreateTicketRequest is the public submission form.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Location    string `json:"location"`
	ReportedBy  string `json:"reportedBy"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

// ToInput converts the request to a store input.
func (r CreateTicketRequest) ToInput() domain.TicketInput {
	return domain.TicketInput{
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Category:    r.Category,
		Priority:    domain.TicketPriority(r.Priority),
		Location:    r.Location,
		ReportedBy:  r.ReportedBy,
		Phone:       r.Phone,
		Email:       r.Email,
	}
}

// CreateTicketResponse returns the number the submitter keeps.
type CreateTicketResponse struct {
	TicketNumber string        `json:"ticketNumber"`
	Ticket       domain.Ticket `json:"ticket"`
}

// UpdateTicketRequest is an admin patch. Omitted fields stay unchanged.
type UpdateTicketRequest struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	Status           *string `json:"status"`
	Priority         *string `json:"priority"`
	Category         *string `json:"category"`
	Location         *string `json:"location"`
	AdminNotes       *string `json:"adminNotes"`
	MaintenanceNotes *string `json:"maintenanceNotes"`
	AssignedTo       *string `json:"assignedTo"`
}

// ToPatch converts the request. Status and priority are normalized; unknown
// values are kept so validation can report them.
func (r UpdateTicketRequest) ToPatch() domain.TicketPatch {
	patch := domain.TicketPatch{
		Title:            r.Title,
		Description:      r.Description,
		Category:         r.Category,
		Location:         r.Location,
		AdminNotes:       r.AdminNotes,
		MaintenanceNotes: r.MaintenanceNotes,
		AssignedTo:       r.AssignedTo,
	}
	if r.Status != nil {
		patch.Status = statusPtr(*r.Status)
	}
	if r.Priority != nil {
		p := domain.TicketPriority(strings.ToUpper(strings.TrimSpace(*r.Priority)))
		patch.Priority = &p
	}
	return patch
}

// MaintenanceUpdateRequest is what the maintenance view may send.
type MaintenanceUpdateRequest struct {
	Status           *string `json:"status"`
	MaintenanceNotes *string `json:"maintenanceNotes"`
}

// ToUpdate converts the request.
func (r MaintenanceUpdateRequest) ToUpdate() service.MaintenanceUpdate {
	update := service.MaintenanceUpdate{MaintenanceNotes: r.MaintenanceNotes}
	if r.Status != nil {
		update.Status = statusPtr(*r.Status)
	}
	return update
}

func statusPtr(raw string) *domain.TicketStatus {
	if s, ok := domain.ParseStatus(raw); ok {
		return &s
	}
	s := domain.TicketStatus(raw)
	return &s
}
