package service

import (
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/report-desk/internal/domain"
)

// LookupState is the outcome of a ticket lookup.
type LookupState string

const (
	LookupIdle     LookupState = "idle"
	LookupNotFound LookupState = "not_found"
	LookupFound    LookupState = "found"
)

// LookupTicket is the submitter-facing part of a ticket.
type LookupTicket struct {
	TicketNumber      string              `json:"ticketNumber"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	ImageURL          string              `json:"imageUrl,omitempty"`
	Status            domain.TicketStatus `json:"status"`
	StatusLabel       string              `json:"statusLabel"`
	StatusDescription string              `json:"statusDescription"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

// LookupView is what the lookup page renders. Ticket is set only when State
// is found.
type LookupView struct {
	State  LookupState   `json:"state"`
	Query  string        `json:"query"`
	Ticket *LookupTicket `json:"ticket,omitempty"`
}

// Lookup resolves free-text input to a view state.
func (s *TicketService) Lookup(input string) (LookupView, error) {
	query := domain.NormalizeTicketNumber(input)
	if query == "" {
		return LookupView{State: LookupIdle}, nil
	}
	ticket, err := s.store.FindByTicketNumber(strings.TrimSpace(input))
	if errors.Is(err, domain.ErrTicketNotFound) {
		return LookupView{State: LookupNotFound, Query: query}, nil
	}
	if err != nil {
		return LookupView{}, err
	}
	public := toLookupTicket(ticket)
	return LookupView{State: LookupFound, Query: query, Ticket: &public}, nil
}

// GetPublicTicket returns the submitter-facing fields of a ticket. Contact
// details and staff notes stay behind the admin routes.
func (s *TicketService) GetPublicTicket(number string) (LookupTicket, error) {
	ticket, err := s.store.FindByTicketNumber(number)
	if err != nil {
		return LookupTicket{}, err
	}
	return toLookupTicket(ticket), nil
}

func toLookupTicket(ticket domain.Ticket) LookupTicket {
	info := ticket.Status.Info()
	return LookupTicket{
		TicketNumber:      ticket.TicketNumber,
		Title:             ticket.Title,
		Description:       ticket.Description,
		ImageURL:          ticket.ImageURL,
		Status:            ticket.Status,
		StatusLabel:       info.Label,
		StatusDescription: info.Description,
		CreatedAt:         ticket.CreatedAt,
		UpdatedAt:         ticket.UpdatedAt,
	}
}
