package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/report-desk/internal/api/dto"
	"github.com/spec-kit/report-desk/internal/service"
	apperrors "github.com/spec-kit/report-desk/pkg/util/errorutil"
)

// TicketsHandler manages the public submission and lookup endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Submit(c.UserContext(), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CreateTicketResponse{
		TicketNumber: ticket.TicketNumber,
		Ticket:       ticket,
	}})
}

// GetTicket GET /api/tickets/:number. Only the public projection is returned.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetPublicTicket(c.Params("number"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Lookup GET /api/lookup?number=.
func (h *TicketsHandler) Lookup(c *fiber.Ctx) error {
	view, err := h.service.Lookup(c.Query("number"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": view})
}
