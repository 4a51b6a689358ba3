package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/report-desk/internal/api/dto"
	"github.com/spec-kit/report-desk/internal/auth"
	"github.com/spec-kit/report-desk/internal/domain"
	"github.com/spec-kit/report-desk/internal/service"
	apperrors "github.com/spec-kit/report-desk/pkg/util/errorutil"
)

// MaintenanceHandler serves the maintenance queue.
type MaintenanceHandler struct {
	tickets *service.TicketService
}

// NewMaintenanceHandler constructs handler.
func NewMaintenanceHandler(ticketService *service.TicketService) *MaintenanceHandler {
	return &MaintenanceHandler{tickets: ticketService}
}

// ListQueue GET /api/maintenance/tickets?q=.
func (h *MaintenanceHandler) ListQueue(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.tickets.ListMaintenanceQueue(c.Query("q"))})
}

// UpdateTicket PATCH /api/maintenance/tickets/:number.
func (h *MaintenanceHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.MaintenanceUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role := auth.ActorRole(c, domain.RoleMaintenance)
	ticket, err := h.tickets.UpdateFromMaintenance(c.UserContext(), role, c.Params("number"), req.ToUpdate())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}
