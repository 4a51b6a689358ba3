package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/report-desk/internal/api/dto"
	"github.com/spec-kit/report-desk/internal/auth"
	"github.com/spec-kit/report-desk/internal/domain"
	"github.com/spec-kit/report-desk/internal/export"
	"github.com/spec-kit/report-desk/internal/service"
	"github.com/spec-kit/report-desk/internal/store"
	apperrors "github.com/spec-kit/report-desk/pkg/util/errorutil"
)

// AdminHandler serves the admin table.
type AdminHandler struct {
	tickets *service.TicketService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(ticketService *service.TicketService) *AdminHandler {
	return &AdminHandler{tickets: ticketService}
}

// ListTickets GET /api/admin/tickets?q=&status=&priority=&category=.
func (h *AdminHandler) ListTickets(c *fiber.Ctx) error {
	q, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.tickets.ListTickets(q)})
}

// GetTicket GET /api/admin/tickets/:number returns the full record.
func (h *AdminHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.tickets.GetTicket(c.Params("number"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Statuses GET /api/admin/statuses.
func (h *AdminHandler) Statuses(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.tickets.Statuses()})
}

// UpdateTicket PATCH /api/admin/tickets/:number.
func (h *AdminHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	role := auth.ActorRole(c, domain.RoleAdmin)
	ticket, err := h.tickets.UpdateTicket(c.UserContext(), role, c.Params("number"), req.ToPatch())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// DeleteTicket DELETE /api/admin/tickets/:number.
func (h *AdminHandler) DeleteTicket(c *fiber.Ctx) error {
	role := auth.ActorRole(c, domain.RoleAdmin)
	if err := h.tickets.DeleteTicket(c.UserContext(), role, c.Params("number")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// History GET /api/admin/tickets/:number/history.
func (h *AdminHandler) History(c *fiber.Ctx) error {
	entries, err := h.tickets.ListHistory(c.UserContext(), c.Params("number"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": entries})
}

// Export GET /api/admin/export.
func (h *AdminHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.tickets.Export(&buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	return c.Send(buf.Bytes())
}

func parseTicketQuery(c *fiber.Ctx) (store.Query, error) {
	q := store.Query{
		Text:     c.Query("q"),
		Category: strings.TrimSpace(c.Query("category")),
	}
	for _, part := range splitList(c.Query("status")) {
		status, ok := domain.ParseStatus(part)
		if !ok {
			return store.Query{}, apperrors.NewValidationError("invalid status", map[string]any{"status": part})
		}
		q.Statuses = append(q.Statuses, status)
	}
	for _, part := range splitList(c.Query("priority")) {
		priority, ok := domain.ParsePriority(part)
		if !ok {
			return store.Query{}, apperrors.NewValidationError("invalid priority", map[string]any{"priority": part})
		}
		q.Priorities = append(q.Priorities, priority)
	}
	return q, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
