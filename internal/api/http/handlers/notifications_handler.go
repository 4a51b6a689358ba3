package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/report-desk/internal/service"
	apperrors "github.com/spec-kit/report-desk/pkg/util/errorutil"
)

// NotificationsHandler lists and dismisses transient notifications.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// List GET /api/notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.List()})
}

// Dismiss DELETE /api/notifications/:id.
func (h *NotificationsHandler) Dismiss(c *fiber.Ctx) error {
	if !h.service.Dismiss(c.Params("id")) {
		return apperrors.NewNotFound("notification", map[string]any{"id": c.Params("id")})
	}
	return c.SendStatus(http.StatusNoContent)
}
