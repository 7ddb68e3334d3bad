package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Billing-api/internal/application/inventory"
)

// NotificationHandler alertas de stock bajo y agotado.
type NotificationHandler struct {
	uc *inventory.LowStockUseCase
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *inventory.LowStockUseCase) *NotificationHandler {
	return &NotificationHandler{uc: uc}
}

// List GET /api/notifications
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.ListNotifications(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
