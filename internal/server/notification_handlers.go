package server

import (
	"vibeconnect/internal/models"

	"github.com/gofiber/fiber/v2"
)

// NotificationsResponse is the body of GET /api/notifications.
type NotificationsResponse struct {
	Notifications []models.Notification `json:"notifications"`
	Count         int                   `json:"count"`
}

// GetNotifications handles GET /api/notifications. Clients poll this endpoint;
// each call rebuilds the list from the pending requests addressed to the viewer.
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	items, err := s.inbox.Refresh(c.UserContext(), viewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	if items == nil {
		items = []models.Notification{}
	}
	return c.JSON(NotificationsResponse{Notifications: items, Count: len(items)})
}
