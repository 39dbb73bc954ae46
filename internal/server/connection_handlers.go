package server

import (
	"time"

	"vibeconnect/internal/models"
	"vibeconnect/internal/notifications"

	"github.com/gofiber/fiber/v2"
)

// SendConnectionRequestBody is the optional body of a new request. A missing
// message uses models.DefaultConnectMessage; an explicit empty one is kept empty.
type SendConnectionRequestBody struct {
	Message *string `json:"message"`
}

// ConnectionSummary is one accepted connection as seen by the viewer.
type ConnectionSummary struct {
	RequestID   uint      `json:"request_id"`
	UserID      uint      `json:"user_id"`
	DisplayName string    `json:"display_name,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	ConnectedAt time.Time `json:"connected_at"`
}

// SendConnectionRequest handles POST /api/connections/requests/:userId
func (s *Server) SendConnectionRequest(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := viewerID(c)
	targetUserID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}

	var body SendConnectionRequestBody
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
	}
	message := models.DefaultConnectMessage
	if body.Message != nil {
		message = *body.Message
	}

	req, err := s.connectionService.CreateRequest(ctx, userID, targetUserID, message)
	if err != nil {
		return respondError(c, err)
	}

	name := "them"
	if p, err := s.stores.Profiles.GetByUserID(ctx, targetUserID); err == nil && p.DisplayName != "" {
		name = p.DisplayName
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"request": req,
		"notice":  notifications.SentMessage(name),
	})
}

// GetPendingRequests handles GET /api/connections/requests
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	reqs, err := s.connectionService.PendingInbound(c.UserContext(), viewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reqs)
}

// GetSentRequests handles GET /api/connections/requests/sent
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	reqs, err := s.connectionService.SentRequests(c.UserContext(), viewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reqs)
}

// AcceptConnectionRequest handles POST /api/connections/requests/:requestId/accept
func (s *Server) AcceptConnectionRequest(c *fiber.Ctx) error {
	return s.resolveConnectionRequest(c, models.ConnectionStatusAccepted)
}

// DeclineConnectionRequest handles POST /api/connections/requests/:requestId/decline
func (s *Server) DeclineConnectionRequest(c *fiber.Ctx) error {
	return s.resolveConnectionRequest(c, models.ConnectionStatusDeclined)
}

func (s *Server) resolveConnectionRequest(c *fiber.Ctx, decision models.ConnectionStatus) error {
	requestID, err := parseID(c, "requestId")
	if err != nil {
		return nil
	}

	req, err := s.connectionService.ResolveRequest(c.UserContext(), viewerID(c), requestID, decision)
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{"request": req}
	if decision == models.ConnectionStatusAccepted {
		resp["notice"] = notifications.AcceptedToast
	}
	return c.JSON(resp)
}

// GetConnections handles GET /api/connections
func (s *Server) GetConnections(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := viewerID(c)

	reqs, err := s.connectionService.Connections(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}

	out := make([]ConnectionSummary, 0, len(reqs))
	for i := range reqs {
		req := &reqs[i]
		summary := ConnectionSummary{
			RequestID:   req.ID,
			UserID:      req.Counterpart(userID),
			ConnectedAt: req.UpdatedAt,
		}
		if req.ResolvedAt != nil {
			summary.ConnectedAt = *req.ResolvedAt
		}
		// A missing profile still lists the connection, just without a card.
		if p, err := s.stores.Profiles.GetByUserID(ctx, summary.UserID); err == nil {
			summary.DisplayName = p.DisplayName
			summary.Avatar = p.ProfileImage
		}
		out = append(out, summary)
	}
	return c.JSON(out)
}

// GetConnectionStatus handles GET /api/connections/status/:userId
func (s *Server) GetConnectionStatus(c *fiber.Ctx) error {
	otherID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}

	rel, err := s.connectionService.Status(c.UserContext(), viewerID(c), otherID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rel)
}
