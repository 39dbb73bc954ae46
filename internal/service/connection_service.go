// Package service holds the connection lifecycle business logic.
package service

import (
	"context"
	"strings"
	"time"

	"vibeconnect/internal/models"
	"vibeconnect/internal/observability"
	"vibeconnect/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Relationship values reported by Status.
const (
	StatusNone            = "none"
	StatusPendingSent     = "pending_sent"
	StatusPendingReceived = "pending_received"
	StatusConnected       = "connected"
)

// Relationship describes how the viewer relates to another user.
type Relationship struct {
	Status    string `json:"status"`
	RequestID uint   `json:"request_id,omitempty"`
}

// ConnectionService creates and resolves connection requests.
type ConnectionService struct {
	connections repository.ConnectionRepository
	profiles    repository.ProfileRepository
	now         func() time.Time
}

// NewConnectionService returns a new ConnectionService.
func NewConnectionService(connections repository.ConnectionRepository, profiles repository.ProfileRepository) *ConnectionService {
	return &ConnectionService{
		connections: connections,
		profiles:    profiles,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateRequest records a pending request from initiatorID to recipientID.
func (s *ConnectionService) CreateRequest(ctx context.Context, initiatorID, recipientID uint, message string) (_ *models.ConnectionRequest, err error) {
	span, ctx := observability.NewSpan(ctx, "ConnectionService.CreateRequest",
		attribute.Int64("initiator_id", int64(initiatorID)),
		attribute.Int64("recipient_id", int64(recipientID)),
	)
	defer func() {
		span.SetError(err)
		span.End()
		observability.ConnectionRequestsTotal.WithLabelValues(observability.Outcome(err)).Inc()
	}()

	if initiatorID == recipientID {
		return nil, models.NewInvalidTargetError()
	}
	message = strings.TrimSpace(message)
	if err := models.ValidateMessage(message); err != nil {
		return nil, err
	}

	if _, err := s.profiles.GetByUserID(ctx, recipientID); err != nil {
		return nil, err
	}

	existing, err := s.connections.FindPendingBetween(ctx, initiatorID, recipientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewDuplicateRequestError(initiatorID, recipientID)
	}

	connected, err := s.connections.HasAccepted(ctx, initiatorID, recipientID)
	if err != nil {
		return nil, err
	}
	if connected {
		return nil, models.NewAlreadyConnectedError(initiatorID, recipientID)
	}

	req := &models.ConnectionRequest{
		InitiatorID: initiatorID,
		RecipientID: recipientID,
		Status:      models.ConnectionStatusPending,
		Message:     message,
	}
	// A racing creator is caught by the store's pending-pair constraint.
	if err := s.connections.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// ResolveRequest applies decision to a pending request addressed to viewerID.
// Exactly one of several concurrent resolves succeeds; the rest get ErrAlreadyResolved.
func (s *ConnectionService) ResolveRequest(ctx context.Context, viewerID, requestID uint, decision models.ConnectionStatus) (_ *models.ConnectionRequest, err error) {
	span, ctx := observability.NewSpan(ctx, "ConnectionService.ResolveRequest",
		attribute.Int64("request_id", int64(requestID)),
		attribute.String("decision", string(decision)),
	)
	defer func() {
		span.SetError(err)
		span.End()
		observability.ResolveAttemptsTotal.WithLabelValues(string(decision), observability.Outcome(err)).Inc()
	}()

	if !decision.IsDecision() {
		return nil, models.NewValidationError("Decision must be accepted or declined")
	}

	req, err := s.connections.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RecipientID != viewerID {
		return nil, models.NewUnauthorizedError("You can only resolve connection requests sent to you")
	}
	if req.Status != models.ConnectionStatusPending {
		return nil, models.NewAlreadyResolvedError(req.ID, req.Status)
	}

	at := s.now()
	won, err := s.connections.ResolvePending(ctx, requestID, decision, at)
	if err != nil {
		return nil, err
	}
	if !won {
		var final models.ConnectionStatus
		if current, getErr := s.connections.GetByID(ctx, requestID); getErr == nil {
			final = current.Status
		}
		return nil, models.NewAlreadyResolvedError(requestID, final)
	}

	req.Status = decision
	req.ResolvedAt = &at
	req.UpdatedAt = at
	return req, nil
}

// PendingInbound returns pending requests addressed to viewerID, oldest first.
func (s *ConnectionService) PendingInbound(ctx context.Context, viewerID uint) ([]models.ConnectionRequest, error) {
	return s.connections.ListPendingForRecipient(ctx, viewerID)
}

// SentRequests returns the viewer's outgoing pending requests.
func (s *ConnectionService) SentRequests(ctx context.Context, viewerID uint) ([]models.ConnectionRequest, error) {
	return s.connections.ListPendingFromInitiator(ctx, viewerID)
}

// Connections returns the accepted requests the viewer takes part in.
func (s *ConnectionService) Connections(ctx context.Context, viewerID uint) ([]models.ConnectionRequest, error) {
	return s.connections.ListAccepted(ctx, viewerID)
}

// Status reports the relationship between viewerID and otherID.
func (s *ConnectionService) Status(ctx context.Context, viewerID, otherID uint) (Relationship, error) {
	if viewerID == otherID {
		return Relationship{}, models.NewInvalidTargetError()
	}

	pending, err := s.connections.FindPendingBetween(ctx, viewerID, otherID)
	if err != nil {
		return Relationship{}, err
	}
	if pending != nil {
		if pending.InitiatorID == viewerID {
			return Relationship{Status: StatusPendingSent, RequestID: pending.ID}, nil
		}
		return Relationship{Status: StatusPendingReceived, RequestID: pending.ID}, nil
	}

	connected, err := s.connections.HasAccepted(ctx, viewerID, otherID)
	if err != nil {
		return Relationship{}, err
	}
	if connected {
		return Relationship{Status: StatusConnected}, nil
	}
	return Relationship{Status: StatusNone}, nil
}
