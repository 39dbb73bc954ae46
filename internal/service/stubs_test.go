package service

import (
	"context"
	"time"

	"vibeconnect/internal/models"
)

type connectionRepoStub struct {
	createFn                   func(context.Context, *models.ConnectionRequest) error
	getByIDFn                  func(context.Context, uint) (*models.ConnectionRequest, error)
	findPendingBetweenFn       func(context.Context, uint, uint) (*models.ConnectionRequest, error)
	hasAcceptedFn              func(context.Context, uint, uint) (bool, error)
	listPendingForRecipientFn  func(context.Context, uint) ([]models.ConnectionRequest, error)
	listPendingFromInitiatorFn func(context.Context, uint) ([]models.ConnectionRequest, error)
	listAcceptedFn             func(context.Context, uint) ([]models.ConnectionRequest, error)
	resolvePendingFn           func(context.Context, uint, models.ConnectionStatus, time.Time) (bool, error)
}

func (s *connectionRepoStub) Create(ctx context.Context, req *models.ConnectionRequest) error {
	return s.createFn(ctx, req)
}
func (s *connectionRepoStub) GetByID(ctx context.Context, id uint) (*models.ConnectionRequest, error) {
	return s.getByIDFn(ctx, id)
}
func (s *connectionRepoStub) FindPendingBetween(ctx context.Context, a, b uint) (*models.ConnectionRequest, error) {
	if s.findPendingBetweenFn == nil {
		return nil, nil
	}
	return s.findPendingBetweenFn(ctx, a, b)
}
func (s *connectionRepoStub) HasAccepted(ctx context.Context, a, b uint) (bool, error) {
	if s.hasAcceptedFn == nil {
		return false, nil
	}
	return s.hasAcceptedFn(ctx, a, b)
}
func (s *connectionRepoStub) ListPendingForRecipient(ctx context.Context, id uint) ([]models.ConnectionRequest, error) {
	return s.listPendingForRecipientFn(ctx, id)
}
func (s *connectionRepoStub) ListPendingFromInitiator(ctx context.Context, id uint) ([]models.ConnectionRequest, error) {
	return s.listPendingFromInitiatorFn(ctx, id)
}
func (s *connectionRepoStub) ListAccepted(ctx context.Context, id uint) ([]models.ConnectionRequest, error) {
	return s.listAcceptedFn(ctx, id)
}
func (s *connectionRepoStub) ResolvePending(ctx context.Context, id uint, status models.ConnectionStatus, at time.Time) (bool, error) {
	return s.resolvePendingFn(ctx, id, status, at)
}

type profileRepoStub struct {
	getByUserIDFn func(context.Context, uint) (*models.Profile, error)
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	if s.getByUserIDFn == nil {
		return &models.Profile{UserID: userID, DisplayName: "someone"}, nil
	}
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) List(context.Context, int, int) ([]models.Profile, error) {
	return nil, nil
}
func (s *profileRepoStub) Upsert(context.Context, *models.Profile) error {
	return nil
}
