// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"vibeconnect/internal/models"
	"vibeconnect/internal/observability"

	"gorm.io/gorm"
)

// ConnectionRepository defines the interface for connection request persistence.
type ConnectionRepository interface {
	Create(ctx context.Context, req *models.ConnectionRequest) error
	GetByID(ctx context.Context, id uint) (*models.ConnectionRequest, error)
	// FindPendingBetween returns nil, nil when the pair has no pending request.
	FindPendingBetween(ctx context.Context, userA, userB uint) (*models.ConnectionRequest, error)
	HasAccepted(ctx context.Context, userA, userB uint) (bool, error)
	ListPendingForRecipient(ctx context.Context, recipientID uint) ([]models.ConnectionRequest, error)
	ListPendingFromInitiator(ctx context.Context, initiatorID uint) ([]models.ConnectionRequest, error)
	ListAccepted(ctx context.Context, userID uint) ([]models.ConnectionRequest, error)
	// ResolvePending moves a pending request to status. It reports false when
	// the request was no longer pending, in which case nothing was written.
	ResolvePending(ctx context.Context, id uint, status models.ConnectionStatus, at time.Time) (bool, error)
}

const connectionTable = "connection_requests"

type connectionRepository struct {
	db      *gorm.DB
	logger  *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewConnectionRepository creates a GORM-backed connection repository.
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepository{
		db:      db,
		logger:  observability.NewRepoLogger(connectionTable),
		metrics: observability.NewDatabaseMetrics(connectionTable),
	}
}

func (r *connectionRepository) trace(ctx context.Context, method string) (context.Context, func(error)) {
	ctx, span := observability.TraceRepositoryMethod(ctx, r.db.Dialector.Name(), method, connectionTable)
	done := r.metrics.TrackQuery(method)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
		done()
	}
}

func (r *connectionRepository) Create(ctx context.Context, req *models.ConnectionRequest) (err error) {
	ctx, end := r.trace(ctx, "Create")
	defer func() { end(err) }()

	if req.Status == "" {
		req.Status = models.ConnectionStatusPending
	}
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		if IsDuplicateKey(err) {
			r.logger.LogConflict(ctx, "create", map[string]interface{}{
				"initiator_id": req.InitiatorID,
				"recipient_id": req.RecipientID,
			})
			return models.NewDuplicateRequestError(req.InitiatorID, req.RecipientID)
		}
		r.logger.LogError(ctx, err, "create")
		return storeError(err)
	}

	r.logger.LogCreate(ctx, map[string]interface{}{
		"id":           req.ID,
		"initiator_id": req.InitiatorID,
		"recipient_id": req.RecipientID,
	})
	return nil
}

func (r *connectionRepository) GetByID(ctx context.Context, id uint) (_ *models.ConnectionRequest, err error) {
	ctx, end := r.trace(ctx, "GetByID")
	defer func() { end(err) }()

	var req models.ConnectionRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Connection request", id)
		}
		return nil, storeError(err)
	}
	return &req, nil
}

func (r *connectionRepository) FindPendingBetween(ctx context.Context, userA, userB uint) (_ *models.ConnectionRequest, err error) {
	ctx, end := r.trace(ctx, "FindPendingBetween")
	defer func() { end(err) }()

	var req models.ConnectionRequest
	if err := r.db.WithContext(ctx).
		Where("pair_key = ? AND status = ?", models.PairKey(userA, userB), models.ConnectionStatusPending).
		First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeError(err)
	}
	return &req, nil
}

func (r *connectionRepository) HasAccepted(ctx context.Context, userA, userB uint) (_ bool, err error) {
	ctx, end := r.trace(ctx, "HasAccepted")
	defer func() { end(err) }()

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ConnectionRequest{}).
		Where("pair_key = ? AND status = ?", models.PairKey(userA, userB), models.ConnectionStatusAccepted).
		Count(&count).Error; err != nil {
		return false, storeError(err)
	}
	return count > 0, nil
}

func (r *connectionRepository) ListPendingForRecipient(ctx context.Context, recipientID uint) (_ []models.ConnectionRequest, err error) {
	ctx, end := r.trace(ctx, "ListPendingForRecipient")
	defer func() { end(err) }()

	var reqs []models.ConnectionRequest
	if err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", recipientID, models.ConnectionStatusPending).
		Order("created_at ASC, id ASC").
		Find(&reqs).Error; err != nil {
		return nil, storeError(err)
	}
	return reqs, nil
}

func (r *connectionRepository) ListPendingFromInitiator(ctx context.Context, initiatorID uint) (_ []models.ConnectionRequest, err error) {
	ctx, end := r.trace(ctx, "ListPendingFromInitiator")
	defer func() { end(err) }()

	var reqs []models.ConnectionRequest
	if err := r.db.WithContext(ctx).
		Where("initiator_id = ? AND status = ?", initiatorID, models.ConnectionStatusPending).
		Order("created_at ASC, id ASC").
		Find(&reqs).Error; err != nil {
		return nil, storeError(err)
	}
	return reqs, nil
}

func (r *connectionRepository) ListAccepted(ctx context.Context, userID uint) (_ []models.ConnectionRequest, err error) {
	ctx, end := r.trace(ctx, "ListAccepted")
	defer func() { end(err) }()

	var reqs []models.ConnectionRequest
	if err := r.db.WithContext(ctx).
		Where("(initiator_id = ? OR recipient_id = ?) AND status = ?", userID, userID, models.ConnectionStatusAccepted).
		Order("resolved_at DESC, id DESC").
		Find(&reqs).Error; err != nil {
		return nil, storeError(err)
	}
	return reqs, nil
}

func (r *connectionRepository) ResolvePending(ctx context.Context, id uint, status models.ConnectionStatus, at time.Time) (_ bool, err error) {
	ctx, end := r.trace(ctx, "ResolvePending")
	defer func() { end(err) }()

	result := r.db.WithContext(ctx).
		Model(&models.ConnectionRequest{}).
		Where("id = ? AND status = ?", id, models.ConnectionStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"resolved_at": at,
			"updated_at":  at,
		})
	if result.Error != nil {
		r.logger.LogError(ctx, result.Error, "resolve")
		return false, storeError(result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.LogConflict(ctx, "resolve", map[string]interface{}{"id": id, "status": status})
		return false, nil
	}

	r.logger.LogUpdate(ctx, map[string]interface{}{"id": id, "status": status})
	return true, nil
}
