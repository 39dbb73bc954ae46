package mongostore

import (
	"context"
	"errors"
	"time"

	"vibeconnect/internal/models"
	"vibeconnect/internal/observability"
	"vibeconnect/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type connectionRepository struct {
	coll    *mongo.Collection
	store   *Store
	logger  *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// Connections returns the MongoDB-backed connection repository.
func (s *Store) Connections() repository.ConnectionRepository {
	return &connectionRepository{
		coll:    s.db.Collection(connectionsCollection),
		store:   s,
		logger:  observability.NewRepoLogger(connectionsCollection),
		metrics: observability.NewDatabaseMetrics(connectionsCollection),
	}
}

func storeError(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.NewTransientStoreError(err)
}

func (r *connectionRepository) Create(ctx context.Context, req *models.ConnectionRequest) error {
	defer r.metrics.TrackQuery("Create")()

	id, err := r.store.nextID(ctx, connectionsCollection)
	if err != nil {
		return storeError(err)
	}
	now := time.Now().UTC()
	req.ID = id
	req.PairKey = models.PairKey(req.InitiatorID, req.RecipientID)
	if req.Status == "" {
		req.Status = models.ConnectionStatusPending
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, req); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			r.logger.LogConflict(ctx, "create", map[string]interface{}{
				"initiator_id": req.InitiatorID,
				"recipient_id": req.RecipientID,
			})
			return models.NewDuplicateRequestError(req.InitiatorID, req.RecipientID)
		}
		r.logger.LogError(ctx, err, "create")
		return storeError(err)
	}
	r.logger.LogCreate(ctx, map[string]interface{}{"id": req.ID})
	return nil
}

func (r *connectionRepository) GetByID(ctx context.Context, id uint) (*models.ConnectionRequest, error) {
	defer r.metrics.TrackQuery("GetByID")()

	var req models.ConnectionRequest
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundError("Connection request", id)
		}
		return nil, storeError(err)
	}
	return &req, nil
}

func (r *connectionRepository) FindPendingBetween(ctx context.Context, userA, userB uint) (*models.ConnectionRequest, error) {
	defer r.metrics.TrackQuery("FindPendingBetween")()

	var req models.ConnectionRequest
	err := r.coll.FindOne(ctx, bson.M{
		"pair_key": models.PairKey(userA, userB),
		"status":   models.ConnectionStatusPending,
	}).Decode(&req)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(err)
	}
	return &req, nil
}

func (r *connectionRepository) HasAccepted(ctx context.Context, userA, userB uint) (bool, error) {
	defer r.metrics.TrackQuery("HasAccepted")()

	n, err := r.coll.CountDocuments(ctx, bson.M{
		"pair_key": models.PairKey(userA, userB),
		"status":   models.ConnectionStatusAccepted,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, storeError(err)
	}
	return n > 0, nil
}

func (r *connectionRepository) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.ConnectionRequest, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, storeError(err)
	}
	defer cursor.Close(ctx)

	reqs := []models.ConnectionRequest{}
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, storeError(err)
	}
	return reqs, nil
}

func (r *connectionRepository) ListPendingForRecipient(ctx context.Context, recipientID uint) ([]models.ConnectionRequest, error) {
	defer r.metrics.TrackQuery("ListPendingForRecipient")()
	return r.find(ctx,
		bson.M{"recipient_id": recipientID, "status": models.ConnectionStatusPending},
		bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
	)
}

func (r *connectionRepository) ListPendingFromInitiator(ctx context.Context, initiatorID uint) ([]models.ConnectionRequest, error) {
	defer r.metrics.TrackQuery("ListPendingFromInitiator")()
	return r.find(ctx,
		bson.M{"initiator_id": initiatorID, "status": models.ConnectionStatusPending},
		bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}},
	)
}

func (r *connectionRepository) ListAccepted(ctx context.Context, userID uint) ([]models.ConnectionRequest, error) {
	defer r.metrics.TrackQuery("ListAccepted")()
	return r.find(ctx,
		bson.M{
			"status": models.ConnectionStatusAccepted,
			"$or":    bson.A{bson.M{"initiator_id": userID}, bson.M{"recipient_id": userID}},
		},
		bson.D{{Key: "resolved_at", Value: -1}, {Key: "_id", Value: -1}},
	)
}

// ResolvePending filters on status so only one concurrent writer matches.
func (r *connectionRepository) ResolvePending(ctx context.Context, id uint, status models.ConnectionStatus, at time.Time) (bool, error) {
	defer r.metrics.TrackQuery("ResolvePending")()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.ConnectionStatusPending},
		bson.M{"$set": bson.M{"status": status, "resolved_at": at, "updated_at": at}},
	)
	if err != nil {
		r.logger.LogError(ctx, err, "resolve")
		return false, storeError(err)
	}
	if res.ModifiedCount == 0 {
		r.logger.LogConflict(ctx, "resolve", map[string]interface{}{"id": id, "status": status})
		return false, nil
	}
	r.logger.LogUpdate(ctx, map[string]interface{}{"id": id, "status": status})
	return true, nil
}
