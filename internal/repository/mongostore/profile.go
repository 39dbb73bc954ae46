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

type profileRepository struct {
	coll    *mongo.Collection
	store   *Store
	metrics *observability.DatabaseMetrics
}

// Profiles returns the MongoDB-backed profile repository.
func (s *Store) Profiles() repository.ProfileRepository {
	return &profileRepository{
		coll:    s.db.Collection(profilesCollection),
		store:   s,
		metrics: observability.NewDatabaseMetrics(profilesCollection),
	}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	defer r.metrics.TrackQuery("GetByUserID")()

	var p models.Profile
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewNotFoundError("Profile", userID)
		}
		return nil, storeError(err)
	}
	return &p, nil
}

func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	defer r.metrics.TrackQuery("List")()

	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "user_id", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, storeError(err)
	}
	defer cursor.Close(ctx)

	profiles := []models.Profile{}
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, storeError(err)
	}
	return profiles, nil
}

func (r *profileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	defer r.metrics.TrackQuery("Upsert")()

	now := time.Now().UTC()
	if p.ID == 0 {
		var existing models.Profile
		err := r.coll.FindOne(ctx, bson.M{"user_id": p.UserID}).Decode(&existing)
		switch {
		case err == nil:
			p.ID = existing.ID
			p.CreatedAt = existing.CreatedAt
		case errors.Is(err, mongo.ErrNoDocuments):
			id, err := r.store.nextID(ctx, profilesCollection)
			if err != nil {
				return storeError(err)
			}
			p.ID = id
			p.CreatedAt = now
		default:
			return storeError(err)
		}
	}
	p.UpdatedAt = now

	_, err := r.coll.ReplaceOne(ctx, bson.M{"user_id": p.UserID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return storeError(err)
	}
	return nil
}
