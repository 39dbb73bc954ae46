// Package mongostore implements the repository interfaces on MongoDB.
package mongostore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vibeconnect/internal/middleware"
	"vibeconnect/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectionsCollection = "connection_requests"
	profilesCollection    = "profiles"
	countersCollection    = "counters"
)

// Store holds a MongoDB database handle shared by the repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, verifies the primary is reachable and ensures indexes.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := &Store{client: client, db: client.Database(database)}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	middleware.Logger.Info("MongoDB connected successfully", slog.String("database", database))
	return s, nil
}

// EnsureIndexes creates the lookup indexes and the one-pending-per-pair constraint.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(connectionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "pair_key", Value: 1}},
			Options: options.Index().
				SetName("pending_pair").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.ConnectionStatusPending}),
		},
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "initiator_id", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create connection indexes: %w", err)
	}

	_, err = s.db.Collection(profilesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create profile indexes: %w", err)
	}
	return nil
}

// Ping checks the primary is reachable, for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Disconnect closes the client.
func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type counter struct {
	ID  string `bson:"_id"`
	Seq uint   `bson:"seq"`
}

// nextID allocates a monotonically increasing numeric id for collection.
func (s *Store) nextID(ctx context.Context, collection string) (uint, error) {
	var c counter
	err := s.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": collection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, err
	}
	return c.Seq, nil
}
