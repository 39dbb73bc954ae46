// Package store opens the configured entity store backend.
package store

import (
	"context"
	"fmt"

	"vibeconnect/internal/cache"
	"vibeconnect/internal/config"
	"vibeconnect/internal/database"
	"vibeconnect/internal/repository"
	"vibeconnect/internal/repository/mongostore"

	"gorm.io/gorm"
)

// Stores bundles the repositories of one backend with its lifecycle hooks.
type Stores struct {
	Driver      string
	Connections repository.ConnectionRepository
	Profiles    repository.ProfileRepository
	Ping        func(ctx context.Context) error
	Close       func(ctx context.Context) error
}

// Open connects to the backend selected by cfg.DBDriver. Profile reads go
// through the Redis cache when a client is configured.
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	var (
		s   *Stores
		err error
	)
	switch cfg.DBDriver {
	case config.DriverMongo:
		s, err = openMongo(ctx, cfg)
	default:
		var db *gorm.DB
		db, err = database.Connect(cfg)
		if err == nil {
			s = FromGorm(db)
			s.Driver = cfg.DBDriver
		}
	}
	if err != nil {
		return nil, err
	}

	if cache.GetClient() != nil {
		s.Profiles = repository.NewCachedProfileRepository(s.Profiles, cfg.ProfileCacheTTL())
	}
	return s, nil
}

// FromGorm builds Stores on an existing GORM handle.
func FromGorm(db *gorm.DB) *Stores {
	return &Stores{
		Driver:      db.Dialector.Name(),
		Connections: repository.NewConnectionRepository(db),
		Profiles:    repository.NewProfileRepository(db),
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
		Close: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	}
}

func openMongo(ctx context.Context, cfg *config.Config) (*Stores, error) {
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required when DB_DRIVER=%s", config.DriverMongo)
	}
	m, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, err
	}
	return &Stores{
		Driver:      config.DriverMongo,
		Connections: m.Connections(),
		Profiles:    m.Profiles(),
		Ping:        m.Ping,
		Close:       m.Disconnect,
	}, nil
}
