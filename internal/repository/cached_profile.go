package repository

import (
	"context"
	"time"

	"vibeconnect/internal/cache"
	"vibeconnect/internal/models"
)

// CachedProfileRepository decorates a ProfileRepository with Redis cache-aside reads.
type CachedProfileRepository struct {
	ProfileRepository
	ttl time.Duration
}

// NewCachedProfileRepository wraps next. A non-positive ttl falls back to cache.ProfileTTL.
func NewCachedProfileRepository(next ProfileRepository, ttl time.Duration) *CachedProfileRepository {
	if ttl <= 0 {
		ttl = cache.ProfileTTL
	}
	return &CachedProfileRepository{ProfileRepository: next, ttl: ttl}
}

// GetByUserID serves the profile from Redis, loading and caching it on a miss.
func (r *CachedProfileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := cache.CacheAside(ctx, cache.ProfileKey(userID), &profile, r.ttl, func() error {
		p, err := r.ProfileRepository.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		profile = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert writes through to the store and then drops the cached copy.
func (r *CachedProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	if err := r.ProfileRepository.Upsert(ctx, profile); err != nil {
		return err
	}
	cache.InvalidateProfile(ctx, profile.UserID)
	return nil
}
