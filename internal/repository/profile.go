package repository

import (
	"context"
	"errors"

	"vibeconnect/internal/models"
	"vibeconnect/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	List(ctx context.Context, limit, offset int) ([]models.Profile, error)
	// Upsert inserts the profile or replaces the existing one for the same user.
	Upsert(ctx context.Context, profile *models.Profile) error
}

const profileTable = "profiles"

type profileRepository struct {
	db      *gorm.DB
	logger  *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewProfileRepository creates a GORM-backed profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{
		db:      db,
		logger:  observability.NewRepoLogger(profileTable),
		metrics: observability.NewDatabaseMetrics(profileTable),
	}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	defer r.metrics.TrackQuery("GetByUserID")()

	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", userID)
		}
		return nil, storeError(err)
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	defer r.metrics.TrackQuery("List")()

	if limit <= 0 {
		limit = 50
	}
	var profiles []models.Profile
	if err := r.db.WithContext(ctx).
		Order("user_id ASC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error; err != nil {
		return nil, storeError(err)
	}
	return profiles, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	defer r.metrics.TrackQuery("Upsert")()

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"display_name", "profile_image", "bio", "location", "interests", "updated_at",
		}),
	}).Create(profile).Error; err != nil {
		r.logger.LogError(ctx, err, "upsert")
		return storeError(err)
	}
	r.logger.LogUpdate(ctx, map[string]interface{}{"user_id": profile.UserID})
	return nil
}
