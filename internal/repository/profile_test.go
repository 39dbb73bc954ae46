package repository

import (
	"context"
	"errors"
	"testing"

	"vibeconnect/internal/cache"
	"vibeconnect/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepository_Integration(t *testing.T) {
	resetTables(t)
	repo := NewProfileRepository(testDB)
	ctx := context.Background()

	t.Run("Upsert inserts then updates by user", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, &models.Profile{UserID: 10, DisplayName: "Alice"}))
		require.NoError(t, repo.Upsert(ctx, &models.Profile{UserID: 10, DisplayName: "Alice B", Location: "Lisbon"}))

		p, err := repo.GetByUserID(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, "Alice B", p.DisplayName)
		assert.Equal(t, "Lisbon", p.Location)
	})

	t.Run("List is ordered by user", func(t *testing.T) {
		require.NoError(t, repo.Upsert(ctx, &models.Profile{UserID: 3, DisplayName: "Bob"}))
		list, err := repo.List(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, uint(3), list[0].UserID)
	})

	t.Run("GetByUserID missing", func(t *testing.T) {
		_, err := repo.GetByUserID(ctx, 404)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

type countingProfiles struct {
	ProfileRepository
	gets int
	err  error
}

func (c *countingProfiles) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	c.gets++
	if c.err != nil {
		return nil, c.err
	}
	return &models.Profile{UserID: userID, DisplayName: "Cached"}, nil
}

func (c *countingProfiles) Upsert(context.Context, *models.Profile) error { return nil }

func TestCachedProfileRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	ctx := context.Background()

	inner := &countingProfiles{}
	repo := NewCachedProfileRepository(inner, 0)

	for i := 0; i < 3; i++ {
		p, err := repo.GetByUserID(ctx, 8)
		require.NoError(t, err)
		assert.Equal(t, "Cached", p.DisplayName)
	}
	assert.Equal(t, 1, inner.gets)

	require.NoError(t, repo.Upsert(ctx, &models.Profile{UserID: 8}))
	assert.False(t, mr.Exists(cache.ProfileKey(8)), "upsert invalidates the cached card")

	inner.err = errors.New("down")
	_, err := repo.GetByUserID(ctx, 8)
	assert.Error(t, err)
}
